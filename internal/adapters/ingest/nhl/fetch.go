package nhl

import (
	"context"
	"io"
	"net/http"
	"time"

	"rinkfeed/internal/core/pbp"
	perr "rinkfeed/internal/platform/errors"
)

const defaultHTTPTO = 30 * time.Second

// Fetcher returns the raw bytes of one document
type Fetcher interface {
	Fetch(ctx context.Context, kind Kind, g pbp.GameRef) (io.ReadCloser, error)
}

// HTTPFetcher fetches straight from the NHL hosts
type HTTPFetcher struct {
	Client    *http.Client
	Endpoints Endpoints
}

// NewHTTPFetcher builds a fetcher with a client timeout; d <= 0 uses the default
func NewHTTPFetcher(ep Endpoints, d time.Duration) *HTTPFetcher {
	if d <= 0 {
		d = defaultHTTPTO
	}
	return &HTTPFetcher{Client: &http.Client{Timeout: d}, Endpoints: ep}
}

// Fetch returns the response body on 200
func (f *HTTPFetcher) Fetch(ctx context.Context, kind Kind, g pbp.GameRef) (io.ReadCloser, error) {
	resp, err := f.get(ctx, f.Endpoints.URL(kind, g), nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, statusError(resp.StatusCode, kind, g)
	}
	return resp.Body, nil
}

func (f *HTTPFetcher) client() *http.Client {
	if f == nil || f.Client == nil {
		return &http.Client{Timeout: defaultHTTPTO}
	}
	return f.Client
}

func (f *HTTPFetcher) get(ctx context.Context, url string, hdr http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "nhl: build request %s", url)
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := f.client().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "nhl: get %s", url)
	}
	return resp, nil
}

// statusError maps an upstream status onto the retry taxonomy:
// 404 is terminal, 429 and 5xx retry
func statusError(code int, kind Kind, g pbp.GameRef) error {
	var err error
	switch {
	case code == http.StatusNotFound:
		err = perr.NotFoundf("nhl: %s for game %s not found", kind, g)
	case code == http.StatusTooManyRequests:
		err = perr.Newf(perr.ErrorCodeTooManyRequests, "nhl: rate limited fetching %s for game %s", kind, g)
	case code >= 500:
		err = perr.Unavailablef("nhl: upstream status %d fetching %s for game %s", code, kind, g)
	default:
		err = perr.Internalf("nhl: unexpected status %d fetching %s for game %s", code, kind, g)
	}
	return perr.WithOp(err, "nhl.fetch")
}

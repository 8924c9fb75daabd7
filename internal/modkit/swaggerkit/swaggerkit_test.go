package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "rinkfeed/internal/platform/net/http"
	"rinkfeed/internal/platform/testkit"
)

func fetchDoc(t *testing.T) (int, map[string]any) {
	t.Helper()
	r := phttp.NewRouter()
	Mount(r, "/api/v1", true)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	var spec map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &spec)
	return rec.Code, spec
}

func TestDocJSON(t *testing.T) {
	code, spec := fetchDoc(t)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi %v", spec["openapi"])
	}
	servers := spec["servers"].([]any)
	if servers[0].(map[string]any)["url"] != "/api/v1" {
		t.Fatalf("servers %v", servers)
	}
	combine := spec["paths"].(map[string]any)["/games/combine"].(map[string]any)["post"].(map[string]any)
	responses := combine["responses"].(map[string]any)
	for _, code := range []string{"200", "400", "422", "500"} {
		if _, ok := responses[code]; !ok {
			t.Fatalf("combine missing %s response", code)
		}
	}
	info := spec["info"].(map[string]any)
	if info["title"] != "rinkfeed API" {
		t.Fatalf("title %v", info["title"])
	}
}

func TestDocJSONBroken(t *testing.T) {
	testkit.Swap(t, &docReader, func() string { return "{" })
	code, _ := fetchDoc(t)
	if code != http.StatusInternalServerError {
		t.Fatalf("status %d", code)
	}
}

func TestMountDisabled(t *testing.T) {
	r := phttp.NewRouter()
	Mount(r, "/api/v1", false)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestEnsureServersDowngrades(t *testing.T) {
	spec := map[string]any{"swagger": "2.0"}
	ensureServers(spec, "/x")
	if spec["openapi"] != "3.0.3" || spec["swagger"] != nil {
		t.Fatalf("spec %v", spec)
	}
	spec = map[string]any{"openapi": "3.1.0"}
	ensureServers(spec, "/x")
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("3.1 not downgraded: %v", spec["openapi"])
	}
}

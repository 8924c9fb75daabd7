// Package nhl fetches the two public documents a game is reconciled from:
// the HTML play-by-play report and the statsapi live feed.
// Fetchers return raw bytes; parsing belongs to internal/core/pbp
package nhl

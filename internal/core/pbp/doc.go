// Package pbp reconciles the NHL HTML play-by-play report with the statsapi live feed.
//
// Report rows are parsed, categorized, attributed to a team, given a zone pair,
// mined for player role tokens, resolved against the feed boxscore roster and,
// for penalties, classified. The result replaces the feed's empty allPlays list.
//
// Everything here is pure: no I/O, no logging, no retries. The first failure
// aborts the whole game and no events are returned.
package pbp

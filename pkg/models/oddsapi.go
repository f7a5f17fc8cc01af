package models

import "time"

// Raw payload types for The Odds API v4. These mirror the upstream schema
// and are converted to NormalizedGame immediately after decoding; nothing
// downstream of the normalizer touches them.

type OddsAPIGame struct {
	ID           string             `json:"id"`
	SportKey     string             `json:"sport_key"`
	SportTitle   string             `json:"sport_title"`
	CommenceTime time.Time          `json:"commence_time"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	Bookmakers   []OddsAPIBookmaker `json:"bookmakers"`
}

type OddsAPIBookmaker struct {
	Key        string          `json:"key"`
	Title      string          `json:"title"`
	LastUpdate time.Time       `json:"last_update"`
	Markets    []OddsAPIMarket `json:"markets"`
}

type OddsAPIMarket struct {
	Key        string           `json:"key"`
	LastUpdate time.Time        `json:"last_update"`
	Outcomes   []OddsAPIOutcome `json:"outcomes"`
}

// OddsAPIOutcome is one quoted side. Price is American odds. Point is the
// spread/total line and is absent for moneyline outcomes. Description
// carries the player name on prop markets (older payloads fold it into
// Name instead).
type OddsAPIOutcome struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       int      `json:"price"`
	Point       *float64 `json:"point,omitempty"`
}

// OddsAPIEvent is an entry from the events endpoint, used to discover event
// ids for per-event prop fetches.
type OddsAPIEvent struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
}

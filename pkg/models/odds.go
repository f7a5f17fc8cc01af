package models

import "time"

// GameStatus describes where a game is in its lifecycle.
type GameStatus string

const (
	GameStatusUpcoming GameStatus = "upcoming"
	GameStatusLive     GameStatus = "live"
	GameStatusFinal    GameStatus = "final"
)

// PriceSide is one side of a two-way market quote. Odds are American
// (signed integer, best price = arithmetically greatest).
type PriceSide struct {
	Line      float64 `json:"line,omitempty"`
	Odds      int     `json:"odds"`
	TeamName  string  `json:"team_name,omitempty"`
	Bookmaker string  `json:"bookmaker,omitempty"`
}

// SpreadLines holds the best spread quote per side. The inverse-line
// invariant home.Line == -away.Line is enforced after parsing.
type SpreadLines struct {
	Home PriceSide `json:"home"`
	Away PriceSide `json:"away"`
}

// MoneylineLines holds the best moneyline quote per side.
type MoneylineLines struct {
	Home PriceSide `json:"home"`
	Away PriceSide `json:"away"`
}

// TotalsLines holds the best over/under quote per label.
type TotalsLines struct {
	Over  PriceSide `json:"over"`
	Under PriceSide `json:"under"`
}

// PlayerProp is a single player-prop outcome from one bookmaker.
type PlayerProp struct {
	Type      string  `json:"type"` // always "player_prop"
	Category  string  `json:"category"`
	Player    string  `json:"player"`
	Line      float64 `json:"line"`
	Odds      int     `json:"odds"`
	Bookmaker string  `json:"bookmaker"`
	Market    string  `json:"market"`
	Selection string  `json:"selection"`
}

// GameBets groups every parsed market for a game. A game with no parsed
// markets is dropped before it reaches consumers, so at least one of the
// pointer fields is set (or Props is non-empty) on any game in a result set.
type GameBets struct {
	Spread    *SpreadLines    `json:"spread"`
	Moneyline *MoneylineLines `json:"moneyline"`
	Totals    *TotalsLines    `json:"totals"`
	Props     []PlayerProp    `json:"props"`
}

// IsEmpty reports whether no market category yielded data.
func (b *GameBets) IsEmpty() bool {
	return b.Spread == nil && b.Moneyline == nil && b.Totals == nil && len(b.Props) == 0
}

// Count returns the number of populated bet categories plus props.
func (b *GameBets) Count() int {
	n := len(b.Props)
	if b.Spread != nil {
		n++
	}
	if b.Moneyline != nil {
		n++
	}
	if b.Totals != nil {
		n++
	}
	return n
}

// NormalizedGame is the canonical per-game structure every provider payload
// is converted into. GameID is prefixed with the provider id so ids from
// different sources never collide.
type NormalizedGame struct {
	GameID   string     `json:"game_id"`
	Slug     string     `json:"slug"`
	Provider string     `json:"provider"`
	HomeTeam string     `json:"home_team"` // canonical abbreviation
	AwayTeam string     `json:"away_team"`
	GameTime time.Time  `json:"game_time"`
	Status   GameStatus `json:"status"`
	Bets     GameBets   `json:"bets"`
}

// ProviderFailure records why a single provider's fetch failed during
// aggregation. Failures never abort the aggregate call.
type ProviderFailure struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
	Error    string `json:"error"`
}

// ProviderResult is one provider's successful contribution to a fetch cycle.
type ProviderResult struct {
	Provider string           `json:"provider"`
	Name     string           `json:"name"`
	Games    []NormalizedGame `json:"games"`
}

// AggregationResult is the merged outcome of fetching every configured
// provider once.
type AggregationResult struct {
	Success    []ProviderResult  `json:"success"`
	Failed     []ProviderFailure `json:"failed"`
	TotalGames int               `json:"total_games"`
	TotalBets  int               `json:"total_bets"`
	Providers  []string          `json:"providers"`
	LastUpdate time.Time         `json:"last_update"`
}

// Games flattens the per-provider results into a single list.
func (r *AggregationResult) Games() []NormalizedGame {
	var games []NormalizedGame
	for _, pr := range r.Success {
		games = append(games, pr.Games...)
	}
	return games
}

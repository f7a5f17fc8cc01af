package models

// Raw payload types for the API-Sports american-football odds endpoint
// (served through RapidAPI). The envelope matches every api-sports.io
// product: a "response" array plus paging/error metadata.

type APISportsResponse[T any] struct {
	Get        string         `json:"get"`
	Parameters map[string]any `json:"parameters"`
	Errors     any            `json:"errors"`
	Results    int            `json:"results"`
	Response   []T            `json:"response"`
}

// HasErrors checks the loosely-typed errors field the way the upstream
// populates it: empty array on success, array or object of messages on
// failure.
func (r *APISportsResponse[T]) HasErrors() bool {
	switch errs := r.Errors.(type) {
	case []any:
		return len(errs) > 0
	case map[string]any:
		return len(errs) > 0
	case string:
		return errs != ""
	default:
		return false
	}
}

type APISportsOddsEntry struct {
	Game       APISportsGame        `json:"game"`
	Bookmakers []APISportsBookmaker `json:"bookmakers"`
}

type APISportsGame struct {
	ID    int              `json:"id"`
	Date  APISportsDate    `json:"date"`
	Teams APISportsTeamSet `json:"teams"`
}

type APISportsDate struct {
	Timestamp int64  `json:"timestamp"`
	Date      string `json:"date"`
}

type APISportsTeamSet struct {
	Home APISportsTeam `json:"home"`
	Away APISportsTeam `json:"away"`
}

type APISportsTeam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type APISportsBookmaker struct {
	ID   int            `json:"id"`
	Name string         `json:"name"`
	Bets []APISportsBet `json:"bets"`
}

type APISportsBet struct {
	ID     int              `json:"id"`
	Name   string           `json:"name"`
	Values []APISportsValue `json:"values"`
}

// APISportsValue quotes one selection. Odd is a decimal-odds string
// ("1.91"); Value is a label like "Home", "Over 45.5" or "Away -3.5".
type APISportsValue struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}

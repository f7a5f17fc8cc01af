package utils

import "strings"

// nflAbbreviations maps full club names to canonical abbreviations. Covers
// all 32 clubs plus the names recently-relocated clubs still appear under
// in some feeds.
var nflAbbreviations = map[string]string{
	"Arizona Cardinals":     "ARI",
	"Atlanta Falcons":       "ATL",
	"Baltimore Ravens":      "BAL",
	"Buffalo Bills":         "BUF",
	"Carolina Panthers":     "CAR",
	"Chicago Bears":         "CHI",
	"Cincinnati Bengals":    "CIN",
	"Cleveland Browns":      "CLE",
	"Dallas Cowboys":        "DAL",
	"Denver Broncos":        "DEN",
	"Detroit Lions":         "DET",
	"Green Bay Packers":     "GB",
	"Houston Texans":        "HOU",
	"Indianapolis Colts":    "IND",
	"Jacksonville Jaguars":  "JAX",
	"Kansas City Chiefs":    "KC",
	"Las Vegas Raiders":     "LV",
	"Los Angeles Chargers":  "LAC",
	"Los Angeles Rams":      "LAR",
	"Miami Dolphins":        "MIA",
	"Minnesota Vikings":     "MIN",
	"New England Patriots":  "NE",
	"New Orleans Saints":    "NO",
	"New York Giants":       "NYG",
	"New York Jets":         "NYJ",
	"Philadelphia Eagles":   "PHI",
	"Pittsburgh Steelers":   "PIT",
	"San Francisco 49ers":   "SF",
	"Seattle Seahawks":      "SEA",
	"Tampa Bay Buccaneers":  "TB",
	"Tennessee Titans":      "TEN",
	"Washington Commanders": "WAS",

	// Legacy names still seen in some feeds
	"Oakland Raiders":          "LV",
	"Washington Football Team": "WAS",
	"Washington Redskins":      "WAS",
	"San Diego Chargers":       "LAC",
	"St. Louis Rams":           "LAR",
}

// TeamAbbreviation maps a full team name to its canonical abbreviation.
// Unmapped names pass through unchanged; the caller decides whether to log.
func TeamAbbreviation(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if abbr, ok := nflAbbreviations[trimmed]; ok {
		return abbr, true
	}
	return trimmed, false
}

package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/models"
	"github.com/iby-analytics/odds-core/pkg/providers"
	"github.com/iby-analytics/odds-core/pkg/utils"
)

// defaultTotalLine is a documented placeholder used when a totals quote
// arrives without a point value. 45 sits near the league-average total.
const defaultTotalLine = 45

// Normalizer converts raw provider payloads into the canonical
// NormalizedGame structure, selecting the best price per side across every
// reporting bookmaker. Given identical inputs the output is identical:
// nothing here is randomized.
type Normalizer struct {
	logger *logger.Logger
	now    func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		logger: logger.New("market-normalizer"),
		now:    time.Now,
	}
}

// BetterOdds reports whether a beats b for the bettor. American odds are
// ordered by signed integer value: +150 beats -110 beats -200, independent
// of implied probability.
func BetterOdds(a, b int) bool {
	return a > b
}

// NormalizeOddsAPIGames converts a bulk odds payload. Games with zero
// recognized markets are dropped entirely.
func (n *Normalizer) NormalizeOddsAPIGames(raw []models.OddsAPIGame) []models.NormalizedGame {
	games := make([]models.NormalizedGame, 0, len(raw))
	for _, entry := range raw {
		game, ok := n.normalizeOddsAPIGame(entry)
		if !ok {
			n.logger.Debug().
				Str("action", "game_dropped").
				Str("game_id", entry.ID).
				Msg("Dropping game with no recognized markets")
			continue
		}
		games = append(games, game)
	}
	return games
}

func (n *Normalizer) normalizeOddsAPIGame(raw models.OddsAPIGame) (models.NormalizedGame, bool) {
	bets := models.GameBets{
		Spread:    n.collectSpread(raw),
		Moneyline: n.collectMoneyline(raw),
		Totals:    n.collectTotals(raw),
		Props:     n.ExtractOddsAPIProps(raw),
	}
	if bets.IsEmpty() {
		return models.NormalizedGame{}, false
	}

	gameID := providers.OddsAPI + "_" + raw.ID
	home := n.abbreviate(raw.HomeTeam)
	away := n.abbreviate(raw.AwayTeam)

	return models.NormalizedGame{
		GameID:   gameID,
		Slug:     utils.GenerateGameSlug(home, away, raw.ID),
		Provider: providers.OddsAPI,
		HomeTeam: home,
		AwayTeam: away,
		GameTime: raw.CommenceTime,
		Status:   n.gameStatus(raw.CommenceTime),
		Bets:     bets,
	}, true
}

func (n *Normalizer) abbreviate(name string) string {
	abbr, ok := utils.TeamAbbreviation(name)
	if !ok {
		n.logger.Warn().
			Str("action", "unmapped_team").
			Str("team", name).
			Msg("Team name not in canonical table, passing through")
	}
	return abbr
}

func (n *Normalizer) gameStatus(commence time.Time) models.GameStatus {
	if commence.After(n.now()) {
		return models.GameStatusUpcoming
	}
	return models.GameStatusLive
}

// sideQuote accumulates the best quote seen for one side of a market.
type sideQuote struct {
	set  bool
	side models.PriceSide
}

func (q *sideQuote) offer(side models.PriceSide) {
	if !q.set || BetterOdds(side.Odds, q.side.Odds) {
		q.set = true
		q.side = side
	}
}

func (n *Normalizer) collectSpread(raw models.OddsAPIGame) *models.SpreadLines {
	var home, away sideQuote

	for _, bm := range raw.Bookmakers {
		for _, market := range bm.Markets {
			if market.Key != "spreads" {
				continue
			}
			for i, outcome := range market.Outcomes {
				line := 0.0
				if outcome.Point != nil {
					line = *outcome.Point
				}
				quote := models.PriceSide{
					Line:      line,
					Odds:      outcome.Price,
					TeamName:  outcome.Name,
					Bookmaker: bm.Title,
				}
				switch sideFor(outcome.Name, i, raw.HomeTeam, raw.AwayTeam) {
				case "home":
					home.offer(quote)
				case "away":
					away.offer(quote)
				}
			}
		}
	}

	if !home.set || !away.set {
		return nil
	}

	spread := &models.SpreadLines{Home: home.side, Away: away.side}
	enforceInverseLines(spread)
	return spread
}

// enforceInverseLines corrects quotes where the two books' lines are not
// inverse of each other. The negative (favorite) side's magnitude is kept as
// the source of truth.
func enforceInverseLines(s *models.SpreadLines) {
	if s.Home.Line+s.Away.Line == 0 {
		return
	}
	if s.Home.Line <= 0 {
		s.Away.Line = -s.Home.Line
	} else {
		s.Home.Line = -s.Away.Line
	}
}

func (n *Normalizer) collectMoneyline(raw models.OddsAPIGame) *models.MoneylineLines {
	var home, away sideQuote

	for _, bm := range raw.Bookmakers {
		for _, market := range bm.Markets {
			if market.Key != "h2h" {
				continue
			}
			for i, outcome := range market.Outcomes {
				quote := models.PriceSide{
					Odds:      outcome.Price,
					TeamName:  outcome.Name,
					Bookmaker: bm.Title,
				}
				switch sideFor(outcome.Name, i, raw.HomeTeam, raw.AwayTeam) {
				case "home":
					home.offer(quote)
				case "away":
					away.offer(quote)
				}
			}
		}
	}

	if !home.set || !away.set {
		return nil
	}
	return &models.MoneylineLines{Home: home.side, Away: away.side}
}

// sideFor identifies which side an outcome quotes. Explicit name matching
// against the game's home/away fields comes first; the upstream schema only
// "typically" orders home first, so index position is a fallback, not the
// primary signal.
func sideFor(name string, index int, homeTeam, awayTeam string) string {
	switch name {
	case homeTeam:
		return "home"
	case awayTeam:
		return "away"
	}
	if index == 0 {
		return "home"
	}
	return "away"
}

func (n *Normalizer) collectTotals(raw models.OddsAPIGame) *models.TotalsLines {
	var over, under sideQuote

	for _, bm := range raw.Bookmakers {
		for _, market := range bm.Markets {
			if market.Key != "totals" {
				continue
			}
			for _, outcome := range market.Outcomes {
				line := float64(defaultTotalLine)
				if outcome.Point != nil {
					line = *outcome.Point
				}
				quote := models.PriceSide{
					Line:      line,
					Odds:      outcome.Price,
					Bookmaker: bm.Title,
				}
				switch outcome.Name {
				case "Over":
					over.offer(quote)
				case "Under":
					under.offer(quote)
				}
			}
		}
	}

	if !over.set || !under.set {
		return nil
	}
	return &models.TotalsLines{Over: over.side, Under: under.side}
}

// ExtractOddsAPIProps records every individual player-prop outcome as a
// distinct PlayerProp. Also used by the props merger on per-event payloads.
func (n *Normalizer) ExtractOddsAPIProps(raw models.OddsAPIGame) []models.PlayerProp {
	var props []models.PlayerProp

	for _, bm := range raw.Bookmakers {
		for _, market := range bm.Markets {
			if !strings.HasPrefix(market.Key, "player_") {
				continue
			}
			for _, outcome := range market.Outcomes {
				player, selection := splitPropOutcome(outcome)
				line := 0.0
				if outcome.Point != nil {
					line = *outcome.Point
				}
				props = append(props, models.PlayerProp{
					Type:      "player_prop",
					Category:  strings.TrimPrefix(market.Key, "player_"),
					Player:    player,
					Line:      line,
					Odds:      outcome.Price,
					Bookmaker: bm.Title,
					Market:    market.Key,
					Selection: selection,
				})
			}
		}
	}

	return props
}

// splitPropOutcome extracts the player name and selection from a prop
// outcome. Newer payloads carry the player in a dedicated description field;
// older ones fold "Name Over"/"Name Under" into the outcome name.
func splitPropOutcome(outcome models.OddsAPIOutcome) (player, selection string) {
	if outcome.Description != "" {
		return outcome.Description, outcome.Name
	}

	name := outcome.Name
	if idx := strings.Index(name, " Over"); idx >= 0 {
		return name[:idx], "Over"
	}
	if idx := strings.Index(name, " Under"); idx >= 0 {
		return name[:idx], "Under"
	}
	return name, ""
}

// DecimalToAmerican converts decimal odds to American. API-Sports quotes
// decimal strings; everything downstream speaks American.
func DecimalToAmerican(decimal float64) int {
	if decimal <= 1 {
		return 0
	}
	if decimal >= 2 {
		return int(math.Round((decimal - 1) * 100))
	}
	return int(math.Round(-100 / (decimal - 1)))
}

// NormalizeAPISportsEntries converts API-Sports odds entries. The upstream
// quotes labeled values per bet type ("Home", "Over 45.5", "Away -3.5") in
// decimal odds.
func (n *Normalizer) NormalizeAPISportsEntries(entries []models.APISportsOddsEntry) []models.NormalizedGame {
	games := make([]models.NormalizedGame, 0, len(entries))

	for _, entry := range entries {
		game, ok := n.normalizeAPISportsEntry(entry)
		if !ok {
			n.logger.Debug().
				Str("action", "game_dropped").
				Int("game_id", entry.Game.ID).
				Msg("Dropping game with no recognized markets")
			continue
		}
		games = append(games, game)
	}
	return games
}

func (n *Normalizer) normalizeAPISportsEntry(entry models.APISportsOddsEntry) (models.NormalizedGame, bool) {
	var mlHome, mlAway, spHome, spAway, over, under sideQuote

	for _, bm := range entry.Bookmakers {
		for _, bet := range bm.Bets {
			for _, value := range bet.Values {
				decimal, err := strconv.ParseFloat(value.Odd, 64)
				if err != nil || decimal <= 1 {
					continue
				}
				side, line, hasLine := parseAPISportsValue(value.Value)
				quote := models.PriceSide{
					Odds:      DecimalToAmerican(decimal),
					Bookmaker: bm.Name,
				}

				switch bet.Name {
				case "Home/Away":
					switch side {
					case "Home":
						quote.TeamName = entry.Game.Teams.Home.Name
						mlHome.offer(quote)
					case "Away":
						quote.TeamName = entry.Game.Teams.Away.Name
						mlAway.offer(quote)
					}
				case "Handicap", "Asian Handicap", "Point Spread":
					if !hasLine {
						continue
					}
					quote.Line = line
					switch side {
					case "Home":
						quote.TeamName = entry.Game.Teams.Home.Name
						spHome.offer(quote)
					case "Away":
						quote.TeamName = entry.Game.Teams.Away.Name
						spAway.offer(quote)
					}
				case "Over/Under", "Total Points":
					quote.Line = float64(defaultTotalLine)
					if hasLine {
						quote.Line = line
					}
					switch side {
					case "Over":
						over.offer(quote)
					case "Under":
						under.offer(quote)
					}
				}
			}
		}
	}

	bets := models.GameBets{}
	if mlHome.set && mlAway.set {
		bets.Moneyline = &models.MoneylineLines{Home: mlHome.side, Away: mlAway.side}
	}
	if spHome.set && spAway.set {
		spread := &models.SpreadLines{Home: spHome.side, Away: spAway.side}
		enforceInverseLines(spread)
		bets.Spread = spread
	}
	if over.set && under.set {
		bets.Totals = &models.TotalsLines{Over: over.side, Under: under.side}
	}
	if bets.IsEmpty() {
		return models.NormalizedGame{}, false
	}

	gameID := providers.APISports + "_" + strconv.Itoa(entry.Game.ID)
	home := n.abbreviate(entry.Game.Teams.Home.Name)
	away := n.abbreviate(entry.Game.Teams.Away.Name)
	gameTime := time.Unix(entry.Game.Date.Timestamp, 0).UTC()

	return models.NormalizedGame{
		GameID:   gameID,
		Slug:     utils.GenerateGameSlug(home, away, strconv.Itoa(entry.Game.ID)),
		Provider: providers.APISports,
		HomeTeam: home,
		AwayTeam: away,
		GameTime: gameTime,
		Status:   n.gameStatus(gameTime),
		Bets:     bets,
	}, true
}

// parseAPISportsValue splits a value label like "Over 45.5" or "Home -3.5"
// into its side and optional line.
func parseAPISportsValue(label string) (side string, line float64, hasLine bool) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return "", 0, false
	}
	side = fields[0]
	if len(fields) > 1 {
		if parsed, err := strconv.ParseFloat(fields[1], 64); err == nil {
			return side, parsed, true
		}
	}
	return side, 0, false
}

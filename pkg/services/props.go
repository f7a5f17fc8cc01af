package services

import (
	"context"
	"sync"
	"time"

	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/models"
	"github.com/iby-analytics/odds-core/pkg/providers"
)

const (
	// maxPropEvents caps per-event requests per cycle; the event-odds
	// endpoint is rate-limited upstream.
	maxPropEvents = 3
	// minPropsPerGame is the floor below which sample props are padded in
	// so consumers always have representative content.
	minPropsPerGame  = 3
	propRequestDelay = 100 * time.Millisecond
)

// samplePropBook tags padded props so they are distinguishable from live data.
const samplePropBook = "Sample"

// sampleProps is the fixed, deterministic padding set.
var sampleProps = []models.PlayerProp{
	{Type: "player_prop", Category: "pass_yds", Player: "Patrick Mahomes", Line: 274.5, Odds: -110, Bookmaker: samplePropBook, Market: "player_pass_yds", Selection: "Over"},
	{Type: "player_prop", Category: "rush_yds", Player: "Derrick Henry", Line: 89.5, Odds: -115, Bookmaker: samplePropBook, Market: "player_rush_yds", Selection: "Over"},
	{Type: "player_prop", Category: "receptions", Player: "Tyreek Hill", Line: 6.5, Odds: -105, Bookmaker: samplePropBook, Market: "player_receptions", Selection: "Over"},
	{Type: "player_prop", Category: "anytime_td", Player: "Christian McCaffrey", Odds: 120, Bookmaker: samplePropBook, Market: "player_anytime_td", Selection: "Yes"},
}

// EventOddsFetcher is the slice of the odds client the merger needs.
type EventOddsFetcher interface {
	FetchEventOdds(ctx context.Context, sport, eventID string) (*models.OddsAPIGame, error)
}

// PropsMerger fetches per-event player-prop markets and merges them into an
// already-normalized game list. Individual event failures are logged and
// skipped; they never abort the batch.
type PropsMerger struct {
	client      EventOddsFetcher
	normalizer  *Normalizer
	rateLimiter *time.Ticker
	mutex       sync.Mutex
	logger      *logger.Logger
}

func NewPropsMerger(client EventOddsFetcher, normalizer *Normalizer) *PropsMerger {
	return &PropsMerger{
		client:      client,
		normalizer:  normalizer,
		rateLimiter: time.NewTicker(propRequestDelay),
		logger:      logger.New("props-merger"),
	}
}

// MergeProps mutates games in place: live props for up to maxPropEvents
// event ids are appended to the matching games, then every game is padded
// to the minPropsPerGame floor with sample props.
func (m *PropsMerger) MergeProps(ctx context.Context, games []models.NormalizedGame, sport string, eventIDs []string) {
	byID := make(map[string]int, len(games))
	for i, game := range games {
		byID[game.GameID] = i
	}

	if len(eventIDs) > maxPropEvents {
		eventIDs = eventIDs[:maxPropEvents]
	}

	for _, eventID := range eventIDs {
		if err := m.wait(ctx); err != nil {
			m.logger.Warn().Err(err).Msg("Prop merge cancelled")
			break
		}

		raw, err := m.client.FetchEventOdds(ctx, sport, eventID)
		if err != nil {
			m.logger.Warn().
				Err(err).
				Str("action", "prop_fetch_skipped").
				Str("event_id", eventID).
				Msg("Failed to fetch event props, skipping event")
			continue
		}

		props := m.normalizer.ExtractOddsAPIProps(*raw)
		if len(props) == 0 {
			continue
		}

		idx, ok := byID[providers.OddsAPI+"_"+eventID]
		if !ok {
			continue
		}
		games[idx].Bets.Props = append(games[idx].Bets.Props, props...)
		m.logger.Debug().
			Str("action", "props_merged").
			Str("event_id", eventID).
			Int("props", len(props)).
			Msg("Merged live player props")
	}

	for i := range games {
		padGameProps(&games[i])
	}
}

// wait paces requests against the upstream rate limit.
func (m *PropsMerger) wait(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	select {
	case <-m.rateLimiter.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// padGameProps tops a game up to minPropsPerGame using the sample set.
func padGameProps(game *models.NormalizedGame) {
	for i := 0; len(game.Bets.Props) < minPropsPerGame && i < len(sampleProps); i++ {
		game.Bets.Props = append(game.Bets.Props, sampleProps[i])
	}
}

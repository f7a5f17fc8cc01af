package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iby-analytics/odds-core/pkg/apisports"
	"github.com/iby-analytics/odds-core/pkg/models"
	"github.com/iby-analytics/odds-core/pkg/oddsapi"
	"github.com/iby-analytics/odds-core/pkg/providers"
)

// OddsAPIProvider adapts the Odds API client to the ProviderFetcher
// contract: ladder fetch, normalization, then the player-props merge.
type OddsAPIProvider struct {
	config     *models.ProviderConfig
	client     *oddsapi.Client
	normalizer *Normalizer
	props      *PropsMerger
}

func NewOddsAPIProvider(config *models.ProviderConfig, client *oddsapi.Client, normalizer *Normalizer, props *PropsMerger) *OddsAPIProvider {
	return &OddsAPIProvider{
		config:     config,
		client:     client,
		normalizer: normalizer,
		props:      props,
	}
}

func (p *OddsAPIProvider) ID() string   { return p.config.ID }
func (p *OddsAPIProvider) Name() string { return p.config.DisplayName }

func (p *OddsAPIProvider) Fetch(ctx context.Context, sport string) ([]models.NormalizedGame, error) {
	raw, err := p.client.FetchGames(ctx, sport)
	if err != nil {
		return nil, err
	}

	games := p.normalizer.NormalizeOddsAPIGames(raw)
	if len(games) == 0 {
		// Valid off-season outcome; nothing to merge props into.
		return games, nil
	}

	if p.props != nil {
		eventIDs := make([]string, 0, len(games))
		for _, game := range games {
			eventIDs = append(eventIDs, strings.TrimPrefix(game.GameID, providers.OddsAPI+"_"))
		}
		p.props.MergeProps(ctx, games, sport, eventIDs)
	}

	return games, nil
}

// APISportsProvider adapts the API-Sports client. Props are not offered on
// this feed; games carry whatever two-way markets the books quote.
type APISportsProvider struct {
	config     *models.ProviderConfig
	client     *apisports.Client
	normalizer *Normalizer
	now        func() time.Time
}

func NewAPISportsProvider(config *models.ProviderConfig, client *apisports.Client, normalizer *Normalizer) *APISportsProvider {
	return &APISportsProvider{
		config:     config,
		client:     client,
		normalizer: normalizer,
		now:        time.Now,
	}
}

func (p *APISportsProvider) ID() string   { return p.config.ID }
func (p *APISportsProvider) Name() string { return p.config.DisplayName }

func (p *APISportsProvider) Fetch(ctx context.Context, sport string) ([]models.NormalizedGame, error) {
	if sport != "americanfootball_nfl" {
		return nil, fmt.Errorf("unsupported sport %q for provider %s", sport, p.config.ID)
	}

	entries, err := p.client.FetchOdds(ctx, CurrentSeason(p.now()))
	if err != nil {
		return nil, err
	}
	return p.normalizer.NormalizeAPISportsEntries(entries), nil
}

// CurrentSeason maps a timestamp to the NFL season year: seasons are labeled
// by their starting year and roll over in August.
func CurrentSeason(now time.Time) int {
	if now.Month() >= time.August {
		return now.Year()
	}
	return now.Year() - 1
}

package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/models"
	"github.com/iby-analytics/odds-core/pkg/providers"
)

// Aggregator fans a fetch cycle out over every configured provider and
// merges the results. A provider failure is recorded, never propagated; the
// aggregate call errors only when every provider failed.
type Aggregator struct {
	registry *providers.Registry
	fetchers []ProviderFetcher
	breakers map[string]*gobreaker.CircuitBreaker
	logger   *logger.Logger
}

func NewAggregator(registry *providers.Registry, fetchers ...ProviderFetcher) *Aggregator {
	breakers := make(map[string]*gobreaker.CircuitBreaker, len(fetchers))
	for _, f := range fetchers {
		breakers[f.ID()] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        f.ID(),
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		})
	}

	return &Aggregator{
		registry: registry,
		fetchers: fetchers,
		breakers: breakers,
		logger:   logger.New("odds-aggregator"),
	}
}

// FetchAllOdds runs one aggregation cycle. Providers are fetched
// concurrently with no shared state beyond the result accumulator, so one
// slow provider never blocks the others.
func (a *Aggregator) FetchAllOdds(ctx context.Context, sport string) (*models.AggregationResult, error) {
	cycleID := uuid.NewString()
	log := a.logger.WithRequestID(cycleID)
	start := time.Now()

	result := &models.AggregationResult{LastUpdate: time.Now().UTC()}

	var (
		wg    sync.WaitGroup
		mutex sync.Mutex
	)

	for _, fetcher := range a.fetchers {
		wg.Add(1)
		go func(f ProviderFetcher) {
			defer wg.Done()

			games, err := a.fetchProvider(ctx, f, sport)

			mutex.Lock()
			defer mutex.Unlock()
			if err != nil {
				log.Warn().
					Err(err).
					Str("action", "provider_failed").
					Str("provider", f.ID()).
					Msg("Provider fetch failed")
				result.Failed = append(result.Failed, models.ProviderFailure{
					Provider: f.ID(),
					Name:     f.Name(),
					Error:    err.Error(),
				})
				return
			}
			result.Success = append(result.Success, models.ProviderResult{
				Provider: f.ID(),
				Name:     f.Name(),
				Games:    games,
			})
		}(fetcher)
	}
	wg.Wait()

	// No ordering guarantee is promised across providers, but a stable
	// order keeps snapshots and API responses diffable.
	sort.Slice(result.Success, func(i, j int) bool {
		return result.Success[i].Provider < result.Success[j].Provider
	})
	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].Provider < result.Failed[j].Provider
	})

	for _, pr := range result.Success {
		result.Providers = append(result.Providers, pr.Provider)
		result.TotalGames += len(pr.Games)
		for _, game := range pr.Games {
			result.TotalBets += game.Bets.Count()
		}
	}

	log.LogFetchCycle(cycleID, len(a.fetchers), len(result.Success), len(result.Failed),
		result.TotalGames, result.TotalBets, time.Since(start))

	if len(result.Success) == 0 {
		return nil, a.totalFailure(result)
	}
	return result, nil
}

func (a *Aggregator) fetchProvider(ctx context.Context, f ProviderFetcher, sport string) ([]models.NormalizedGame, error) {
	breaker := a.breakers[f.ID()]
	if breaker == nil {
		return f.Fetch(ctx, sport)
	}

	games, err := breaker.Execute(func() (interface{}, error) {
		return f.Fetch(ctx, sport)
	})
	if err != nil {
		return nil, err
	}
	return games.([]models.NormalizedGame), nil
}

// totalFailure builds the zero-success error. The message tells the
// operator whether to configure a key or to look at connectivity.
func (a *Aggregator) totalFailure(result *models.AggregationResult) error {
	if !a.registry.AnyCredentials() {
		return fmt.Errorf("no odds available: no API credentials configured (set an Odds API or RapidAPI key)")
	}

	reasons := make([]string, 0, len(result.Failed))
	for _, failure := range result.Failed {
		reasons = append(reasons, fmt.Sprintf("%s: %s", failure.Provider, failure.Error))
	}
	return fmt.Errorf("no odds available: all %d providers failed (%s)", len(result.Failed), strings.Join(reasons, "; "))
}

package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/iby-analytics/odds-core/pkg/models"
	"github.com/iby-analytics/odds-core/pkg/providers"
)

// stubFetcher is a canned ProviderFetcher.
type stubFetcher struct {
	id    string
	name  string
	games []models.NormalizedGame
	err   error
	calls int
}

func (s *stubFetcher) ID() string   { return s.id }
func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(ctx context.Context, sport string) ([]models.NormalizedGame, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.games, nil
}

func registryWithKey() *providers.Registry {
	r := providers.NewRegistry()
	r.ApplyCredentials(providers.Credentials{OddsAPI: "key"})
	return r
}

func TestFetchAllOddsPartialFailure(t *testing.T) {
	good := &stubFetcher{
		id:    "oddsapi",
		name:  "The Odds API",
		games: []models.NormalizedGame{propGame("abc")},
	}
	bad := &stubFetcher{
		id:   "apisports",
		name: "API-Sports NFL",
		err:  errors.New("connection refused"),
	}

	aggregator := NewAggregator(registryWithKey(), good, bad)

	result, err := aggregator.FetchAllOdds(context.Background(), "americanfootball_nfl")
	if err != nil {
		t.Fatalf("partial failure must not error the aggregate call: %v", err)
	}
	if len(result.Success) != 1 || len(result.Failed) != 1 {
		t.Fatalf("expected 1 success and 1 failure, got %d/%d", len(result.Success), len(result.Failed))
	}
	if result.Success[0].Provider != "oddsapi" {
		t.Errorf("expected oddsapi success, got %s", result.Success[0].Provider)
	}
	if result.Failed[0].Provider != "apisports" {
		t.Errorf("expected apisports failure, got %s", result.Failed[0].Provider)
	}
	if !strings.Contains(result.Failed[0].Error, "connection refused") {
		t.Errorf("failure should carry the provider error, got %q", result.Failed[0].Error)
	}
	if result.TotalGames != 1 {
		t.Errorf("expected 1 total game, got %d", result.TotalGames)
	}
	if result.TotalBets != 1 {
		t.Errorf("expected 1 total bet category, got %d", result.TotalBets)
	}
}

func TestFetchAllOddsStableOrder(t *testing.T) {
	b := &stubFetcher{id: "b-provider", name: "B", games: []models.NormalizedGame{propGame("b1")}}
	a := &stubFetcher{id: "a-provider", name: "A", games: []models.NormalizedGame{propGame("a1")}}

	aggregator := NewAggregator(registryWithKey(), b, a)

	result, err := aggregator.FetchAllOdds(context.Background(), "americanfootball_nfl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Success) != 2 {
		t.Fatalf("expected 2 successes, got %d", len(result.Success))
	}
	if result.Success[0].Provider != "a-provider" || result.Success[1].Provider != "b-provider" {
		t.Errorf("expected lexicographic provider order, got %s, %s",
			result.Success[0].Provider, result.Success[1].Provider)
	}
}

func TestFetchAllOddsAllFailedWithCredentials(t *testing.T) {
	bad := &stubFetcher{id: "oddsapi", name: "The Odds API", err: errors.New("timeout")}

	aggregator := NewAggregator(registryWithKey(), bad)

	_, err := aggregator.FetchAllOdds(context.Background(), "americanfootball_nfl")
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if !strings.Contains(err.Error(), "all 1 providers failed") {
		t.Errorf("expected connectivity-oriented message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected per-provider reason in message, got %q", err.Error())
	}
}

func TestFetchAllOddsAllFailedWithoutCredentials(t *testing.T) {
	bad := &stubFetcher{id: "oddsapi", name: "The Odds API", err: errors.New("no api key configured")}

	// Registry with no keys applied.
	aggregator := NewAggregator(providers.NewRegistry(), bad)

	_, err := aggregator.FetchAllOdds(context.Background(), "americanfootball_nfl")
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if !strings.Contains(err.Error(), "no API credentials configured") {
		t.Errorf("expected credentials-oriented message, got %q", err.Error())
	}
}

func TestFetchAllOddsCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	bad := &stubFetcher{id: "oddsapi", name: "The Odds API", err: errors.New("timeout")}

	aggregator := NewAggregator(registryWithKey(), bad)

	for i := 0; i < 4; i++ {
		_, _ = aggregator.FetchAllOdds(context.Background(), "americanfootball_nfl")
	}

	// The breaker trips after 3 consecutive failures, so the 4th cycle
	// never reaches the fetcher.
	if bad.calls != 3 {
		t.Errorf("expected breaker to stop the 4th fetch, got %d fetch calls", bad.calls)
	}
}

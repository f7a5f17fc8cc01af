package services

import (
	"context"
	"testing"
	"time"

	"github.com/iby-analytics/odds-core/pkg/models"
)

func TestResultCacheExpiry(t *testing.T) {
	cache := NewResultCache(30 * time.Millisecond)

	if _, ok := cache.Get(); ok {
		t.Error("empty cache should miss")
	}

	result := &models.AggregationResult{TotalGames: 2}
	cache.Set(result)

	got, ok := cache.Get()
	if !ok {
		t.Fatal("expected cache hit within TTL")
	}
	if got.TotalGames != 2 {
		t.Errorf("expected cached result, got %+v", got)
	}

	time.Sleep(50 * time.Millisecond)
	if _, ok := cache.Get(); ok {
		t.Error("expected cache miss after TTL")
	}
}

func TestOddsServiceLatestUsesCache(t *testing.T) {
	fetcher := &stubFetcher{
		id:    "oddsapi",
		name:  "The Odds API",
		games: []models.NormalizedGame{propGame("abc")},
	}
	aggregator := NewAggregator(registryWithKey(), fetcher)
	cache := NewResultCache(time.Minute)
	service := NewOddsService(aggregator, cache, "americanfootball_nfl")

	if _, err := service.Latest(context.Background()); err != nil {
		t.Fatalf("first Latest should fetch: %v", err)
	}
	if _, err := service.Latest(context.Background()); err != nil {
		t.Fatalf("second Latest should hit the cache: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected 1 upstream fetch across 2 Latest calls, got %d", fetcher.calls)
	}
}

func TestOddsServiceRefreshBypassesCache(t *testing.T) {
	fetcher := &stubFetcher{
		id:    "oddsapi",
		name:  "The Odds API",
		games: []models.NormalizedGame{propGame("abc")},
	}
	aggregator := NewAggregator(registryWithKey(), fetcher)
	cache := NewResultCache(time.Minute)
	service := NewOddsService(aggregator, cache, "americanfootball_nfl")

	if _, err := service.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if _, err := service.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("expected 2 upstream fetches across 2 Refresh calls, got %d", fetcher.calls)
	}

	// The refreshed result must be served to subsequent reads.
	if _, err := service.Latest(context.Background()); err != nil {
		t.Fatalf("Latest after Refresh failed: %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("Latest after Refresh should hit the cache, got %d fetches", fetcher.calls)
	}
}

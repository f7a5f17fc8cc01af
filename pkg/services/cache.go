package services

import (
	"context"
	"sync"
	"time"

	"github.com/iby-analytics/odds-core/pkg/models"
)

// ResultCache holds the latest aggregation result with a short TTL. This is
// the only layer that suppresses repeated fetches; everything below it runs
// fresh on every call.
type ResultCache struct {
	mutex     sync.RWMutex
	result    *models.AggregationResult
	expiresAt time.Time
	ttl       time.Duration
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{ttl: ttl}
}

// Get returns the cached result if it has not expired.
func (c *ResultCache) Get() (*models.AggregationResult, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.result == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.result, true
}

// Set stores a fresh result.
func (c *ResultCache) Set(result *models.AggregationResult) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.result = result
	c.expiresAt = time.Now().Add(c.ttl)
}

// OddsService is the entry point read surfaces use: cached reads with
// fetch-on-miss, plus an explicit refresh path for the sync job.
type OddsService struct {
	aggregator *Aggregator
	cache      *ResultCache
	sport      string
}

func NewOddsService(aggregator *Aggregator, cache *ResultCache, sport string) *OddsService {
	return &OddsService{
		aggregator: aggregator,
		cache:      cache,
		sport:      sport,
	}
}

// Latest returns the cached aggregation result, fetching when the cache is
// cold or expired.
func (s *OddsService) Latest(ctx context.Context) (*models.AggregationResult, error) {
	if result, ok := s.cache.Get(); ok {
		return result, nil
	}
	return s.Refresh(ctx)
}

// Refresh bypasses the cache, runs a full aggregation cycle, and stores the
// outcome.
func (s *OddsService) Refresh(ctx context.Context) (*models.AggregationResult, error) {
	result, err := s.aggregator.FetchAllOdds(ctx, s.sport)
	if err != nil {
		return nil, err
	}
	s.cache.Set(result)
	return result, nil
}

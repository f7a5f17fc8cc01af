package services

import (
	"context"

	"github.com/iby-analytics/odds-core/pkg/models"
)

// ProviderFetcher is one configured odds source as seen by the aggregation
// facade: fetch everything for a sport, already normalized.
type ProviderFetcher interface {
	// ID returns the registry id of the underlying provider.
	ID() string

	// Name returns the human-readable provider name for failure reports.
	Name() string

	// Fetch returns the provider's normalized games for the sport.
	Fetch(ctx context.Context, sport string) ([]models.NormalizedGame, error)
}

// OddsSource serves aggregation results to read surfaces (HTTP handlers,
// jobs). Implemented by OddsService.
type OddsSource interface {
	Latest(ctx context.Context) (*models.AggregationResult, error)
	Refresh(ctx context.Context) (*models.AggregationResult, error)
}

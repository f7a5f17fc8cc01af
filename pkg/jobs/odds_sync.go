package jobs

import (
	"context"
	"fmt"

	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/models"
	"github.com/iby-analytics/odds-core/pkg/services"
)

// SnapshotWriter persists a fetch cycle's outcome. Nil-able: the pipeline
// runs fine without a database attached.
type SnapshotWriter interface {
	SaveResult(ctx context.Context, result *models.AggregationResult) error
}

// OddsSyncJob refreshes the aggregated odds on a fixed cadence and records
// a snapshot when persistence is configured.
type OddsSyncJob struct {
	odds      services.OddsSource
	snapshots SnapshotWriter
	logger    *logger.Logger
}

func NewOddsSyncJob(odds services.OddsSource, snapshots SnapshotWriter) *OddsSyncJob {
	return &OddsSyncJob{
		odds:      odds,
		snapshots: snapshots,
		logger:    logger.New("odds-sync-job"),
	}
}

func (j *OddsSyncJob) Name() string {
	return "odds_sync"
}

func (j *OddsSyncJob) Schedule() string {
	return "@every 45s"
}

func (j *OddsSyncJob) Execute(ctx context.Context) error {
	result, err := j.odds.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh odds: %w", err)
	}

	j.logger.Info().
		Str("action", "odds_refreshed").
		Int("total_games", result.TotalGames).
		Int("total_bets", result.TotalBets).
		Int("failed_providers", len(result.Failed)).
		Msg("Odds refreshed")

	if j.snapshots == nil {
		return nil
	}

	// A failed write never invalidates the refresh; the cache already holds
	// the fresh result.
	if err := j.snapshots.SaveResult(ctx, result); err != nil {
		j.logger.Warn().
			Err(err).
			Str("action", "snapshot_failed").
			Msg("Failed to persist odds snapshot")
	}
	return nil
}

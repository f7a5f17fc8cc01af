// Package database persists per-cycle odds snapshots. The store is
// write-only from the pipeline's point of view: nothing in the fetch or
// normalization path ever reads it back.
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS odds_snapshots (
	id UUID PRIMARY KEY,
	taken_at TIMESTAMPTZ NOT NULL,
	total_games INT NOT NULL,
	total_bets INT NOT NULL,
	providers TEXT[] NOT NULL,
	failures JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS snapshot_games (
	snapshot_id UUID NOT NULL REFERENCES odds_snapshots(id) ON DELETE CASCADE,
	game_id TEXT NOT NULL,
	slug TEXT NOT NULL,
	provider TEXT NOT NULL,
	home_team TEXT NOT NULL,
	away_team TEXT NOT NULL,
	game_time TIMESTAMPTZ NOT NULL,
	status TEXT NOT NULL,
	bets JSONB NOT NULL,
	PRIMARY KEY (snapshot_id, game_id)
);

CREATE INDEX IF NOT EXISTS idx_snapshot_games_game_id ON snapshot_games(game_id);
`

// SnapshotStore writes aggregation results to Postgres.
type SnapshotStore struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{
		pool:   pool,
		logger: logger.New("snapshot-store"),
	}
}

// EnsureSchema creates the snapshot tables if they do not exist.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure snapshot schema: %w", err)
	}
	return nil
}

// SaveResult records one fetch cycle: a summary row plus one row per
// normalized game, all in a single transaction.
func (s *SnapshotStore) SaveResult(ctx context.Context, result *models.AggregationResult) error {
	snapshotID := uuid.New()

	failures, err := json.Marshal(result.Failed)
	if err != nil {
		return fmt.Errorf("failed to marshal failures: %w", err)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO odds_snapshots (id, taken_at, total_games, total_bets, providers, failures)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		snapshotID, result.LastUpdate, result.TotalGames, result.TotalBets, result.Providers, failures)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	batch := &pgx.Batch{}
	for _, game := range result.Games() {
		bets, err := json.Marshal(game.Bets)
		if err != nil {
			return fmt.Errorf("failed to marshal bets for %s: %w", game.GameID, err)
		}
		batch.Queue(
			`INSERT INTO snapshot_games (snapshot_id, game_id, slug, provider, home_team, away_team, game_time, status, bets)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			snapshotID, game.GameID, game.Slug, game.Provider, game.HomeTeam, game.AwayTeam,
			game.GameTime, string(game.Status), bets)
	}

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert snapshot games: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	s.logger.Debug().
		Str("action", "snapshot_saved").
		Str("snapshot_id", snapshotID.String()).
		Int("games", result.TotalGames).
		Msg("Odds snapshot saved")
	return nil
}

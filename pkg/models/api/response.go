package api

import (
	"time"

	"github.com/iby-analytics/odds-core/pkg/models"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// OddsResponse wraps an aggregation result for the read API.
type OddsResponse struct {
	Games      []models.NormalizedGame  `json:"games"`
	Failed     []models.ProviderFailure `json:"failed,omitempty"`
	TotalGames int                      `json:"total_games"`
	TotalBets  int                      `json:"total_bets"`
	Providers  []string                 `json:"providers"`
	LastUpdate time.Time                `json:"last_update"`
}

// ProviderInfo describes one registry entry without leaking its key.
type ProviderInfo struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	Status        string `json:"status"`
	RequiresProxy bool   `json:"requires_proxy"`
	Configured    bool   `json:"configured"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

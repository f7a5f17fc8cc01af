package odds

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/models/api"
	"github.com/iby-analytics/odds-core/pkg/services"
)

// Handler serves the aggregated, normalized odds.
type Handler struct {
	odds   services.OddsSource
	logger *logger.Logger
}

func NewHandler(odds services.OddsSource, log *logger.Logger) *Handler {
	return &Handler{
		odds:   odds,
		logger: log,
	}
}

// GetOdds handles GET /api/odds: cached aggregation with fetch-on-miss.
// Partial success (some providers down, props missing) is still a 200; the
// failed list tells the dashboard what is stale.
func (h *Handler) GetOdds(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	result, err := h.odds.Latest(r.Context())
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("action", "odds_fetch_failed").
			Str("endpoint", "/api/odds").
			Msg("Failed to aggregate odds")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	response := api.OddsResponse{
		Games:      result.Games(),
		Failed:     result.Failed,
		TotalGames: result.TotalGames,
		TotalBets:  result.TotalBets,
		Providers:  result.Providers,
		LastUpdate: result.LastUpdate,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error().
			Err(err).
			Str("action", "encode_failed").
			Str("endpoint", "/api/odds").
			Msg("Failed to encode odds response")
		return
	}

	h.logger.Debug().
		Str("action", "odds_served").
		Str("endpoint", "/api/odds").
		Int("games", response.TotalGames).
		Dur("duration", time.Since(start)).
		Msg("Odds served")
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: message})
}

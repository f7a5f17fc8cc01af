package providers

import (
	"encoding/json"
	"net/http"

	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/models/api"
	registry "github.com/iby-analytics/odds-core/pkg/providers"
)

// Handler exposes the provider registry for the settings surface.
type Handler struct {
	registry *registry.Registry
	logger   *logger.Logger
}

func NewHandler(reg *registry.Registry, log *logger.Logger) *Handler {
	return &Handler{
		registry: reg,
		logger:   log,
	}
}

// ListProviders handles GET /api/providers. Keys never leave the process;
// only whether one is configured.
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	infos := make([]api.ProviderInfo, 0)
	for _, p := range h.registry.All() {
		infos = append(infos, api.ProviderInfo{
			ID:            p.ID,
			DisplayName:   p.DisplayName,
			Status:        string(p.Status),
			RequiresProxy: p.RequiresProxy,
			Configured:    p.HasCredentials(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(infos); err != nil {
		h.logger.Error().
			Err(err).
			Str("action", "encode_failed").
			Str("endpoint", "/api/providers").
			Msg("Failed to encode providers response")
	}
}

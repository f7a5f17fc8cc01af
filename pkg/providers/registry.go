// Package providers holds the static descriptors for every odds source and
// the one-time credential application step. The registry is an explicit
// value constructed at startup and passed to call sites; there is no
// package-level mutable state.
package providers

import (
	"github.com/iby-analytics/odds-core/internal/config"
	"github.com/iby-analytics/odds-core/pkg/keycodec"
	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/models"
)

const (
	OddsAPI   = "oddsapi"
	APISports = "apisports"
	ESPN      = "espn"
)

// Credentials carries the per-provider API keys supplied by the settings
// surface. Empty fields mean "not configured".
type Credentials struct {
	OddsAPI  string
	RapidAPI string
}

// Registry owns the provider descriptors for one process.
type Registry struct {
	providers map[string]*models.ProviderConfig
	order     []string
	logger    *logger.Logger
}

// NewRegistry builds the registry with its static descriptors. APIKey fields
// are empty until ApplyCredentials is called.
func NewRegistry() *Registry {
	r := &Registry{
		providers: make(map[string]*models.ProviderConfig),
		logger:    logger.New("provider-registry"),
	}

	r.register(&models.ProviderConfig{
		ID:          OddsAPI,
		DisplayName: "The Odds API",
		BaseURL:     "https://api.the-odds-api.com/v4",
		Endpoints: map[string]string{
			"odds":       "/sports/%s/odds",
			"events":     "/sports/%s/events",
			"event_odds": "/sports/%s/events/%s/odds",
		},
		RequiresProxy: false,
		Status:        models.ProviderAvailable,
	})

	r.register(&models.ProviderConfig{
		ID:          APISports,
		DisplayName: "API-Sports NFL",
		BaseURL:     "https://v1.american-football.api-sports.io",
		Endpoints: map[string]string{
			"odds": "/odds",
		},
		RequiresProxy: true,
		Status:        models.ProviderAvailable,
	})

	// Declared for visibility only. HTML scoreboard scraping never made it
	// past prototype quality upstream, so the facade skips this entry.
	r.register(&models.ProviderConfig{
		ID:          ESPN,
		DisplayName: "ESPN Scoreboard",
		BaseURL:     "https://site.api.espn.com/apis/site/v2/sports/football/nfl",
		Endpoints: map[string]string{
			"scoreboard": "/scoreboard",
		},
		RequiresProxy: false,
		Status:        models.ProviderScraping,
	})

	return r
}

func (r *Registry) register(p *models.ProviderConfig) {
	r.providers[p.ID] = p
	r.order = append(r.order, p.ID)
}

// Get returns the descriptor registered under id.
func (r *Registry) Get(id string) (*models.ProviderConfig, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// All returns every descriptor in registration order.
func (r *Registry) All() []*models.ProviderConfig {
	out := make([]*models.ProviderConfig, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.providers[id])
	}
	return out
}

// Fetchable returns the providers the aggregation facade should attempt:
// available status, in registration order. Credential checks happen per
// provider at fetch time so missing keys surface as per-provider failures.
func (r *Registry) Fetchable() []*models.ProviderConfig {
	var out []*models.ProviderConfig
	for _, p := range r.All() {
		if p.Status == models.ProviderAvailable {
			out = append(out, p)
		}
	}
	return out
}

// AnyCredentials reports whether at least one fetchable provider has a key.
func (r *Registry) AnyCredentials() bool {
	for _, p := range r.Fetchable() {
		if p.HasCredentials() {
			return true
		}
	}
	return false
}

// ApplyCredentials sets API keys on the matching descriptors. Set once at
// startup; keys are read-only during fetches.
func (r *Registry) ApplyCredentials(creds Credentials) {
	if p, ok := r.providers[OddsAPI]; ok && creds.OddsAPI != "" {
		p.APIKey = creds.OddsAPI
	}
	if p, ok := r.providers[APISports]; ok && creds.RapidAPI != "" {
		p.APIKey = creds.RapidAPI
	}

	r.logger.Info().
		Str("action", "apply_credentials").
		Bool("oddsapi_configured", creds.OddsAPI != "").
		Bool("rapidapi_configured", creds.RapidAPI != "").
		Msg("Provider credentials applied")
}

// CredentialsFromConfig resolves keys from configuration, preferring the
// obfuscated variants when set. Undecodable material is treated as "no key"
// rather than a startup failure.
func CredentialsFromConfig(cfg *config.Config, log *logger.Logger) Credentials {
	creds := Credentials{
		OddsAPI:  cfg.Credentials.OddsAPIKey,
		RapidAPI: cfg.Credentials.RapidAPIKey,
	}

	if cfg.Credentials.OddsAPIKeyEnc != "" {
		key, err := keycodec.Decode(cfg.Credentials.OddsAPIKeyEnc)
		if err != nil {
			log.Warn().Err(err).Str("provider", OddsAPI).Msg("Failed to decode obfuscated API key")
		} else {
			creds.OddsAPI = key
		}
	}
	if cfg.Credentials.RapidAPIKeyEnc != "" {
		key, err := keycodec.Decode(cfg.Credentials.RapidAPIKeyEnc)
		if err != nil {
			log.Warn().Err(err).Str("provider", APISports).Msg("Failed to decode obfuscated API key")
		} else {
			creds.RapidAPI = key
		}
	}

	return creds
}

package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/iby-analytics/odds-core/internal/config"
	"github.com/iby-analytics/odds-core/pkg/apisports"
	"github.com/iby-analytics/odds-core/pkg/handlers/health"
	oddshandler "github.com/iby-analytics/odds-core/pkg/handlers/odds"
	providershandler "github.com/iby-analytics/odds-core/pkg/handlers/providers"
	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/middleware"
	"github.com/iby-analytics/odds-core/pkg/oddsapi"
	"github.com/iby-analytics/odds-core/pkg/providers"
	"github.com/iby-analytics/odds-core/pkg/proxyfetch"
	"github.com/iby-analytics/odds-core/pkg/services"
)

// Server is the read API over the odds pipeline. It owns the full pipeline
// wiring: registry, clients, normalizer, aggregator, and cache.
type Server struct {
	router   *http.ServeMux
	port     string
	logger   *logger.Logger
	registry *providers.Registry
	handlers struct {
		health    *health.Handler
		odds      *oddshandler.Handler
		providers *providershandler.Handler
	}
}

// New creates a new server instance with the pipeline wired end to end.
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	registry := providers.NewRegistry()
	registry.ApplyCredentials(providers.CredentialsFromConfig(cfg, log))

	fetcher := proxyfetch.New(&proxyfetch.Config{
		Timeout:    time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		ForceProxy: cfg.Fetch.ForceProxy,
	})
	normalizer := services.NewNormalizer()

	var fetchers []services.ProviderFetcher
	if p, ok := registry.Get(providers.OddsAPI); ok {
		client := oddsapi.NewClient(p, fetcher)
		merger := services.NewPropsMerger(client, normalizer)
		fetchers = append(fetchers, services.NewOddsAPIProvider(p, client, normalizer, merger))
	}
	if p, ok := registry.Get(providers.APISports); ok {
		fetchers = append(fetchers, services.NewAPISportsProvider(p, apisports.NewClient(p, fetcher), normalizer))
	}

	aggregator := services.NewAggregator(registry, fetchers...)
	cache := services.NewResultCache(time.Duration(cfg.Fetch.CacheTTL) * time.Second)
	oddsService := services.NewOddsService(aggregator, cache, cfg.Fetch.Sport)

	server := &Server{
		router:   http.NewServeMux(),
		port:     port,
		logger:   log,
		registry: registry,
	}

	server.handlers.health = health.NewHandler(log)
	server.handlers.odds = oddshandler.NewHandler(oddsService, log)
	server.handlers.providers = providershandler.NewHandler(registry, log)

	server.setupRoutes()

	return server, nil
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", middleware.CORS(s.handlers.health.HealthCheck))

	// Simple root endpoint
	s.router.HandleFunc("/", middleware.CORS(func(w http.ResponseWriter, r *http.Request) {
		if _, err := fmt.Fprintf(w, "NFL Odds Core API - OK"); err != nil {
			http.Error(w, "Failed to write response", http.StatusInternalServerError)
		}
	}))

	s.router.HandleFunc("/api/odds", middleware.CORS(s.handlers.odds.GetOdds))
	s.router.HandleFunc("/api/providers", middleware.CORS(s.handlers.providers.ListProviders))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().
		Str("action", "server_start").
		Str("port", s.port).
		Msg("Starting odds API server")

	if err := http.ListenAndServe(":"+s.port, s.router); err != nil {
		return fmt.Errorf("server failed to start on port %s: %w", s.port, err)
	}

	return nil
}

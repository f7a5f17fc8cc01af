package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iby-analytics/odds-core/internal/config"
	"github.com/iby-analytics/odds-core/pkg/apisports"
	"github.com/iby-analytics/odds-core/pkg/database"
	"github.com/iby-analytics/odds-core/pkg/database/pool"
	"github.com/iby-analytics/odds-core/pkg/jobs"
	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/oddsapi"
	"github.com/iby-analytics/odds-core/pkg/providers"
	"github.com/iby-analytics/odds-core/pkg/proxyfetch"
	"github.com/iby-analytics/odds-core/pkg/services"
)

func main() {
	var (
		jobName = flag.String("job", "", "Run specific job once (odds_sync)")
		once    = flag.Bool("once", false, "Run job once and exit")
	)
	flag.Parse()

	logger.SetupLogger()
	appLog := logger.New("odds-cron")
	cfg := config.Load()

	// Wire the pipeline
	registry := providers.NewRegistry()
	registry.ApplyCredentials(providers.CredentialsFromConfig(cfg, appLog))

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

	// Snapshot persistence is opt-in
	var snapshots jobs.SnapshotWriter
	if cfg.SnapshotsEnabled() {
		dbPool, err := pool.New(context.Background(), cfg.DatabaseURL(), nil)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer dbPool.Close()

		store := database.NewSnapshotStore(dbPool)
		if err := store.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Failed to ensure snapshot schema: %v", err)
		}
		snapshots = store
	}

	jobManager := jobs.NewJobManager()

	oddsJob := jobs.NewOddsSyncJob(oddsService, snapshots)
	if err := jobManager.RegisterJob(oddsJob); err != nil {
		log.Fatalf("Failed to register odds sync job: %v", err)
	}

	// Handle single job execution
	if *once && *jobName != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		switch *jobName {
		case "odds_sync":
			log.Println("Running odds sync job once...")
			if err := oddsJob.Execute(ctx); err != nil {
				log.Fatalf("Failed to execute odds sync job: %v", err)
			}
			log.Println("Odds sync completed successfully")
		default:
			log.Fatalf("Unknown job: %s. Available jobs: odds_sync", *jobName)
		}
		return
	}

	jobManager.Start()
	log.Printf("Cron job service started with %d jobs", len(jobManager.GetJobs()))

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down cron job service...")
	jobManager.Stop()
	log.Println("Cron job service stopped")
}

package main

import (
	"github.com/iby-analytics/odds-core/internal/config"
	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/server"
)

func main() {
	logger.SetupLogger()
	log := logger.New("odds-api")

	cfg := config.Load()

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

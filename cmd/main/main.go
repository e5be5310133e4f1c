package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trading-dashboard/src/catalog"
	"trading-dashboard/src/config"
	"trading-dashboard/src/interfaces"
	"trading-dashboard/src/llm"
	"trading-dashboard/src/logger"
	"trading-dashboard/src/metrics"
	"trading-dashboard/src/server"
	"trading-dashboard/src/simulator"
	"trading-dashboard/src/storage"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(cfg.Name)

	// 1. Run-history store
	var store interfaces.IRunStore
	switch cfg.Storage.DBType {
	case "postgres":
		store, err = storage.NewPostgresRunStore(cfg.MConfig, appLogger)
	default:
		store, err = storage.NewSQLiteRunStore(cfg.MConfig, appLogger)
	}
	if err != nil {
		appLogger.Critical("Failed to init store: %v", err)
	}
	if err := store.Initialize(); err != nil {
		appLogger.Critical("Failed to migrate store: %v", err)
	}
	defer store.Close()

	// 2. Event catalog (built-ins plus any authored files)
	cat := catalog.NewCatalog(appLogger)
	if cfg.EventsDir != "" {
		if err := cat.LoadDir(cfg.EventsDir); err != nil {
			appLogger.Warning("Failed to load events dir: %v", err)
		}
	}
	appLogger.Info("Catalog loaded with %d events", len(cat.List()))

	// 3. Live channel simulator
	sim := simulator.NewSimulator(cfg.Simulator, appLogger, store)

	// 4. Metrics source and text generator
	metricsSource := metrics.NewRandomSource(time.Now().UnixNano())
	generator := llm.NewClient(cfg.Generator, appLogger)

	// 5. HTTP/WebSocket server
	srv := server.NewDashboardServer(cfg.MConfig, appLogger, sim, cat, metricsSource, generator, store)
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	// 6. Retention sweep
	cleanupTicker := time.NewTicker(1 * time.Hour)
	defer cleanupTicker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	appLogger.Info("Dashboard running, press Ctrl+C to stop")

	for {
		select {
		case <-cleanupTicker.C:
			if err := store.CleanupOldData(); err != nil {
				appLogger.Warning("Retention sweep failed: %v", err)
			}

		case <-quit:
			appLogger.Info("Shutting down...")
			return
		}
	}
}

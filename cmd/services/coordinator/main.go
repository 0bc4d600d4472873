package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/relaymesh/relaycoord/internal/config"
	"github.com/relaymesh/relaycoord/internal/coordinator"
	"github.com/relaymesh/relaycoord/internal/discovery"
	"github.com/relaymesh/relaycoord/internal/events"
	"github.com/relaymesh/relaycoord/internal/hubs"
	"github.com/relaymesh/relaycoord/internal/ledger"
	"github.com/relaymesh/relaycoord/internal/logging"
	"github.com/relaymesh/relaycoord/internal/router"
	"github.com/relaymesh/relaycoord/internal/store"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Coordinator service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	// Load the city hub catalog
	catalog := hubs.DefaultCatalog()
	if cfg.Hubs.CatalogPath != "" {
		catalog, err = hubs.LoadCatalog(cfg.Hubs.CatalogPath)
		if err != nil {
			logger.Fatal("Failed to load hub catalog", "error", err, "path", cfg.Hubs.CatalogPath)
		}
	}
	hubRegistry, err := hubs.NewRegistry(catalog)
	if err != nil {
		logger.Fatal("Invalid hub catalog", "error", err)
	}
	logger.Info("Hub catalog loaded", "hubs", hubRegistry.Size())

	// Connect to the staking ledger
	logger.Info("Connecting to ledger", "type", cfg.Ledger.Type, "url", cfg.Ledger.URL)
	ledgerClient, err := ledger.NewLedger(cfg.Ledger)
	if err != nil {
		logger.Fatal("Failed to connect to ledger", "error", err)
	}
	defer func() { _ = ledgerClient.Close() }()

	// Connect to the lifecycle event queue
	logger.Info("Connecting to event queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
	publisher, err := events.NewPublisher(cfg.Queue)
	if err != nil {
		logger.Fatal("Failed to connect to event queue", "error", err)
	}
	defer func() { _ = publisher.Close() }()

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	// Create context for background services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build the coordinator and start its periodic tasks
	coord := coordinator.New(
		logger,
		cfg.Coordinator,
		store.NewNodeStore(),
		hubRegistry,
		ledgerClient,
		publisher,
		nil,
	)
	coord.Start(ctx)

	// Announce this coordinator in etcd
	var registration *discovery.Registration
	if cfg.Discovery.Enabled {
		etcdClient, err := discovery.NewClient(cfg.Etcd)
		if err != nil {
			logger.Fatal("Failed to connect to etcd", "error", err)
		}
		defer func() { _ = etcdClient.Close() }()

		registration = discovery.NewRegistration(
			etcdClient,
			uuid.New().String(),
			cfg.Discovery.AdvertiseURL,
			cfg.Discovery.LeaseTTL,
			coord.NetworkStatus,
			logger,
		)
		if err := registration.Register(ctx); err != nil {
			logger.Fatal("Failed to register coordinator in etcd", "error", err)
		}
	}

	// Initialize the HTTP app
	app := router.New(logger, coord, *cfg)

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort)
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if registration != nil {
		deregCtx, deregCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := registration.Deregister(deregCtx); err != nil {
			logger.Error("Failed to deregister coordinator", "error", err)
		}
		deregCancel()
	}

	coord.Stop()

	// Graceful shutdown with 10 second timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

// Lumen Core - Property State & Synchronization Service
//
// This is the main entry point for the Lumen Core service. It owns the
// property configuration registry, the per-category runtime state stores,
// and the synchronizer that publishes merged property documents to the
// exchange for downstream consumers.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lumenhaus/lumen-core/migrations"

	"github.com/lumenhaus/lumen-core/internal/cache"
	"github.com/lumenhaus/lumen-core/internal/events"
	"github.com/lumenhaus/lumen-core/internal/infrastructure/config"
	"github.com/lumenhaus/lumen-core/internal/infrastructure/database"
	"github.com/lumenhaus/lumen-core/internal/infrastructure/exchange"
	"github.com/lumenhaus/lumen-core/internal/infrastructure/logging"
	"github.com/lumenhaus/lumen-core/internal/infrastructure/telemetry"
	"github.com/lumenhaus/lumen-core/internal/property"
	"github.com/lumenhaus/lumen-core/internal/state"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Lumen Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise property registry
	propertyRepo := property.NewSQLiteRepository(db.DB)
	registry := property.NewRegistry(propertyRepo)
	registry.SetLogger(log)

	if refreshErr := registry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading property registry: %w", refreshErr)
	}
	log.Info("property registry initialised", "properties", registry.Count())

	// Per-category state stores; a disabled category gets no backend and
	// degrades to warn-and-skip at the read/write paths.
	stores := state.NewStores(
		newStateStore(cfg.State.Connectors, db, log, "connectors"),
		newStateStore(cfg.State.Devices, db, log, "devices"),
		newStateStore(cfg.State.Channels, db, log, "channels"),
	)

	resolver := property.NewResolver(registry)
	reader := state.NewReader(resolver, stores, registry)
	reader.SetLogger(log)
	writer := state.NewWriter(resolver, stores, registry)
	writer.SetLogger(log)

	// Connect to the exchange
	exchangeClient, err := exchange.Connect(cfg.Exchange)
	if err != nil {
		return fmt.Errorf("connecting to exchange: %w", err)
	}
	defer func() {
		log.Info("disconnecting from exchange")
		if closeErr := exchangeClient.Close(); closeErr != nil {
			log.Error("error closing exchange", "error", closeErr)
		}
	}()
	log.Info("exchange connected",
		"broker", fmt.Sprintf("%s:%d", cfg.Exchange.Broker.Host, cfg.Exchange.Broker.Port),
		"client_id", cfg.Exchange.Broker.ClientID,
	)

	exchangeClient.SetLogger(log)
	exchangeClient.SetOnConnect(func() {
		log.Info("exchange reconnected")
	})
	exchangeClient.SetOnDisconnect(func(err error) {
		log.Warn("exchange disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	telemetryClient, err := telemetry.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, telemetry.ErrDisabled):
		log.Info("telemetry disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		defer func() {
			log.Info("closing telemetry connection")
			if closeErr := telemetryClient.Close(); closeErr != nil {
				log.Error("error closing telemetry", "error", closeErr)
			}
		}()
		telemetryClient.SetOnError(func(err error) {
			log.Error("telemetry write error", "error", err)
		})
		log.Info("telemetry connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	}

	// Cache invalidation and the event dispatcher
	invalidator := cache.NewInvalidator(cache.New(), cache.New())
	invalidator.SetLogger(log)

	synchronizer := events.NewSynchronizer(registry, reader, writer, exchangeClient)
	synchronizer.SetLogger(log)
	if telemetryClient != nil && telemetryClient.IsConnected() {
		synchronizer.SetTelemetry(telemetryClient)
	}

	dispatcher := events.NewDispatcher(invalidator, synchronizer)
	dispatcher.SetLogger(log)
	if startErr := dispatcher.Start(ctx); startErr != nil {
		return fmt.Errorf("starting dispatcher: %w", startErr)
	}
	defer func() {
		log.Info("stopping dispatcher")
		dispatcher.Stop()
	}()

	// Consume collaborator signals from the exchange
	consumer := events.NewConsumer(registry, reader, writer, dispatcher)
	consumer.SetLogger(log)
	if bindErr := consumer.Bind(exchangeClient); bindErr != nil {
		return fmt.Errorf("binding signal consumer: %w", bindErr)
	}
	log.Info("signal consumer bound",
		"configuration_key", exchange.RoutingKeyConfigurationChanged,
		"state_key", exchange.RoutingKeyStateReported,
	)

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, exchangeClient, telemetryClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. Dispatcher
	// 2. Telemetry (if enabled)
	// 3. Exchange
	// 4. Database

	log.Info("Lumen Core stopped")
	return nil
}

// newStateStore builds one category's state store from its config switch.
func newStateStore(cfg config.StateBackendConfig, db *database.DB, log *logging.Logger, category string) *state.Store {
	if !cfg.Enabled {
		log.Warn("state backend disabled", "category", category)
		return state.NewStore(nil)
	}
	store := state.NewStore(state.NewSQLiteBackend(db.DB))
	store.SetLogger(log)
	return store
}

// getConfigPath returns the configuration file path.
// Uses LUMEN_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("LUMEN_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, exchangeClient *exchange.Client, telemetryClient *telemetry.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := exchangeClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("exchange: %w", err)
	}
	if telemetryClient != nil {
		if err := telemetryClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}
	return nil
}

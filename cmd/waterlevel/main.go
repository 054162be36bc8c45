// waterlevel-core - Device Telemetry & Command Gateway
//
// This is the main entry point for the waterlevel gateway. The gateway
// ingests untrusted telemetry from field devices over MQTT, persists
// validated readings to InfluxDB, fans them out to WebSocket subscribers,
// and delivers pump and threshold commands back to devices with bounded
// retries.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/hydrosense/waterlevel-core/migrations"

	"github.com/hydrosense/waterlevel-core/internal/api"
	"github.com/hydrosense/waterlevel-core/internal/directory"
	"github.com/hydrosense/waterlevel-core/internal/gateway"
	"github.com/hydrosense/waterlevel-core/internal/infrastructure/config"
	"github.com/hydrosense/waterlevel-core/internal/infrastructure/database"
	"github.com/hydrosense/waterlevel-core/internal/infrastructure/logging"
	"github.com/hydrosense/waterlevel-core/internal/infrastructure/metrics"
	"github.com/hydrosense/waterlevel-core/internal/infrastructure/mqtt"
	"github.com/hydrosense/waterlevel-core/internal/notify"
	"github.com/hydrosense/waterlevel-core/internal/telemetry"
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
	log.Info("starting waterlevel gateway",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

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

	// Open the device directory database
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

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	deviceRepo := directory.NewSQLiteRepository(db.DB)

	// Connect to the telemetry store
	store, err := telemetry.NewInfluxStore(cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("connecting to telemetry store: %w", err)
	}
	defer func() {
		log.Info("closing telemetry store")
		if closeErr := store.Close(); closeErr != nil {
			log.Error("error closing telemetry store", "error", closeErr)
		}
	}()
	log.Info("telemetry store connected",
		"url", cfg.Telemetry.URL,
		"org", cfg.Telemetry.Org,
		"bucket", cfg.Telemetry.Bucket,
	)

	// Connect to the MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Gateway metrics
	gatewayMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Live notification hub
	hub := notify.NewHub(
		cfg.WebSocket,
		notify.NewTicketVerifier(cfg.Security.JWT.Secret),
		log,
		gatewayMetrics,
	)
	go hub.Run(ctx)

	// Delivery scheduler and command dispatcher
	scheduler := gateway.NewTimerScheduler(cfg.Gateway.Scheduler.Workers, cfg.Gateway.Scheduler.MaxPending)
	defer func() {
		log.Info("draining delivery scheduler")
		scheduler.Close()
	}()

	dispatcher := gateway.NewDispatcher(
		mqttClient,
		scheduler,
		gateway.RetryPolicyFromConfig(cfg.Gateway.Retry),
		byte(cfg.MQTT.QoS),
		log,
		gatewayMetrics,
	)

	// Telemetry ingestion pipeline, wired as the transport callback
	ingestor := gateway.NewIngestor(deviceRepo, store, hub, log, gatewayMetrics)

	topics := mqtt.Topics{}
	sensorTopic := topics.AllSensorData()
	err = mqttClient.Subscribe(sensorTopic, byte(cfg.MQTT.QoS), func(topic string, payload []byte) error {
		return ingestor.Ingest(ctx, payload, topic)
	})
	if err != nil {
		return fmt.Errorf("subscribing to telemetry: %w", err)
	}
	log.Info("telemetry subscription active", "topic", sensorTopic)

	// Ops HTTP server
	server, err := api.New(api.Deps{
		Config:     cfg.API,
		WS:         cfg.WebSocket,
		Logger:     log,
		Hub:        hub,
		Dispatcher: dispatcher,
		Directory:  deviceRepo,
		Store:      store,
		Notifier:   hub,
		Version:    version,
		Readiness: map[string]api.HealthChecker{
			"database":  db,
			"mqtt":      mqttClient,
			"telemetry": store,
		},
	})
	if err != nil {
		return fmt.Errorf("creating ops server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting ops server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing ops server", "error", closeErr)
		}
	}()

	// Verify all connections are healthy before declaring readiness
	if err := healthCheck(ctx, db, mqttClient, store); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. Ops server (stops accepting requests)
	// 2. Delivery scheduler (abandons pending retries)
	// 3. MQTT (publishes offline status via LWT path)
	// 4. Telemetry store
	// 5. Database

	log.Info("waterlevel gateway stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses WATERLEVEL_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("WATERLEVEL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, store *telemetry.InfluxStore) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if err := store.HealthCheck(ctx); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

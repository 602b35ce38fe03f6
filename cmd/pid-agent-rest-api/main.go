// cmd/pid-agent-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	v1 "github.com/mcp2everything/PID-agent/internal/api/rest/v1"
	"github.com/mcp2everything/PID-agent/internal/app"
	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/domain/providers"
	"github.com/mcp2everything/PID-agent/internal/domain/tuning"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/llm"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/memory"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/persistence"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/persistence/models"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/registry"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/serialport"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/simulator"
	"github.com/mcp2everything/PID-agent/internal/pkg/config"
	"github.com/mcp2everything/PID-agent/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/rest-api.yaml"
	}

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	controlService   device.ControlService
	telemetryService device.TelemetryService
	analysisService  tuning.AnalysisService
	registry         providers.Registry
	portLister       device.PortLister
	collector        *app.Collector
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	// Run migrations
	if err := db.AutoMigrate(&models.ChannelLogModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Database migrations completed successfully")

	telemetryRepo, err := persistence.NewGormTelemetryRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry repository: %w", err)
	}

	// Initialize the LLM provider registry
	providerRegistry, err := registry.NewFileRegistry(cfg.ProvidersFile, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider registry: %w", err)
	}

	// Initialize services
	linkFactory := func(opts device.ConnectOptions) device.Link {
		if opts.UseMock {
			return simulator.NewLink(opts.NumChannels)
		}
		return serialport.NewConn(opts.Port, opts.BaudRate, log)
	}

	controlService, err := app.NewControlService(linkFactory, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create control service: %w", err)
	}

	buffer := memory.NewBuffer(memory.DefaultCapacity)

	telemetryService, err := app.NewTelemetryService(telemetryRepo, buffer, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry service: %w", err)
	}

	advisor := llm.NewAdvisor(providerRegistry, log)
	analysisService, err := app.NewAnalysisService(buffer, advisor, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis service: %w", err)
	}

	pollInterval := cfg.Device.PollInterval
	if pollInterval == 0 {
		pollInterval = time.Second
	}
	collector, err := app.NewCollector(controlService, telemetryRepo, buffer, pollInterval, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry collector: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appDependencies{
		controlService:   controlService,
		telemetryService: telemetryService,
		analysisService:  analysisService,
		registry:         providerRegistry,
		portLister:       serialport.NewLister(),
		collector:        collector,
	}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup API routes
	v1.SetupRoutes(r,
		deps.controlService,
		deps.telemetryService,
		deps.analysisService,
		deps.registry,
		deps.portLister,
		cfg.JWTSecret,
	)

	// Start the background telemetry collector
	collectorCtx, stopCollector := context.WithCancel(context.Background())
	defer stopCollector()
	go deps.collector.Run(collectorCtx)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal %v, initiating graceful shutdown", sig)
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	stopCollector()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

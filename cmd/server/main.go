package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"parking/internal/app"
	"parking/internal/config"
	"parking/internal/handler"
	internalRedis "parking/internal/redis"
	"parking/internal/repository/postgres"
	"parking/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	vehicleRepo := postgres.NewVehicleRepository(db)
	entranceRepo := postgres.NewEntranceRepository(db)
	entranceSpaceRepo := postgres.NewEntranceSpaceRepository(db)
	spaceRepo := postgres.NewSpaceRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)

	// Rate table from configuration.
	rates := service.RateConfig{
		FlatRate:         cfg.Rates.FlatRate,
		FlatRateHours:    cfg.Rates.FlatRateHours,
		DailyRate:        cfg.Rates.DailyRate,
		HourlySmall:      cfg.Rates.HourlySmall,
		HourlyMedium:     cfg.Rates.HourlyMedium,
		HourlyLarge:      cfg.Rates.HourlyLarge,
		ContinuityWindow: cfg.Rates.ContinuityWindow,
	}

	// Initialize services.
	clock := service.SystemClock{}
	catalogService := service.NewCatalogService(spaceRepo)
	occupancyService := service.NewOccupancyService(sessionRepo)
	selectorService := service.NewSelectorService(catalogService, occupancyService)
	ledgerService := service.NewTicketLedgerService(db, ticketRepo, sessionRepo, rates, clock)
	billingService := service.NewBillingService(sessionRepo, entranceRepo, spaceRepo, rates, clock)
	garageService := service.NewGarageService(
		vehicleRepo,
		entranceRepo,
		spaceRepo,
		entranceSpaceRepo,
		selectorService,
		occupancyService,
		ledgerService,
		billingService,
		lockStore,
		cacheStore,
		clock,
	)

	// Initialize handlers.
	vehicleHandler := handler.NewVehicleHandler(garageService, vehicleRepo, clock)
	entranceHandler := handler.NewEntranceHandler(garageService, entranceRepo)
	spaceHandler := handler.NewSpaceHandler(spaceRepo, clock)
	ticketHandler := handler.NewTicketHandler(ledgerService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		VehicleHandler:  vehicleHandler,
		EntranceHandler: entranceHandler,
		SpaceHandler:    spaceHandler,
		TicketHandler:   ticketHandler,
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	reservationapp "github.com/w7-mgfcode/warehouse-management-system/internal/application/reservation"
	stockapp "github.com/w7-mgfcode/warehouse-management-system/internal/application/stock"
	transferapp "github.com/w7-mgfcode/warehouse-management-system/internal/application/transfer"
	warehouseapp "github.com/w7-mgfcode/warehouse-management-system/internal/application/warehouse"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
	"github.com/w7-mgfcode/warehouse-management-system/internal/infrastructure/auth"
	"github.com/w7-mgfcode/warehouse-management-system/internal/infrastructure/cache"
	"github.com/w7-mgfcode/warehouse-management-system/internal/infrastructure/config"
	"github.com/w7-mgfcode/warehouse-management-system/internal/infrastructure/event"
	"github.com/w7-mgfcode/warehouse-management-system/internal/infrastructure/logger"
	"github.com/w7-mgfcode/warehouse-management-system/internal/infrastructure/persistence"
	"github.com/w7-mgfcode/warehouse-management-system/internal/interfaces/http/handler"
	"github.com/w7-mgfcode/warehouse-management-system/internal/interfaces/http/middleware"
	"github.com/w7-mgfcode/warehouse-management-system/internal/interfaces/http/router"
)

const maxRequestBodyBytes = 1 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting warehouse management system",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories outside the transaction scope serve the read paths;
	// every write goes through the scope instead.
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	binRepo := persistence.NewGormBinRepository(db.DB)
	contentRepo := persistence.NewGormBinContentRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	reservationRepo := persistence.NewGormReservationRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)

	scope := persistence.NewGormScope(db.DB)

	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Duplicate movement references are caught in Redis when available.
	// A single-instance deployment falls back to the in-process store.
	var idempotencyStore shared.IdempotencyStore
	var tokenBlacklist auth.TokenBlacklist
	redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency and revocation stores", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		idempotencyStore = redisStore
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisStore.GetClient())
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	ledgerService := stockapp.NewLedgerService(scope, log)
	ledgerService.SetEventPublisher(eventBus)
	ledgerService.SetIdempotencyStore(idempotencyStore)
	ledgerService.SetIdempotencyTTL(cfg.Stock.IdempotencyTTL)

	movementService := stockapp.NewMovementService(movementRepo, contentRepo, log)
	expiryService := stockapp.NewExpiryService(contentRepo, stock.UrgencyThresholds{
		CriticalDays: cfg.Stock.UrgencyCriticalDays,
		HighDays:     cfg.Stock.UrgencyHighDays,
		MediumDays:   cfg.Stock.UrgencyMediumDays,
	})

	reservationService := reservationapp.NewService(scope, log)
	reservationService.SetEventPublisher(eventBus)
	reservationService.SetDefaultExpiry(cfg.Stock.DefaultReservationExpiry)

	transferService := transferapp.NewService(scope, log)
	transferService.SetEventPublisher(eventBus)

	warehouseService := warehouseapp.NewService(warehouseRepo, binRepo, log)

	// Background release of overdue reservations. Fulfillment racing the
	// sweep is resolved by the reservation's own terminal-state check.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	expirationService := reservationapp.NewExpirationService(scope, log)
	expirationService.SetEventPublisher(eventBus)
	expirationService.Start(sweepCtx, cfg.Stock.ReservationSweepInterval)
	log.Info("Reservation expiry sweeper started",
		zap.Duration("interval", cfg.Stock.ReservationSweepInterval),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS())
	engine.Use(middleware.BodyLimit(maxRequestBodyBytes))
	engine.Use(middleware.RateLimit(middleware.NewRateLimiter(300, time.Minute)))

	authMiddleware := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/system/info",
		},
		Logger: log,
	})

	router.Register(engine, router.Handlers{
		Warehouse:   handler.NewWarehouseHandler(warehouseService),
		Stock:       handler.NewStockHandler(ledgerService, contentRepo),
		Movement:    handler.NewMovementHandler(movementService),
		Reservation: handler.NewReservationHandler(reservationService, reservationRepo),
		Transfer:    handler.NewTransferHandler(transferService, transferRepo),
		Expiry:      handler.NewExpiryHandler(expiryService),
		System:      handler.NewSystemHandler(db.DB),
	}, authMiddleware)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	commodityapp "github.com/tradewiser/backend/internal/application/commodity"
	depositapp "github.com/tradewiser/backend/internal/application/deposit"
	identityapp "github.com/tradewiser/backend/internal/application/identity"
	loanapp "github.com/tradewiser/backend/internal/application/loan"
	paymentapp "github.com/tradewiser/backend/internal/application/payment"
	processapp "github.com/tradewiser/backend/internal/application/process"
	receiptapp "github.com/tradewiser/backend/internal/application/receipt"
	warehouseapp "github.com/tradewiser/backend/internal/application/warehouse"
	"github.com/tradewiser/backend/internal/infrastructure/auth"
	"github.com/tradewiser/backend/internal/infrastructure/cache"
	"github.com/tradewiser/backend/internal/infrastructure/config"
	"github.com/tradewiser/backend/internal/infrastructure/event"
	"github.com/tradewiser/backend/internal/infrastructure/logger"
	"github.com/tradewiser/backend/internal/infrastructure/persistence"
	"github.com/tradewiser/backend/internal/infrastructure/pricing"
	"github.com/tradewiser/backend/internal/infrastructure/storage"
	"github.com/tradewiser/backend/internal/infrastructure/ws"
	"github.com/tradewiser/backend/internal/interfaces/http/handler"
	"github.com/tradewiser/backend/internal/interfaces/http/middleware"
	"github.com/tradewiser/backend/internal/interfaces/http/router"
)

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

	log.Info("Starting TradeWiser backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis is optional: token blacklist, idempotency keys and the
	// verification cache degrade to process-local fallbacks without it.
	var (
		blacklist        auth.TokenBlacklist
		idempotencyStore cache.IdempotencyStore
		verifyCache      cache.VerificationCache
	)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	redisErr := redisClient.Ping(pingCtx).Err()
	cancelPing()
	if redisErr != nil {
		log.Warn("Redis unavailable, using in-memory fallbacks", zap.Error(redisErr))
		_ = redisClient.Close()
		blacklist = auth.NewInMemoryTokenBlacklist()
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
		verifyCache = cache.NoopVerificationCache{}
	} else {
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		blacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
		idempotencyStore = cache.NewRedisIdempotencyStore(redisClient, "payment:idem:")
		verifyCache = cache.NewRedisVerificationCache(redisClient, cfg.Receipt.VerifyCacheTTL)
		defer func() {
			_ = redisClient.Close()
		}()
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	commodityRepo := persistence.NewGormCommodityRepository(db.DB)
	sackRepo := persistence.NewGormSackRepository(db.DB)
	processRepo := persistence.NewGormProcessRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	loanRepo := persistence.NewGormLoanRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)

	// Document storage for receipt attachments
	var docStorage receiptapp.DocumentStorage
	switch cfg.Storage.Provider {
	case "s3":
		s3Storage, err := storage.NewS3DocumentStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		ensureCtx, cancelEnsure := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(ensureCtx); err != nil {
			log.Warn("Could not ensure attachment bucket", zap.Error(err))
		}
		cancelEnsure()
		docStorage = s3Storage
		log.Info("S3 document storage ready", zap.String("bucket", cfg.Storage.Bucket))
	default:
		docStorage = storage.NewStubDocumentStorage()
		log.Info("Using stub document storage")
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	warehouseService := warehouseapp.NewService(warehouseRepo, eventBus, log)
	depositService := depositapp.NewService(commodityRepo, processRepo, warehouseRepo, eventBus, log)
	processService := processapp.NewService(processRepo, eventBus, log)
	commodityService := commodityapp.NewService(commodityRepo, sackRepo, eventBus, log)
	receiptService := receiptapp.NewService(receiptRepo, commodityRepo, processRepo, docStorage, verifyCache, eventBus, log)
	loanService := loanapp.NewService(loanRepo, receiptRepo, paymentRepo, idempotencyStore, eventBus, log)
	paymentService := paymentapp.NewService(paymentRepo, warehouseRepo, receiptRepo, idempotencyStore, eventBus, log)

	// Completed deposit processes mint receipts, completed withdrawal
	// processes release the underlying stock.
	issuerHandler := receiptapp.NewIssuerHandler(receiptRepo, commodityRepo, warehouseRepo, eventBus, log)
	eventBus.Subscribe(issuerHandler, issuerHandler.EventTypes()...)

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	// Websocket hub broadcasts domain events to connected clients
	hub := ws.NewHub(cfg.WS, log)
	if cfg.WS.Enabled {
		go hub.Run(rootCtx)
		forwarder := ws.NewEventForwarder(hub)
		eventBus.Subscribe(forwarder, forwarder.EventTypes()...)
		defer hub.Stop()
	}

	// Daily sweep: accrue interest on active loans, default loans past
	// maturity, expire receipts past their validity window
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-rootCtx.Done():
				return
			case now := <-ticker.C:
				if n, err := loanService.AccrueInterest(rootCtx, now); err != nil {
					log.Error("Interest accrual failed", zap.Error(err))
				} else if n > 0 {
					log.Info("Interest accrued", zap.Int("loans", n))
				}
				if n, err := loanService.DefaultOverdue(rootCtx, now); err != nil {
					log.Error("Loan default sweep failed", zap.Error(err))
				} else if n > 0 {
					log.Warn("Loans defaulted", zap.Int("loans", n))
				}
				if n, err := receiptService.ExpireLapsed(rootCtx, now); err != nil {
					log.Error("Receipt expiry sweep failed", zap.Error(err))
				} else if n > 0 {
					log.Info("Receipts expired", zap.Int("receipts", n))
				}
			}
		}
	}()

	// Market pricing worker refreshes commodity valuations
	if cfg.Pricing.Enabled {
		priceClient := pricing.NewClient(cfg.Pricing)
		priceWorker := pricing.NewWorker(priceClient, commodityRepo, receiptRepo, eventBus, cfg.Pricing.PollInterval, log)
		go priceWorker.Run(rootCtx)
	}

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

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Credential endpoints get a tighter limit than the general API
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimit := middleware.RateLimit(authLimiter)
		engine.Use(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/auth/") {
				authLimit(c)
				return
			}
			c.Next()
		})
	}

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	router.Setup(engine, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Warehouse: handler.NewWarehouseHandler(warehouseService, paymentService),
		Deposit:   handler.NewDepositHandler(depositService),
		Process:   handler.NewProcessHandler(processService),
		Commodity: handler.NewCommodityHandler(commodityService),
		Receipt:   handler.NewReceiptHandler(receiptService),
		Loan:      handler.NewLoanHandler(loanService),
		Payment:   handler.NewPaymentHandler(paymentService),
		WS:        handler.NewWSHandler(hub, jwtService, cfg.WS, log),
		System:    handler.NewSystemHandler(db.DB),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	cancelRoot()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}

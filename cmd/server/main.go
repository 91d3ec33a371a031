package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	catalogapp "github.com/elotech/pdv-backend/internal/application/catalog"
	identityapp "github.com/elotech/pdv-backend/internal/application/identity"
	salesapp "github.com/elotech/pdv-backend/internal/application/sales"
	tillapp "github.com/elotech/pdv-backend/internal/application/till"
	"github.com/elotech/pdv-backend/internal/domain/identity"
	"github.com/elotech/pdv-backend/internal/infrastructure/auth"
	"github.com/elotech/pdv-backend/internal/infrastructure/cache"
	"github.com/elotech/pdv-backend/internal/infrastructure/config"
	"github.com/elotech/pdv-backend/internal/infrastructure/logger"
	"github.com/elotech/pdv-backend/internal/infrastructure/persistence"
	"github.com/elotech/pdv-backend/internal/infrastructure/scheduler"
	"github.com/elotech/pdv-backend/internal/interfaces/http/handler"
	"github.com/elotech/pdv-backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting pdv backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	queryCache := cache.NewQueryCache(
		cache.WithLogger(log),
		cache.WithCleanupInterval(cfg.Cache.CleanupInterval),
	)
	defer queryCache.Stop()

	// repositories
	productRepo := persistence.NewCachedProductRepository(
		persistence.NewGormProductRepository(db.DB),
		queryCache,
		cfg.Cache.ProductListTTL,
		cfg.Cache.ProductSingleTTL,
	)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	tillRepo := persistence.NewGormTillRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewTokenBlacklist(cfg.Redis, log)
	tracker := identity.NewSessionTracker(func(userID uuid.UUID) {
		log.Info("operator session started", zap.String("user_id", userID.String()))
	})

	// application services
	productService := catalogapp.NewProductService(productRepo, log)
	checkoutService := salesapp.NewCheckoutService(saleRepo, productRepo, tillRepo, log)
	tillService := tillapp.NewTillService(tillRepo, saleRepo, userRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, tracker, log)

	engine, err := router.New(router.Config{
		AppConfig:  cfg,
		Logger:     log,
		JWTService: jwtService,
		Blacklist:  blacklist,
		Handlers: router.Handlers{
			System:  handler.NewSystemHandler(db, version),
			Auth:    handler.NewAuthHandler(authService),
			Product: handler.NewProductHandler(productService),
			Sale:    handler.NewSaleHandler(checkoutService),
			Till:    handler.NewTillHandler(tillService),
		},
	})
	if err != nil {
		log.Fatal("failed to build router", zap.Error(err))
	}

	// background stock audit
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	if cfg.Stock.ReconcileEnabled {
		reconciler := scheduler.NewReconciler(db.DB, log, cfg.Stock.ReconcileInterval)
		go reconciler.Run(jobCtx)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	cancelJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

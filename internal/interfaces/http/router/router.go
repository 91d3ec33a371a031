package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elotech/pdv-backend/internal/infrastructure/auth"
	"github.com/elotech/pdv-backend/internal/infrastructure/config"
	"github.com/elotech/pdv-backend/internal/interfaces/http/handler"
	"github.com/elotech/pdv-backend/internal/interfaces/http/middleware"
)

// Handlers groups all route handlers wired by the router
type Handlers struct {
	System  *handler.SystemHandler
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Sale    *handler.SaleHandler
	Till    *handler.TillHandler
}

// Config holds router dependencies
type Config struct {
	AppConfig  *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist
	Handlers   Handlers
}

// New builds the gin engine with middleware and all API routes
func New(cfg Config) (*gin.Engine, error) {
	if cfg.AppConfig.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := middleware.SetupValidator(); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(cfg.Logger),
		middleware.Recovery(cfg.Logger),
	)

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.AppConfig.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AppConfig.HTTP.CORSAllowOrigins
	}
	if len(cfg.AppConfig.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.AppConfig.HTTP.CORSAllowMethods
	}
	if len(cfg.AppConfig.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.AppConfig.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(corsCfg))

	api := engine.Group("/api/v1")

	cfg.Handlers.System.RegisterRoutes(api)
	cfg.Handlers.Auth.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(middleware.JWTConfig{
		JWTService: cfg.JWTService,
		Blacklist:  cfg.Blacklist,
		Logger:     cfg.Logger,
	}))

	adminOnly := middleware.RequireRole("admin")

	cfg.Handlers.Auth.RegisterProtectedRoutes(protected, adminOnly)
	cfg.Handlers.Product.RegisterRoutes(protected, adminOnly)
	cfg.Handlers.Sale.RegisterRoutes(protected, adminOnly)
	cfg.Handlers.Till.RegisterRoutes(protected, adminOnly)

	return engine, nil
}

// Package main is the entry point for the shipping quote API server.
//
//	@title			Shipping Quote API
//	@version		1.0
//	@description	Shipping quote service: packaging selection, rule matching, carrier and marketplace freight with deterministic fallbacks.
//
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						X-API-Key
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	shippingapp "github.com/mydfacylita/backend/internal/application/shipping"
	"github.com/mydfacylita/backend/internal/domain/shipping"
	"github.com/mydfacylita/backend/internal/infrastructure/cache"
	"github.com/mydfacylita/backend/internal/infrastructure/config"
	"github.com/mydfacylita/backend/internal/infrastructure/freight"
	"github.com/mydfacylita/backend/internal/infrastructure/logger"
	"github.com/mydfacylita/backend/internal/infrastructure/persistence"
	"github.com/mydfacylita/backend/internal/infrastructure/telemetry"
	"github.com/mydfacylita/backend/internal/interfaces/http/handler"
	"github.com/mydfacylita/backend/internal/interfaces/http/middleware"
	"github.com/mydfacylita/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	log.Info("Starting shipping quote API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	// Repositories
	ruleRepo := persistence.NewGormRuleRepository(db.DB)
	boxRepo := persistence.NewGormBoxRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)

	// Postal resolution with Redis-backed caching. A missing Redis degrades
	// to an in-memory cache rather than blocking startup.
	cacheFactory := cache.NewPostalCacheFactory(cfg.Redis, cache.WithLogger(log))
	postalCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create postal cache", zap.Error(err))
	}
	postal := cache.NewCachedPostalLookup(
		freight.NewViaCEPClient(cfg.AliExpress.PostalLookupURL, cfg.AliExpress.Timeout),
		postalCache,
		cfg.Shipping.CEPCacheTTL,
		log,
	)

	// Freight gateways. The carrier client is always constructed; whether it
	// is consulted is governed by the stored shipping settings. The
	// marketplace adapter only exists when credentials are configured.
	var carrier shipping.CarrierGateway = freight.NewCorreiosClient(cfg.Correios.BaseURL, cfg.Correios.Timeout, log)

	var marketplace shipping.MarketplaceFreightGateway
	if cfg.AliExpress.AppKey != "" {
		adapter, err := freight.NewAliExpressAdapter(&freight.AliExpressConfig{
			AppKey:     cfg.AliExpress.AppKey,
			AppSecret:  cfg.AliExpress.AppSecret,
			SessionKey: cfg.AliExpress.SessionKey,
			APIBaseURL: cfg.AliExpress.BaseURL,
			Timeout:    cfg.AliExpress.Timeout,
		}, postal, log)
		if err != nil {
			log.Warn("Marketplace freight disabled: invalid configuration", zap.Error(err))
		} else {
			marketplace = adapter
		}
	} else {
		log.Info("Marketplace freight disabled: no credentials configured")
	}

	// Application services
	quoteService := shippingapp.NewQuoteService(
		ruleRepo, boxRepo, settingsRepo,
		productRepo, categoryRepo, supplierRepo,
		carrier, marketplace,
		shippingapp.QuoteConfig{
			FallbackCost:         cfg.Shipping.FallbackCost,
			FallbackDeliveryDays: cfg.Shipping.FallbackDeliveryDays,
			FallbackFreeMin:      cfg.Shipping.FallbackFreeMin,
			DefaultOriginCEP:     cfg.Shipping.DefaultOriginCEP,
		},
		log,
	)
	ruleService := shippingapp.NewRuleService(ruleRepo)
	boxService := shippingapp.NewBoxService(boxRepo)
	settingsService := shippingapp.NewSettingsService(settingsRepo, cfg.Shipping.DefaultOriginCEP)

	// Handlers
	quoteHandler := handler.NewQuoteHandler(quoteService)
	ruleHandler := handler.NewShippingRuleHandler(ruleService)
	boxHandler := handler.NewPackagingBoxHandler(boxService)
	settingsHandler := handler.NewShippingSettingsHandler(settingsService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.RateLimit(middleware.NewRateLimiter(100, time.Minute)))

	if tracerProvider.IsEnabled() {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	engine.GET("/health", healthHandler(db))

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	shippingGroup := router.NewDomainGroup("shipping", "/shipping")
	shippingGroup.Use(middleware.APIKey(cfg.Auth.APIKeys))
	shippingGroup.POST("/quote", quoteHandler.Quote)
	shippingGroup.GET("/settings", settingsHandler.Get)
	shippingGroup.PUT("/settings", settingsHandler.Update)

	rules := shippingGroup.Group("rules", "/rules")
	rules.POST("", ruleHandler.Create)
	rules.GET("", ruleHandler.List)
	rules.GET("/:id", ruleHandler.GetByID)
	rules.PUT("/:id", ruleHandler.Update)
	rules.DELETE("/:id", ruleHandler.Delete)

	boxes := shippingGroup.Group("boxes", "/boxes")
	boxes.POST("", boxHandler.Create)
	boxes.GET("", boxHandler.List)
	boxes.GET("/:id", boxHandler.GetByID)
	boxes.PUT("/:id", boxHandler.Update)
	boxes.DELETE("/:id", boxHandler.Delete)

	systemGroup := router.NewDomainGroup("system", "/system")
	systemGroup.GET("/info", systemHandler.GetSystemInfo)
	systemGroup.GET("/ping", systemHandler.Ping)

	r.Register(shippingGroup).Register(systemGroup).Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer provider shutdown failed", zap.Error(err))
	}

	log.Info("Server stopped")
}

// healthHandler reports liveness. Database failures answer 503 so load
// balancers rotate the instance out.
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.FromGin(c).Error("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

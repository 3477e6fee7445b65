package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	formsapp "github.com/cuadre/backend/internal/application/forms"
	identityapp "github.com/cuadre/backend/internal/application/identity"
	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/cuadre/backend/internal/infrastructure/auth"
	"github.com/cuadre/backend/internal/infrastructure/cache"
	"github.com/cuadre/backend/internal/infrastructure/config"
	"github.com/cuadre/backend/internal/infrastructure/event"
	"github.com/cuadre/backend/internal/infrastructure/logger"
	"github.com/cuadre/backend/internal/infrastructure/mail"
	"github.com/cuadre/backend/internal/infrastructure/persistence"
	"github.com/cuadre/backend/internal/infrastructure/printing"
	"github.com/cuadre/backend/internal/infrastructure/storage"
	"github.com/cuadre/backend/internal/infrastructure/telemetry"
	"github.com/cuadre/backend/internal/interfaces/http/handler"
	"github.com/cuadre/backend/internal/interfaces/http/middleware"
	"github.com/cuadre/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/cuadre/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Cuadre API
//	@version		1.0
//	@description	Cash reconciliation forms for retail stores: Safe count, Loteria, cash payments, transfers and the daily sheet.

//	@contact.name	Cuadre Support
//	@contact.email	support@cuadre.example.com

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Rebuilt with the OTEL core once log export is up
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	if logProvider.IsEnabled() {
		otelCore := logProvider.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Telemetry.LogsLevel))
		if log, err = logger.New(logCfg, otelCore); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Cuadre backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiler.Enabled,
		ServerAddress:     cfg.Profiler.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Profiler.BasicAuthUser,
		BasicAuthPassword: cfg.Profiler.BasicAuthPassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Profiler.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithExpectedErrors(persistence.IsExpectedError),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	var dbMetrics *telemetry.DBMetrics
	if meterProvider.IsEnabled() {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get sql.DB", zap.Error(err))
		}
		if dbMetrics, err = telemetry.NewDBMetrics(meter, sqlDB, cfg.Telemetry.DBSlowQueryThresh); err != nil {
			log.Fatal("Failed to create database metrics", zap.Error(err))
		}
		if err := dbMetrics.Register(db.DB); err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
	}

	formMetrics, err := telemetry.NewFormMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create form metrics", zap.Error(err))
	}

	// Redis backs the latch, blacklist, reset tokens and recent cache; the
	// factory hands out in-memory stores when it is disabled or down.
	stores, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}

	// Repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	safeRepo := persistence.NewGormSafeEntryRepository(db.DB)
	sheetRepo := persistence.NewGormSheetRepository(db.DB)

	eventBus := event.NewInMemoryEventBus(log)
	selector := formsapp.NewSchemaSelector(forms.ParseSchemaVariant(cfg.Forms.SchemaVariant))

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := stores.TokenBlacklist()
	sender, err := mail.NewSender(cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mail", zap.Error(err))
	}
	gate := identityapp.NewSessionGate(profileRepo, blacklist, cfg.JWT.AccessTokenExpiration, log)
	authService := identityapp.NewAuthService(
		accountRepo,
		jwtService,
		blacklist,
		stores.ResetTokenStore(),
		mail.NewResetMailer(sender, cfg.Mail),
		gate,
		identityapp.AuthServiceConfig{ResetTokenTTL: cfg.Mail.ResetTokenTTL},
		log,
	)
	adminService := identityapp.NewAdminService(accountRepo, profileRepo, orgRepo, log)

	// Forms
	safeForm := formsapp.NewSafeForm(safeRepo, stores.SubmissionLatch(), eventBus, selector,
		formsapp.WithFormMetrics(formMetrics),
		formsapp.WithLatchTTL(cfg.Forms.SubmitLatchTTL),
		formsapp.WithLocation(cfg.Forms.Location()),
		formsapp.WithLogger(log),
	)
	sheetsService := formsapp.NewSheetsService(sheetRepo, eventBus, formMetrics, log)
	recentService := formsapp.NewRecentEntriesService(
		safeRepo, stores.RecentEntryCache(), selector, cfg.Forms.RecentLimit, cfg.Forms.RecentCacheTTL, log,
	)
	eventBus.Subscribe(recentService)

	// Receipts stay off unless object storage is configured
	var (
		receiptStore    formsapp.ReceiptStore
		receiptRenderer printing.PDFRenderer
	)
	if cfg.Storage.Enabled {
		s3Store, err := storage.NewS3ReceiptStorage(cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize receipt storage", zap.Error(err))
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			log.Warn("Receipt bucket check failed", zap.String("bucket", s3Store.Bucket()), zap.Error(err))
		}
		chrome := printing.NewChromedpRenderer(printing.ChromedpConfig{
			RemoteURL:      cfg.Printing.RemoteURL,
			DefaultTimeout: cfg.Printing.Timeout,
			NoSandbox:      cfg.Printing.NoSandbox,
			Logger:         log,
		})
		defer func() {
			if err := chrome.Close(); err != nil {
				log.Warn("Error closing PDF renderer", zap.Error(err))
			}
		}()
		receiptStore = s3Store
		receiptRenderer = chrome
	} else {
		log.Info("Receipt storage disabled")
	}
	receiptService := formsapp.NewReceiptService(
		safeRepo,
		selector,
		printing.NewReceiptTemplate(),
		receiptRenderer,
		receiptStore,
		cfg.Storage.PresignExpiration,
		cfg.Printing.Timeout,
		log,
	)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	handlers := router.Handlers{
		System: handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion, db, selector, log),
		Auth:   handler.NewAuthHandler(authService),
		Forms:  handler.NewFormsHandler(safeForm, recentService, receiptService),
		Sheets: handler.NewSheetsHandler(sheetsService),
		Admin:  handler.NewAdminHandler(adminService),
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

	// Middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Logger - Log requests
	// 3. Recovery - Catch panics
	// 4. Tracing - Server span plus request attributes
	// 5. Metrics - Request counters and latency
	// 6. CORS, security headers and body limit
	// API group: JWT, then Session, then Profiling labels
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanAttributes())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		Enabled:       cfg.Telemetry.MetricsEnabled,
		Logger:        log,
	}))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", handlers.System.Health)

	// Swagger is outside the API group and checks tokens without skip paths
	swaggerAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, swaggerAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRatePerMinute, cfg.HTTP.AuthRateBurst)
	defer authLimiter.Close()

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	profilingConfig := middleware.DefaultProfilingConfig()
	profilingConfig.Enabled = profiler.IsEnabled()

	r := router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(
			middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
			middleware.Session(gate),
			middleware.ProfilingWithConfig(profilingConfig),
		)
	router.RegisterAPI(r, handlers, router.Guards{
		Throttle: []gin.HandlerFunc{middleware.RateLimit(authLimiter)},
		Admin:    []gin.HandlerFunc{middleware.RequireAdmin()},
	}).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("safe_layout", selector.CurrentLayout()),
			zap.Bool("redis", stores.UsingRedis()),
			zap.Bool("receipts", receiptService.Enabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Error stopping event bus", zap.Error(err))
	}
	if err := stores.Close(); err != nil {
		log.Warn("Error closing cache", zap.Error(err))
	}
	if dbMetrics != nil {
		if err := dbMetrics.Stop(); err != nil {
			log.Warn("Error stopping database metrics", zap.Error(err))
		}
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down tracing", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down log export", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectoinject/ectocontainer"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/Ramsey-B/trellis/config"
	componenttyperepo "github.com/Ramsey-B/trellis/internal/repositories/componenttype"
	formulatemplaterepo "github.com/Ramsey-B/trellis/internal/repositories/formulatemplate"
	productstylerepo "github.com/Ramsey-B/trellis/internal/repositories/productstyle"
	producttyperepo "github.com/Ramsey-B/trellis/internal/repositories/producttype"
	"github.com/Ramsey-B/trellis/pkg/bom"
	"github.com/Ramsey-B/trellis/pkg/cache"
	"github.com/Ramsey-B/trellis/pkg/compare"
	"github.com/Ramsey-B/trellis/pkg/database"
	"github.com/Ramsey-B/trellis/pkg/formula"
	"github.com/Ramsey-B/trellis/pkg/kafka"
	"github.com/Ramsey-B/trellis/pkg/middleware"
	"github.com/Ramsey-B/trellis/pkg/processor"
	"github.com/Ramsey-B/trellis/pkg/routes/calculation"
	"github.com/Ramsey-B/trellis/pkg/routes/comparison"
	"github.com/Ramsey-B/trellis/pkg/routes/formulatemplate"
	"github.com/Ramsey-B/trellis/pkg/routes/health"
	"github.com/Ramsey-B/trellis/pkg/routes/producttype"
	"github.com/Ramsey-B/trellis/pkg/routes/validation"
	"github.com/Ramsey-B/trellis/pkg/tracing"
	"github.com/Ramsey-B/trellis/pkg/tracing/exporters"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logger := newLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.TracingEnabled {
		shutdown, err := setupTracing(ctx, cfg)
		if err != nil {
			logger.WithError(err).Error("Failed to set up tracing")
		} else {
			defer shutdown(context.Background())
		}
	}

	db, err := connectWithRetry(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	if err := runMigrations(cfg, db, logger); err != nil {
		logger.WithError(err).Error("Failed to run database migrations")
		os.Exit(1)
	}

	templateRepo := formulatemplaterepo.NewRepository(db, logger)
	productTypeRepo := producttyperepo.NewRepository(db, logger)
	productStyleRepo := productstylerepo.NewRepository(db, logger)
	componentTypeRepo := componenttyperepo.NewRepository(db, logger)

	// Template reads go through the Redis cache when it is reachable;
	// otherwise the engine reads straight from Postgres.
	var templateSource bom.TemplateSource = templateRepo
	templateCache, err := cache.NewTemplateCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.TemplateCacheTTL,
	}, templateRepo, logger)
	if err != nil {
		logger.WithError(err).Warn("Template cache unavailable, reading templates from database")
	} else {
		templateSource = templateCache
		defer templateCache.Close()
	}

	engine := bom.NewEngine(logger, templateSource, componentTypeRepo)
	evaluator := formula.NewEvaluator()

	thresholds := compare.Thresholds{
		MatchEpsilon:  cfg.ComparisonMatchEpsilon,
		CloseRelative: cfg.ComparisonCloseThreshold,
	}

	container, err := buildContainer(logger, templateRepo, productTypeRepo, productStyleRepo, componentTypeRepo, engine, evaluator, thresholds)
	if err != nil {
		logger.WithError(err).Error("Failed to build DI container")
		os.Exit(1)
	}

	var consumer *kafka.Consumer
	if cfg.KafkaConsumerEnabled && templateCache != nil {
		catalogProcessor := processor.NewCatalogProcessor(logger, templateCache)
		consumer = kafka.NewConsumer(cfg, logger, catalogProcessor.HandleMessage)
		if err := consumer.Start(ctx); err != nil {
			logger.WithError(err).Error("Failed to start catalog consumer")
			os.Exit(1)
		}
	}

	e := newServer(cfg, logger, container)

	var cachePinger health.Pinger
	if templateCache != nil {
		cachePinger = templateCache
	}
	checker := health.NewChecker(db, cachePinger, version)
	checker.RegisterRoutes(e)
	checker.SetReady(true)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil {
			logger.WithError(err).Info("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	checker.SetReady(false)

	if consumer != nil {
		if err := consumer.Stop(); err != nil {
			logger.WithError(err).Error("Failed to stop catalog consumer")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to shut down HTTP server")
	}
}

func newLogger(cfg config.Config) ectologger.Logger {
	var zapCfg zap.Config
	if cfg.PrettyLogs {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = level
	}

	zapLogger, err := zapCfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func setupTracing(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	// Without an OTLP endpoint spans are still recorded so the middleware and
	// span helpers behave the same locally, they just go nowhere.
	var exporter sdktrace.SpanExporter = &exporters.ConsoleExporter{}
	if cfg.TracingOTLPEndpoint != "" {
		var err error
		exporter, err = exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
			Endpoint: cfg.TracingOTLPEndpoint,
			Protocol: cfg.TracingOTLPProtocol,
			Insecure: true,
			Timeout:  10 * time.Second,
		})
		if err != nil {
			return nil, err
		}
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	tracing.SetTracer(provider.Tracer(cfg.AppName))

	return provider.Shutdown, nil
}

func runMigrations(cfg config.Config, db database.DB, logger ectologger.Logger) error {
	driver, err := postgres.WithInstance(db.Unsafe().DB, &postgres.Config{})
	if err != nil {
		return err
	}

	migrationService := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
	})
	return migrationService.Migrate(cfg.DatabaseName, driver)
}

func buildContainer(
	logger ectologger.Logger,
	templateRepo *formulatemplaterepo.Repository,
	productTypeRepo *producttyperepo.Repository,
	productStyleRepo *productstylerepo.Repository,
	componentTypeRepo *componenttyperepo.Repository,
	engine *bom.Engine,
	evaluator *formula.Evaluator,
	thresholds compare.Thresholds,
) (ectocontainer.DIContainer, error) {
	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return nil, err
	}

	if err := ectoinject.RegisterInstance[ectologger.Logger](container, logger); err != nil {
		return nil, err
	}
	if err := ectoinject.RegisterInstance[*formulatemplaterepo.Repository](container, templateRepo); err != nil {
		return nil, err
	}
	if err := ectoinject.RegisterInstance[*producttyperepo.Repository](container, productTypeRepo); err != nil {
		return nil, err
	}
	if err := ectoinject.RegisterInstance[*productstylerepo.Repository](container, productStyleRepo); err != nil {
		return nil, err
	}
	if err := ectoinject.RegisterInstance[*componenttyperepo.Repository](container, componentTypeRepo); err != nil {
		return nil, err
	}
	if err := ectoinject.RegisterInstance[*bom.Engine](container, engine); err != nil {
		return nil, err
	}
	if err := ectoinject.RegisterInstance[*formula.Evaluator](container, evaluator); err != nil {
		return nil, err
	}
	if err := ectoinject.RegisterInstance[compare.Thresholds](container, thresholds); err != nil {
		return nil, err
	}

	return container, nil
}

func connectWithRetry(ctx context.Context, cfg config.Config, logger ectologger.Logger) (database.DB, error) {
	connCfg := database.ConnectionConfig{
		Driver:          cfg.DatabaseDriver,
		Host:            cfg.DatabaseHost,
		Port:            cfg.DatabasePort,
		UserName:        cfg.DatabaseUserName,
		Password:        cfg.DatabasePassword,
		Name:            cfg.DatabaseName,
		SSLMode:         cfg.DatabaseSSLMode,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	}

	var db database.DB
	var err error
	for attempt := 1; attempt <= cfg.StartupMaxAttempts; attempt++ {
		db, err = database.Connect(ctx, connCfg, logger)
		if err == nil {
			return db, nil
		}
		logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"attempt": attempt,
		}).Warn("Database not ready, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return nil, err
}

func newServer(cfg config.Config, logger ectologger.Logger, container ectocontainer.DIContainer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	if cfg.TracingEnabled {
		e.Use(otelecho.Middleware(cfg.AppName))
	}
	e.Use(middleware.Container(container))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	producttype.Register(api.Group("/product-types"))
	formulatemplate.Register(api.Group("/formula-templates"))
	calculation.Register(api.Group("/calculations"))
	if cfg.LegacyCalculatorEnabled {
		comparison.Register(api.Group("/comparisons"))
	}
	validation.Register(api.Group("/validation"))

	return e
}

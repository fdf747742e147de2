package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flagCompare/app/echo-server/metrics"
	"flagCompare/app/echo-server/router"
	"flagCompare/business/selection"
	"flagCompare/business/similarity"
	"flagCompare/domain"
	"flagCompare/internal/middleware"
	fileRepo "flagCompare/internal/repository/file"
	psqlRepo "flagCompare/internal/repository/postgres"
	redisRepo "flagCompare/internal/repository/redis"
	sqliteRepo "flagCompare/internal/repository/sqlite"
	"flagCompare/internal/rest"
	"flagCompare/pkg/config"
	"flagCompare/pkg/database"
	redisClient "flagCompare/pkg/database/redis"
	"flagCompare/pkg/logger"
	engineMetrics "flagCompare/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Flag Compare", "version", cfg.App.Version, "data_source", cfg.Data.Source)

	engineMetrics.Init()
	metrics.Init()

	datasetRepo, closeRepo, err := newDatasetRepository(cfg)
	if err != nil {
		logger.Fatal("Failed to open data source", "source", cfg.Data.Source, "error", err)
	}
	defer closeRepo()

	// Init cache
	var cache similarity.MatrixCache
	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		rdb, err = redisClient.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer func() {
			if err := redisClient.CloseRedisClient(rdb); err != nil {
				logger.Error("Failed to close redis", "error", err)
			}
		}()
		cache = redisRepo.NewMatrixCache(rdb, cfg.Redis.CacheTTL)
		logger.Info("Redis matrix cache enabled")
	}

	// Init service
	engineCfg := similarity.DefaultConfig()
	if cfg.Engine.Workers > 0 {
		engineCfg.Workers = cfg.Engine.Workers
	}
	engineCfg.DefaultAssetKey = cfg.Engine.DefaultAssetKey
	engineCfg.TopN = cfg.Engine.TopN

	similarityService := similarity.NewSimilarityService(datasetRepo, cache, engineCfg)

	startCtx, cancelStart := context.WithTimeout(
		context.WithValue(context.Background(), similarity.TraceIDKey, "startup"), 2*time.Minute)
	if _, err := similarityService.Reload(startCtx, false); err != nil {
		logger.Error("Initial similarity build failed, queries return 503 until a reload succeeds", "error", err)
	}
	cancelStart()

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go similarityService.Watch(watchCtx, cfg.Data.ReloadInterval)

	selectionStore := selection.NewStore(similarityService)
	selectionStore.Subscribe(func(ctx context.Context, s domain.Selection) {
		logger.Debug("Selection changed",
			"trace_id", similarity.TraceIDFromContext(ctx),
			"active_flag", s.ActiveFlag,
			"detail_field", s.DetailField,
		)
	})

	// Init handler
	flagHandler := rest.NewFlagHandler(similarityService, cfg.Engine.AssetBasePath, cfg.Engine.TopN)
	selectionHandler := rest.NewSelectionHandler(selectionStore)
	adminHandler := rest.NewAdminHandler(similarityService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Trace())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderTraceID},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		status := http.StatusOK
		body := map[string]string{"version": similarityService.Version(), "cache": "disabled"}
		if body["version"] == "" {
			status = http.StatusServiceUnavailable
		}
		if rdb != nil {
			body["cache"] = "ok"
			if err := redisClient.Ping(c.Request().Context(), rdb); err != nil {
				body["cache"] = err.Error()
			}
		}
		return c.JSON(status, body)
	})

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupFlagRoutes(api, flagHandler, metrics.Instrument())
	router.SetupSelectionRoutes(api, selectionHandler)
	router.SetupAdminRoutes(api, adminHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopWatch()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

func newDatasetRepository(cfg *config.Config) (similarity.DatasetRepository, func(), error) {
	switch cfg.Data.Source {
	case config.DataSourceSQLite:
		db, err := database.InitSQLite(cfg.Data.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo := sqliteRepo.NewDatasetRepository(db)
		if err := repo.Migrate(context.Background()); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, func() { _ = db.Close() }, nil

	case config.DataSourcePostgres:
		db, err := database.InitPostgres(cfg)
		if err != nil {
			return nil, nil, err
		}
		repo := psqlRepo.NewDatasetRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repo, closeFn, nil

	default:
		repo := fileRepo.NewDatasetRepository(fileRepo.Config{
			FlagsPath:    cfg.Data.FlagsPath,
			FeaturesPath: cfg.Data.FeaturesPath,
			GalleryPath:  cfg.Data.GalleryPath,
		})
		return repo, func() {}, nil
	}
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/finpapers/finpapers/internal/app"
	"github.com/finpapers/finpapers/internal/mapping"
	"github.com/finpapers/finpapers/internal/observability"
	"github.com/finpapers/finpapers/internal/platform/cache"
	"github.com/finpapers/finpapers/internal/platform/db"
	"github.com/finpapers/finpapers/internal/statement"
	statementhttp "github.com/finpapers/finpapers/internal/statement/http"
	"github.com/finpapers/finpapers/internal/workpaper"
	"github.com/finpapers/finpapers/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()
	if err := statementhttp.SetupCacheMetrics(metrics.Registerer()); err != nil {
		logger.Warn("statement cache metrics", slog.Any("error", err))
	}

	catalog := statement.DefaultCatalog()

	packCache := statement.NewCache(redisClient, cfg.StatementCacheTTL)
	if err := packCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("statement cache invalidation listener", slog.Any("error", err))
	}

	statementRepo := statement.NewPgRepository(dbpool)
	statementService := statement.NewService(statementRepo, catalog, packCache)
	statementHandler := statementhttp.NewHandler(logger, statementService)

	bustStatements := func() {
		statementhttp.BustStatementViewCache()
		if err := packCache.Bump(ctx); err != nil {
			logger.Warn("statement cache bump", slog.Any("error", err))
		}
	}

	mappingRepo := mapping.NewRepository(dbpool)
	mappingService := mapping.NewService(mappingRepo, catalog, bustStatements)
	mappingHandler := mapping.NewHandler(logger, mappingService)

	workpaperRepo := workpaper.NewRepository(dbpool)
	workpaperService := workpaper.NewService(workpaperRepo, statementService)
	workpaperHandler := workpaper.NewHandler(logger, workpaperService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		WorkpaperHandler: workpaperHandler,
		MappingHandler:   mappingHandler,
		StatementHandler: statementHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

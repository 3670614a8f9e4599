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
	"github.com/redis/go-redis/v9"

	"github.com/uniportal/uniportal/internal/app"
	"github.com/uniportal/uniportal/internal/auth"
	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/observability"
	"github.com/uniportal/uniportal/internal/platform/db"
	"github.com/uniportal/uniportal/internal/rbac"
	"github.com/uniportal/uniportal/internal/registrar"
	"github.com/uniportal/uniportal/internal/sas"
	"github.com/uniportal/uniportal/internal/shared"
	"github.com/uniportal/uniportal/internal/stats"
	"github.com/uniportal/uniportal/internal/usg"
	"github.com/uniportal/uniportal/jobs"
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

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookieName, cfg.SessionTTL, cfg.IsProduction())

	rbacService := rbac.NewService(dbpool, authz.DefaultBindings(), logger)
	if err := rbacService.SyncCatalog(ctx); err != nil {
		logger.Error("sync rbac catalog", slog.Any("error", err))
		os.Exit(1)
	}
	metrics := observability.NewMetrics()
	rbacMiddleware := rbac.Middleware{Resolver: rbacService, Logger: logger, Denials: metrics}

	approvalRecorder := shared.NewApprovalRecorder(dbpool, logger)

	authRepo := auth.NewPGRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	sasService := sas.NewService(sas.NewPGRepository(dbpool), approvalRecorder, logger)
	sasHandler := sas.NewHandler(logger, sasService, rbacMiddleware)

	registrarService := registrar.NewService(registrar.NewPGRepository(dbpool), approvalRecorder, logger)
	registrarHandler := registrar.NewHandler(logger, registrarService, rbacMiddleware)

	usgService := usg.NewService(usg.NewPGRepository(dbpool), logger)
	usgHandler := usg.NewHandler(logger, usgService, rbacMiddleware)

	rbacHandler := rbac.NewHandler(logger, rbacService, rbacMiddleware)

	statsService := stats.NewService(stats.NewPGCounters(dbpool), logger)
	statsHandler := stats.NewHandler(logger, statsService, rbacMiddleware)

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
		SessionManager:   sessionManager,
		AuthHandler:      authHandler,
		SASHandler:       sasHandler,
		RegistrarHandler: registrarHandler,
		USGHandler:       usgHandler,
		RBACHandler:      rbacHandler,
		StatsHandler:     statsHandler,
		JobHandler:       jobHandler,
		Pool:             dbpool,
		RBACMiddleware:   rbacMiddleware,
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

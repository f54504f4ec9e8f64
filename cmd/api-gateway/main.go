package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academy-admin/api/swagger"
	"github.com/noah-isme/academy-admin/internal/handler"
	"github.com/noah-isme/academy-admin/internal/middleware"
	"github.com/noah-isme/academy-admin/internal/repository"
	"github.com/noah-isme/academy-admin/internal/service"
	"github.com/noah-isme/academy-admin/internal/session"
	"github.com/noah-isme/academy-admin/internal/validation"
	"github.com/noah-isme/academy-admin/pkg/cache"
	"github.com/noah-isme/academy-admin/pkg/config"
	"github.com/noah-isme/academy-admin/pkg/database"
	"github.com/noah-isme/academy-admin/pkg/jobs"
	"github.com/noah-isme/academy-admin/pkg/logger"
	"github.com/noah-isme/academy-admin/pkg/storage"
)

// @title Academy Admin Dashboard API
// @version 1.0.0
// @description Backend-for-frontend of the academy admin dashboard. It proxies the platform API per browser session.
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	validate := validation.NewValidator()
	probes := map[string]handler.Probe{}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		probes["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	var db *sqlx.DB
	if cfg.Database.Enabled {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect database", "error", err)
		}
		defer db.Close() //nolint:errcheck
		if err := database.Migrate(ctx, db); err != nil {
			logr.Sugar().Fatalw("failed to migrate database", "error", err)
		}
		probes["database"] = db.PingContext
	}

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, "dashboard")
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, cfg.Analytics.Enabled)
	analytics := service.NewAnalyticsService(cacheSvc, cfg.Analytics.CacheTTL, logr)

	registry := session.NewRegistry(session.RegistryConfig{
		BaseURL:  cfg.API.BaseURL,
		Timeout:  cfg.API.Timeout,
		TTL:      cfg.Session.TTL,
		GuestTTL: cfg.Session.GuestTTL,
		Redis:    redisClient,
		Metrics:  metrics,
		Logger:   logr,
	})
	go registry.Run(ctx, cfg.Session.SweepInterval)

	visitor := middleware.VisitorConfig{
		CookieName: cfg.Session.CookieName,
		Secret:     cfg.Session.Secret,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	}
	routerCfg := handler.RouterConfig{
		Logger:      logr,
		CORSOrigins: cfg.CORS.AllowedOrigins,
		Visitor:     visitor,
		Registry:    registry,
		Metrics:     metrics,
		Analytics:   analytics,
		Probes:      probes,
		Validate:    validate,
	}

	if db != nil {
		routerCfg.Testimonials = service.NewTestimonialService(repository.NewTestimonialRepository(db), validate, metrics, logr)
	}

	if cfg.Exports.Enabled {
		if db == nil {
			logr.Warn("exports enabled without a database; export routes are disabled")
		} else {
			exportJobs, queue, err := buildExports(ctx, cfg.Exports, db, registry, metrics, logr)
			if err != nil {
				logr.Sugar().Fatalw("failed to init exports", "error", err)
			}
			defer queue.Stop()
			routerCfg.Exports = exportJobs
		}
	}

	if cfg.Env != config.EnvProduction {
		routerCfg.Docs = ginSwagger.WrapHandler(swaggerFiles.Handler)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "upstream", cfg.API.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

func buildExports(ctx context.Context, cfg config.ExportsConfig, db *sqlx.DB, leads service.LeadSource, metrics *service.MetricsService, logr *zap.Logger) (*service.ExportJobService, *jobs.Queue, error) {
	files, err := storage.NewLocalStorage(cfg.StorageDir)
	if err != nil {
		return nil, nil, err
	}
	signer := storage.NewSignedURLSigner(cfg.SignedURLSecret, cfg.SignedURLTTL)
	exporter := service.NewExportService(files, signer, service.ExportConfig{
		DownloadPrefix: "/exports",
		ResultTTL:      cfg.SignedURLTTL,
		PDFFontPath:    cfg.PDFFontPath,
	}, logr, nil, nil)

	repo := repository.NewExportJobRepository(db)
	worker := service.NewExportWorker(repo, exporter, leads, metrics, cfg.Retries, logr)
	queue := jobs.NewQueue("lead-exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	queue.Start(ctx)

	svc := service.NewExportJobService(repo, queue, exporter, logr, service.ExportJobServiceConfig{
		ResultTTL:       cfg.SignedURLTTL,
		CleanupInterval: cfg.CleanupInterval,
	})
	svc.RecoverPendingJobs(ctx)
	svc.StartCleanup(ctx)
	return svc, queue, nil
}

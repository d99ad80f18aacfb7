package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/hkwon327/timesheet-dashboard/api/swagger"
	"github.com/hkwon327/timesheet-dashboard/internal/handler"
	"github.com/hkwon327/timesheet-dashboard/internal/middleware"
	"github.com/hkwon327/timesheet-dashboard/internal/models"
	"github.com/hkwon327/timesheet-dashboard/internal/repository"
	"github.com/hkwon327/timesheet-dashboard/internal/service"
	"github.com/hkwon327/timesheet-dashboard/pkg/broker"
	"github.com/hkwon327/timesheet-dashboard/pkg/cache"
	"github.com/hkwon327/timesheet-dashboard/pkg/config"
	"github.com/hkwon327/timesheet-dashboard/pkg/database"
	"github.com/hkwon327/timesheet-dashboard/pkg/export"
	"github.com/hkwon327/timesheet-dashboard/pkg/jobs"
	"github.com/hkwon327/timesheet-dashboard/pkg/logger"
	corsmiddleware "github.com/hkwon327/timesheet-dashboard/pkg/middleware/cors"
	reqidmiddleware "github.com/hkwon327/timesheet-dashboard/pkg/middleware/requestid"
	"github.com/hkwon327/timesheet-dashboard/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// @title Timesheet Review Gateway
// @version 1.0.0
// @description Reviewer dashboard and work-log API over the submissions backend
// @BasePath /api/v1
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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("review gateway stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	backend := repository.NewSubmissionClient(cfg.Backend, nil)
	checks := map[string]handler.ReadinessCheck{}

	var (
		cacheRepo  service.CacheRepository
		prefsStore service.ViewPreferencesStore = repository.NewMemoryPreferencesStore()
	)
	if cfg.Review.CacheEnabled || cfg.Review.PreferencesStored {
		rdb, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		if cfg.Review.CacheEnabled {
			cacheRepo = repository.NewCacheRepository(rdb)
		}
		if cfg.Review.PreferencesStored {
			prefsStore = repository.NewPreferencesRepository(rdb)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Review.DetailCacheTTL, logr, cfg.Review.CacheEnabled)

	workflowOpts := []service.StatusWorkflowOption{service.WithWorkflowMetrics(metrics)}

	var audit *repository.TransitionAuditRepository
	if cfg.Database.AuditEnabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		checks["postgres"] = db.PingContext
		audit = repository.NewTransitionAuditRepository(db)
		workflowOpts = append(workflowOpts, service.WithTransitionAuditor(audit))
	}

	if cfg.RabbitMQ.Enabled {
		conn, err := broker.NewRabbitMQ(cfg.RabbitMQ)
		if err != nil {
			return err
		}
		defer conn.Close()
		checks["rabbitmq"] = func(context.Context) error {
			if conn.Conn.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		}
		notifier := repository.NewTransitionNotifier(conn.Channel, conn.Queue, cfg.RabbitMQ.PublishTimeout)
		dispatcher := service.NewNotificationDispatcher(notifier, jobs.QueueConfig{
			Workers:    cfg.RabbitMQ.Workers,
			MaxRetries: cfg.RabbitMQ.MaxRetries,
			RetryDelay: cfg.RabbitMQ.RetryDelay,
			Logger:     logr,
		})
		dispatcher.Start(ctx)
		defer dispatcher.Stop()
		workflowOpts = append(workflowOpts, service.WithTransitionNotifier(dispatcher))
	}

	var lookup service.DocumentLookup = backend
	if cfg.Documents.Lookup == config.DocumentLookupStorage {
		client, err := storage.NewMinio(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		lookup = repository.NewDocumentStore(client, cfg.Storage.Bucket, cfg.Storage.PresignTTL)
		checks["storage"] = func(ctx context.Context) error {
			_, err := client.BucketExists(ctx, cfg.Storage.Bucket)
			return err
		}
	}

	defaultRegion, _ := models.ParseRegion(cfg.Review.DefaultRegion)
	workflow := service.NewStatusWorkflow(backend, logr, workflowOpts...)
	tagger := service.NewRegionTagger(backend, cfg.Review.RegionMarker, logr,
		service.WithScheduleCache(cacheSvc, cfg.Review.DetailCacheTTL),
		service.WithTaggerMetrics(metrics))
	documents := service.NewDocumentService(lookup, cfg.Documents.Prefix, metrics, logr)
	prefs := service.NewPreferencesService(prefsStore, defaultRegion, logr)

	registry := service.NewSessionRegistry(service.SessionDeps{
		Backend:     backend,
		Tagger:      tagger,
		Workflow:    workflow,
		Documents:   documents,
		Preferences: prefs,
		Dashboard: service.DashboardConfig{
			PageSize:         cfg.Review.PageSize,
			ShowDeletedInAll: cfg.Review.ShowDeletedInAll,
			DefaultRegion:    defaultRegion,
		},
	}, validator.New(), logr)
	defer registry.Close()
	go registry.Run(ctx, cfg.Review.SessionSweep, cfg.Review.SessionIdleTTL)

	worklogs := handler.NewWorkLogHandler(registry, nil)
	if audit != nil {
		worklogs = handler.NewWorkLogHandler(registry, audit)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	health := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", health.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Viewer())

	dashboard := handler.NewDashboardHandler(registry, prefs, cfg.APIPrefix+"/dashboard")
	exports := handler.NewExportHandler(registry, service.NewExportService(logr, export.NewCSVExporter(), export.NewPDFExporter()))
	api.GET("/dashboard", dashboard.Entry)
	api.GET("/dashboard/export", exports.Dashboard)
	api.GET("/dashboard/:region/:status", dashboard.Get)
	api.POST("/dashboard/reload", dashboard.Reload)
	api.PUT("/dashboard/selection", dashboard.Select)
	api.DELETE("/dashboard/selection", dashboard.ClearSelection)
	api.POST("/dashboard/actions/:action", dashboard.Apply)

	api.GET("/worklogs/:id", worklogs.Get)
	api.PATCH("/worklogs/:id/status", worklogs.UpdateStatus)
	api.GET("/worklogs/:id/history", worklogs.History)
	api.GET("/worklogs/:id/export", exports.WorkLog)

	api.GET("/documents/*filename", handler.NewDocumentHandler(documents).Resolve)

	preferences := handler.NewPreferencesHandler(prefs, registry)
	api.GET("/preferences", preferences.Get)
	api.GET("/preferences/view", preferences.View)
	api.DELETE("/preferences", preferences.Clear)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

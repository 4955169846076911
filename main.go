package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paper-trail/config"
	"paper-trail/database"
	"paper-trail/renderer"
	"paper-trail/services"
	"paper-trail/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bündelt alle Services, die die HTTP-Routen brauchen.
type app struct {
	projects  *services.ProjectService
	rounds    *services.RoundService
	linker    *services.RoundSourceLinker
	sources   *services.SourceRegistry
	extracts  *services.ExtractStore
	evidence  *services.EvidenceStore
	lifecycle *services.LifecycleManager
	reports   *services.ReportAggregator
	exporter  *services.ExportService
}

func newApp(db *gorm.DB, cfg *config.Config, logging *zap.Logger, render services.Renderer) (*app, error) {
	linker := services.NewRoundSourceLinker(db, logging)
	sources, err := services.NewSourceRegistry(db, logging, linker, cfg.SourceCacheSize)
	if err != nil {
		return nil, err
	}
	projects := services.NewProjectService(db, logging)
	rounds := services.NewRoundService(db, logging)
	extracts := services.NewExtractStore(db, logging)
	evidence := services.NewEvidenceStore(db, logging, extracts)
	reports := services.NewReportAggregator(projects, rounds, sources, linker, extracts, evidence, logging, cfg.ReportConcurrency)

	return &app{
		projects:  projects,
		rounds:    rounds,
		linker:    linker,
		sources:   sources,
		extracts:  extracts,
		evidence:  evidence,
		lifecycle: services.NewLifecycleManager(db, logging),
		reports:   reports,
		exporter:  services.NewExportService(reports, render, logging, cfg.ReportDefaultStyle),
	}, nil
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

// requestIDMiddleware reicht X-Request-ID durch oder vergibt eine neue.
func requestIDMiddleware(logging *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()
		logging.Debug("Request handled",
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func newRouter(a *app, cfg *config.Config, logging *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware(logging))
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupProjectRoutes(router, a, logging)
	setupRoundRoutes(router, a, logging)
	setupSourceRoutes(router, a, logging)
	setupExtractRoutes(router, a, logging)
	setupEvidenceRoutes(router, a, logging)
	setupReportRoutes(router, a, logging)
	return router
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logging, err := newLogger(cfg.LogMode)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	db, err := database.Open(cfg, logging)
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Running database auto-migration...")
	if err := database.Migrate(db); err != nil {
		logging.Fatal("Migration failed", zap.Error(err))
	}

	engine, err := renderer.New(cfg.ReportStyleFile, logging)
	if err != nil {
		logging.Fatal("Failed to load report styles", zap.Error(err))
	}
	if !engine.HasStyle(cfg.ReportDefaultStyle) {
		logging.Fatal("Unknown default report style",
			zap.String("style", cfg.ReportDefaultStyle),
			zap.Strings("available", engine.Styles()))
	}

	a, err := newApp(db, cfg, logging, engine)
	if err != nil {
		logging.Fatal("Service setup failed", zap.Error(err))
	}

	// Snapshots nur mit Bucket; Config.Validate hat die Kombination bereits geprüft
	var cronScheduler *cron.Cron
	if cfg.SnapshotsEnabled() {
		store, err := storage.NewS3Store(context.Background(), cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		snapshots := services.NewSnapshotService(a.projects, a.exporter, store, cfg.SnapshotKeep, logging)

		cronScheduler = cron.New()
		_, err = cronScheduler.AddFunc(cfg.SnapshotSchedule, func() {
			logging.Info("Running scheduled snapshot job...")
			count, err := snapshots.RunAll(context.Background())
			if err != nil {
				logging.Error("Snapshot job failed", zap.Int("stored", count), zap.Error(err))
				return
			}
			logging.Info("Snapshot job completed", zap.Int("stored", count))
		})
		if err != nil {
			logging.Fatal("Invalid SNAPSHOT_SCHEDULE", zap.String("schedule", cfg.SnapshotSchedule), zap.Error(err))
		}
		cronScheduler.Start()
	}

	router := newRouter(a, cfg, logging)

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logging.Info("Shutting down...")

	if cronScheduler != nil {
		<-cronScheduler.Stop().Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Graceful shutdown failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artifact-registry-service/internal/adapters/primary/http/handlers"
	"artifact-registry-service/internal/adapters/primary/http/middleware"
	"artifact-registry-service/internal/adapters/secondary/blobstore"
	"artifact-registry-service/internal/adapters/secondary/postgres"
	"artifact-registry-service/internal/config"
	"artifact-registry-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Create database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	// Blob store
	store, err := blobstore.New(cfg.Storage.CacheRoot, cfg.Storage.TempRoot)
	if err != nil {
		log.Fatalf("init blob store: %v", err)
	}
	log.WithField("cache_root", cfg.Storage.CacheRoot).Info("blob store ready")

	// Secondary Adapters (Output Ports)
	txManager := postgres.NewTxManager(pool)
	factoryRepo := postgres.NewFactoryRepository(pool)
	algorithmRepo := postgres.NewAlgorithmRepository(pool)
	modelRepo := postgres.NewModelRepository(pool)
	versionRepo := postgres.NewVersionRepository(pool)
	artifactRepo := postgres.NewArtifactRepository(pool)
	deltaRepo := postgres.NewDeltaRepository(pool)

	// Core Services (Application Layer)
	ingestor := services.NewIngestor(store, artifactRepo, cfg.Storage.HashWorkers, cfg.Storage.ChecksumBatch)
	deltaEngine := services.NewDeltaEngine(versionRepo, artifactRepo)
	collector := services.NewCollector(artifactRepo, store)

	factorySvc := services.NewFactoryService(factoryRepo)
	algorithmSvc := services.NewAlgorithmService(factoryRepo, algorithmRepo)
	modelSvc := services.NewModelService(txManager, algorithmRepo, modelRepo, artifactRepo, collector)
	versionSvc := services.NewVersionService(txManager, modelRepo, versionRepo, artifactRepo, deltaRepo, store, ingestor, deltaEngine, collector)
	artifactSvc := services.NewArtifactService(artifactRepo, store)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(factorySvc, algorithmSvc, modelSvc, versionSvc, artifactSvc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1/artifact-registry")
	h.RegisterRoutes(api)

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	// Let in-flight garbage collection sweeps finish before exit.
	collector.Wait()

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fpltools/squad-optimizer/internal/api/handlers"
	"github.com/fpltools/squad-optimizer/internal/history"
	"github.com/fpltools/squad-optimizer/internal/store"
	"github.com/fpltools/squad-optimizer/pkg/cache"
	"github.com/fpltools/squad-optimizer/pkg/config"
	"github.com/fpltools/squad-optimizer/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	structuredLogger := logger.InitLogger("", cfg.IsDevelopment())
	logger.WithService("squad-optimizer").WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
		"strategy":    cfg.DefaultStrategy,
	}).Info("Starting squad optimizer")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database is optional: without it selections run from request pools
	// and nothing is persisted.
	var db *store.Store
	if cfg.DatabaseURL != "" {
		db, err = store.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
		if err != nil {
			logger.WithService("squad-optimizer").WithError(err).Warn("Database unavailable, running without persistence")
			db = nil
		} else {
			defer db.Close()
		}
	}

	ctx := context.Background()

	// Seed the stored candidate pool from CSV when configured.
	if db != nil && cfg.CandidatePoolFile != "" {
		rows, err := history.LoadPool(cfg.CandidatePoolFile)
		if err != nil {
			logger.WithService("squad-optimizer").Fatalf("Failed to load candidate pool file: %v", err)
		}
		if err := db.ReplacePool(ctx, rows); err != nil {
			logger.WithService("squad-optimizer").Fatalf("Failed to seed candidate pool: %v", err)
		}
		logger.WithService("squad-optimizer").WithFields(logrus.Fields{
			"file":    cfg.CandidatePoolFile,
			"players": len(rows),
		}).Info("Candidate pool seeded")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.WithService("squad-optimizer").Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	cacheService := cache.NewSelectionCache(redisClient, structuredLogger)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CorsOrigins
	router.Use(cors.New(corsConfig))

	selectionHandler := handlers.NewSelectionHandler(db, cacheService, cfg, structuredLogger)
	healthHandler := handlers.NewHealthHandler(db, cacheService, structuredLogger)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/squad/optimize", selectionHandler.OptimizeSquad)
		apiV1.GET("/squad/strategies", selectionHandler.ListStrategies)
		apiV1.GET("/squad/recent", selectionHandler.RecentSquads)
		apiV1.PUT("/pool", selectionHandler.ReplacePool)
		apiV1.GET("/pool", selectionHandler.GetPool)
	}

	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)
	router.GET("/metrics", healthHandler.GetMetrics)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
		// The exact optimizer is the slowest path; bound the response time.
		WriteTimeout: time.Duration(cfg.OptimizeTimeout) * time.Second,
	}

	go func() {
		logger.WithService("squad-optimizer").WithField("port", cfg.Port).Info("Squad optimizer started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithService("squad-optimizer").Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithService("squad-optimizer").Info("Shutting down squad optimizer...")

	// The server has 5 seconds to finish the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithService("squad-optimizer").Fatalf("Squad optimizer forced to shutdown: %v", err)
	}

	logger.WithService("squad-optimizer").Info("Squad optimizer exited")
}

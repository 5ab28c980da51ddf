package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"risk-predictor-service/internal/adapters/primary/http/handlers"
	"risk-predictor-service/internal/adapters/primary/http/middleware"
	"risk-predictor-service/internal/adapters/secondary/artifact"
	"risk-predictor-service/internal/config"
	"risk-predictor-service/internal/core/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Secondary Adapter (Artifact Loader)
	loader := artifact.NewLoader(&cfg.Artifact, cfg.Predictor.Derive)

	// Core Services
	builder := services.NewFeatureVectorService()
	predictionSvc := services.NewPredictionService(loader, builder, cfg.Predictor.Derive)

	// Load the artifact once up front. A failed load keeps the process up for
	// diagnostics but every prediction reports the error until restart.
	if err := predictionSvc.Warmup(); err != nil {
		log.WithError(err).Warn("artifact unavailable; predictions disabled until restart")
	}

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(predictionSvc)

	// Setup router
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logging(),
		gin.Recovery(),
		middleware.BodyLimit(cfg.Server.MaxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins: cfg.Server.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}),
	)

	api := router.Group("/api/v1/risk")
	h.RegisterRoutes(api)

	// Health check reports artifact load state
	router.GET("/healthz", func(c *gin.Context) {
		if err := predictionSvc.Warmup(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "artifact": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "artifact": "loaded"})
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

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jaydenshimshi/LineUp-sub000/internal/api/handlers"
	"github.com/jaydenshimshi/LineUp-sub000/internal/api/middleware"
	"github.com/jaydenshimshi/LineUp-sub000/internal/providers"
	"github.com/jaydenshimshi/LineUp-sub000/internal/services"
	"github.com/jaydenshimshi/LineUp-sub000/internal/websocket"
	"github.com/jaydenshimshi/LineUp-sub000/pkg/cache"
	"github.com/jaydenshimshi/LineUp-sub000/pkg/config"
	"github.com/jaydenshimshi/LineUp-sub000/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logger with service context
	structuredLogger := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	logger.WithService("team-solver").WithFields(logrus.Fields{
		"version":     "1.0.0",
		"environment": cfg.Env,
		"port":        cfg.Port,
	}).Info("Starting team solver service")

	// Setup Gin mode
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to Redis. The solver works without it, so a missing cache
	// only costs repeat solves.
	var redisClient *redis.Client
	if opt, err := redis.ParseURL(cfg.RedisURL); err != nil {
		logger.WithService("team-solver").WithError(err).Warn("Invalid Redis URL, solve cache disabled")
	} else {
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.WithService("team-solver").WithError(err).Warn("Redis unreachable, continuing without warm cache")
		}
		defer redisClient.Close()
	}

	// Initialize cache service for solve results
	cacheService := cache.NewSolveCacheService(redisClient, structuredLogger)

	// Initialize WebSocket hub for progress updates
	wsHub := websocket.NewHub(structuredLogger)
	go wsHub.Run()

	// Initialize the exact solver sidecar client and the team service
	exactSolver := providers.NewExactSolverClient(
		cfg.ExactSolverURL,
		cfg.ExactSolverTimeout,
		cfg.CircuitBreakerThreshold,
		structuredLogger,
	)
	teamService := services.NewTeamService(cfg, cacheService, exactSolver, wsHub, structuredLogger)
	if err := teamService.StartProbes(); err != nil {
		logger.WithService("team-solver").Fatalf("Failed to start sidecar probes: %v", err)
	}

	// Initialize router
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// Initialize handlers
	solveHandler := handlers.NewSolveHandler(teamService, cacheService, structuredLogger)
	healthHandler := handlers.NewHealthHandler(redisClient, cacheService, exactSolver, wsHub, structuredLogger)

	// Setup API routes. Only the solve route is rate limited, validation
	// and cache inspection stay cheap to call.
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.RequestID())
	{
		apiV1.POST("/solve", middleware.RateLimit(cfg.SolveRateLimit, cfg.SolveRateBurst), solveHandler.GenerateTeams)
		apiV1.POST("/solve/validate", solveHandler.ValidateRoster)
		apiV1.GET("/cache/status", solveHandler.GetCacheStatus)
		apiV1.DELETE("/cache", solveHandler.FlushCache)
	}

	// WebSocket endpoint for progress updates
	router.GET("/ws/solve-progress/:request_id", wsHub.HandleWebSocket)

	// Health check endpoints
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)
	router.GET("/metrics", healthHandler.GetMetrics)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.WithService("team-solver").WithField("port", cfg.Port).Info("Team solver service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithService("team-solver").Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithService("team-solver").Info("Shutting down team solver service...")

	// The server has 5 seconds to finish the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithService("team-solver").Fatalf("Team solver service forced to shutdown: %v", err)
	}

	teamService.Stop()

	logger.WithService("team-solver").Info("Team solver service exited")
}

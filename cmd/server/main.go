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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ekodaeng/ctgold-admin-gateway/internal/admin"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/auth"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/config"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/database"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/identity"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/middleware"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/policy"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/ratelimit"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting CTGOLD Admin Gateway", zap.String("env", cfg.Env))

	// Connect to PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	// Connect to Redis
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// Initialize services
	repo := admin.NewRepository(db.DB)
	sessions := session.NewService(cfg.Session.SigningSecret, cfg.Session.TTL)
	denylist := session.NewDenylist(redisClient.Client)
	rateLimiter := ratelimit.NewLimiter(
		redisClient.Client,
		cfg.RateLimit.Window,
		cfg.RateLimit.MaxAttempts,
		cfg.RateLimit.LockoutDuration,
	)
	allowlist := auth.NewAllowlist(cfg.Identity.SuperAdminEmails, cfg.Identity.AdminEmails)

	var provider identity.Provider
	if cfg.Identity.Mode == "local" {
		provider = identity.NewLocalProvider(db.DB)
		logger.Warn("Using local identity provider; intended for development and break-glass only")
	} else {
		provider = identity.NewHTTPProvider(cfg.Identity)
	}

	authService := auth.NewService(repo, sessions, denylist, provider, rateLimiter, allowlist, logger)

	// Initialize handlers
	authHandler := auth.NewHandler(authService, cfg.Session.CookieName)
	adminHandler := admin.NewHandler(repo, logger)

	// Set up Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	allowedOrigins := middleware.ParseAllowedOrigins(cfg.CORS.AllowedOrigins)
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())

	// Public routes
	router.GET("/health", authHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth routes
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)

		// Protected routes (require a verified session)
		sessionRequired := authGroup.Group("")
		sessionRequired.Use(middleware.Session(sessions, denylist, repo, cfg.Session.CookieName, logger))
		{
			sessionRequired.GET("/session", authHandler.Session)
			sessionRequired.POST("/logout", authHandler.Logout)
		}
	}

	// Administrative routes (session + per-route policy)
	adminGroup := router.Group("/admin")
	adminGroup.Use(middleware.Session(sessions, denylist, repo, cfg.Session.CookieName, logger))
	{
		members := adminGroup.Group("/members")
		{
			members.GET("", middleware.RequirePermission(policy.ResourceMembers, policy.ActionView), adminHandler.ListMembers)
			members.PUT("/:id", middleware.RequirePermission(policy.ResourceMembers, policy.ActionEdit), adminHandler.UpdateMember)
			members.POST("/:id/approve", middleware.RequirePermission(policy.ResourceMembers, policy.ActionApprove), adminHandler.ApproveMember)
			members.DELETE("/:id", middleware.RequirePermission(policy.ResourceMembers, policy.ActionDelete), adminHandler.DeleteMember)
		}

		admins := adminGroup.Group("/admins")
		{
			admins.GET("", middleware.RequirePermission(policy.ResourceAdmins, policy.ActionView), adminHandler.ListAdmins)
			admins.POST("", middleware.RequirePermission(policy.ResourceAdmins, policy.ActionCreate), adminHandler.CreateAdmin)
			admins.PUT("/:id", middleware.RequirePermission(policy.ResourceAdmins, policy.ActionEdit), adminHandler.UpdateAdmin)
			admins.DELETE("/:id", middleware.RequirePermission(policy.ResourceAdmins, policy.ActionDelete), adminHandler.DeleteAdmin)
		}

		settings := adminGroup.Group("/settings")
		{
			settings.GET("", middleware.RequirePermission(policy.ResourceSettings, policy.ActionView), adminHandler.ListSettings)
			settings.PUT("", middleware.RequirePermission(policy.ResourceSettings, policy.ActionEdit), adminHandler.UpdateSetting)
		}

		adminGroup.GET("/activity", middleware.RequirePermission(policy.ResourceActivityLogs, policy.ActionView), adminHandler.ListActivity)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

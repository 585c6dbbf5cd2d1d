// Package main runs the campus events HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/campus-events/backend/config"
	"github.com/campus-events/backend/internal/auth"
	"github.com/campus-events/backend/internal/cascade"
	"github.com/campus-events/backend/internal/colleges"
	"github.com/campus-events/backend/internal/comments"
	"github.com/campus-events/backend/internal/events"
	"github.com/campus-events/backend/internal/locations"
	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/internal/ratings"
	"github.com/campus-events/backend/internal/rsos"
	"github.com/campus-events/backend/pkg/database"
	"github.com/campus-events/backend/pkg/redis"
	"github.com/campus-events/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Redis is optional; without it rating summaries fall back to the database.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
	} else {
		logger.Warn("redis disabled, rating summary caching off")
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	coordinator := cascade.NewCoordinator(cascade.NewPgxRunner(pool), logger)

	// Auth and users
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Colleges
	collegeRepo := colleges.NewRepository(pool)
	collegeHandler := colleges.NewHandler(collegeRepo, coordinator, logger)

	// Locations
	locationRepo := locations.NewRepository(pool)
	locationHandler := locations.NewHandler(locationRepo, logger)

	// RSOs and memberships
	rsoRepo := rsos.NewRepository(pool)
	rsoHandler := rsos.NewHandler(rsoRepo, coordinator, logger)

	// Events
	eventRepo := events.NewRepository(pool)
	access := events.NewAccess(eventRepo, rsoRepo)

	// Comments
	commentRepo := comments.NewRepository(pool)
	commentHandler := comments.NewHandler(commentRepo, eventRepo, access, authRepo)

	// Ratings
	ratingRepo := ratings.NewRepository(pool)
	ratingSvc := ratings.NewService(ratingRepo, rdb, logger)
	ratingHandler := ratings.NewHandler(ratingSvc, eventRepo, access, authRepo)

	eventHandler := events.NewHandler(eventRepo, access, coordinator, authRepo,
		locationRepo, collegeRepo, commentRepo, ratingSvc, rsoRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users
		api.GET("/users/search", authHandler.Search)

		// Colleges (read for everyone; writes are super admin only)
		api.GET("/colleges", collegeHandler.List)
		api.GET("/colleges/:id", collegeHandler.GetByID)
		api.POST("/colleges", middleware.RequireRole(models.RoleSuperAdmin), collegeHandler.Create)
		api.PUT("/colleges/:id", middleware.RequireRole(models.RoleSuperAdmin), collegeHandler.Update)
		api.DELETE("/colleges/:id", middleware.RequireRole(models.RoleSuperAdmin), collegeHandler.Delete)

		// Locations
		api.GET("/locations", locationHandler.List)
		api.POST("/locations", middleware.RequireRole(models.RoleAdmin), locationHandler.Create)

		// RSOs (create requires admin role; update/delete is the RSO admin)
		api.GET("/rsos", rsoHandler.List)
		api.GET("/rsos/mine", rsoHandler.ListMine)
		api.GET("/rsos/:id", rsoHandler.GetByID)
		api.GET("/rsos/:id/members", rsoHandler.Members)
		api.POST("/rsos", middleware.RequireRole(models.RoleAdmin), rsoHandler.Create)
		api.PUT("/rsos/:id", rsoHandler.Update)
		api.DELETE("/rsos/:id", rsoHandler.Delete)
		api.POST("/rsos/:id/join", rsoHandler.Join)
		api.DELETE("/rsos/:id/leave", rsoHandler.Leave)

		// Events
		api.GET("/events", eventHandler.List)
		api.POST("/events", eventHandler.Create)
		api.GET("/events/:id", eventHandler.GetByID)
		api.PUT("/events/:id", eventHandler.Update)
		api.DELETE("/events/:id", eventHandler.Delete)

		// Comments
		api.POST("/events/:id/comments", commentHandler.Create)
		api.GET("/events/:id/comments", commentHandler.ListByEvent)
		api.PUT("/comments/:id", commentHandler.Update)
		api.DELETE("/comments/:id", commentHandler.Delete)

		// Ratings
		api.POST("/events/:id/ratings", ratingHandler.Rate)
		api.GET("/events/:id/ratings", ratingHandler.Summary)

		// Public event approval (super admin only)
		superadmin := api.Group("/superadmin", middleware.RequireRole(models.RoleSuperAdmin))
		{
			superadmin.GET("/public-events/pending", eventHandler.PendingPublic)
			superadmin.PUT("/public-events/:id/approve", eventHandler.Approve)
			superadmin.DELETE("/public-events/:id/reject", eventHandler.Reject)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

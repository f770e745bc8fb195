package handler

import (
	"log/slog"
	"net/http"

	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"
	"reviewhub/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth    service.AuthService
	Users   service.UserService
	Catalog service.CatalogService
	Reviews service.ReviewService
	Comment service.CommentService
}

// NewRouter builds the gin engine: recovery, request logging, CORS, a
// rate-limited auth group and the versioned resource routes.
func NewRouter(cfg *config.Config, logger *slog.Logger, db *gorm.DB, svcs Services) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.Auth(svcs.Auth)
	v1 := r.Group("/api/v1")

	// signup/token get their own throttle; everything else shares the
	// plain group
	authGroup := v1.Group("", middleware.RateLimit(rate.Limit(cfg.AuthRatePerSecond), cfg.AuthRateBurst))
	NewAuthHandler(svcs.Auth).RegisterRoutes(authGroup)

	NewUserHandler(svcs.Users).RegisterRoutes(v1, auth)
	NewCategoryHandler(svcs.Catalog).RegisterRoutes(v1, auth)
	NewGenreHandler(svcs.Catalog).RegisterRoutes(v1, auth)
	NewTitleHandler(svcs.Catalog).RegisterRoutes(v1, auth)
	NewReviewHandler(svcs.Reviews).RegisterRoutes(v1, auth)
	NewCommentHandler(svcs.Comment).RegisterRoutes(v1, auth)

	return r
}

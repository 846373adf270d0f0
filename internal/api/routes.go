package api

import (
	"github.com/gin-gonic/gin"

	"github.com/sportsmatch/backend/internal/api/handlers"
	"github.com/sportsmatch/backend/internal/config"
	"github.com/sportsmatch/backend/internal/lifecycle"
	"github.com/sportsmatch/backend/internal/middleware"
	"github.com/sportsmatch/backend/internal/notify"
	"github.com/sportsmatch/backend/internal/store"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, st store.Store, svc *lifecycle.Service, pub *notify.Publisher, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Matchmaking
		v1.POST("/matchmaking", handlers.FindOpponents(st, cfg))

		// Match lifecycle
		matches := v1.Group("/matches")
		{
			matches.POST("/expire", handlers.ExpireMatches(svc))
			matches.POST("/remind", handlers.RemindMatches(svc, cfg))
			matches.GET("/:id", handlers.GetMatch(st))
			matches.POST("/:id/complete", handlers.CompleteMatch(svc))
		}

		// Players
		players := v1.Group("/players")
		{
			players.GET("/:id/stats", handlers.GetPlayerStats(st))
			players.GET("/:id/achievements", handlers.GetPlayerAchievements(st))
			players.GET("/:id/notifications", handlers.GetPlayerNotifications(st))
		}

		v1.GET("/leaderboard", handlers.Leaderboard(st))

		// Domain event ingestion (notification fan-out)
		v1.POST("/events", handlers.IngestEvent(st, pub))
	}
}

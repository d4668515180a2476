package routes

import (
	"github.com/cesarbot/kudos-backend/internal/config"
	"github.com/cesarbot/kudos-backend/internal/handlers"
	"github.com/cesarbot/kudos-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// HandlerDependencies bundles the handlers wired in main
type HandlerDependencies struct {
	EventHandler       *handlers.EventHandler
	CommandHandler     *handlers.CommandHandler
	LeaderboardHandler *handlers.LeaderboardHandler
	UserHandler        *handlers.UserHandler
	AuthHandler        *handlers.AuthHandler
	AdminHandler       *handlers.AdminHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, log *logrus.Logger, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))

	// Slack gateway callbacks
	slackGroup := router.Group("/slack")
	{
		slackGroup.POST("/events", deps.EventHandler.HandleEvent)
		slackGroup.POST("/commands", deps.CommandHandler.HandleCommand)
	}

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		public.POST("/auth/login", deps.AuthHandler.Login)

		public.GET("/leaderboard", deps.LeaderboardHandler.GetTop)
		public.GET("/users/:id", deps.UserHandler.GetProfile)
		public.GET("/users/:id/stats", deps.LeaderboardHandler.GetUserStats)
		public.GET("/users/:id/awards", deps.UserHandler.GetRecentAwards)
		public.PUT("/users/:id/avatar", deps.UserHandler.UpdateAvatar)
	}

	// Protected routes
	protected := router.Group("/api/v1/admin")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		protected.POST("/decay/run", deps.AdminHandler.RunDecay)
		protected.GET("/stats", deps.AdminHandler.GetStats)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

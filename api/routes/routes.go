package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/groupstage/groupstage-backend/internal/config"
	"github.com/groupstage/groupstage-backend/internal/handlers"
	"github.com/groupstage/groupstage-backend/internal/metrics"
	"github.com/groupstage/groupstage-backend/internal/middleware"
)

// HandlerDependencies bundles the handlers the router wires up.
type HandlerDependencies struct {
	Auth   *handlers.AuthHandler
	Groups *handlers.GroupHandler
	Teams  *handlers.TeamHandler
	Events *handlers.EventHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	router := gin.New()

	// Add middleware. RequestID runs first so the logger can pick the id up.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware(httpMetrics))
	router.Use(middleware.CORSMiddleware(cfg))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	public := router.Group("/api/v1")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		// Auth routes
		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.Auth.Register)
			auth.POST("/login", deps.Auth.Login)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		// Group routes
		groups := protected.Group("/groups")
		{
			groups.GET("", deps.Groups.ListGroups)
			groups.GET("/:id", deps.Groups.GetGroup)
			groups.GET("/:id/teams", deps.Teams.ListGroupTeams)
			groups.GET("/:id/events", deps.Events.ListGroupEvents)
			groups.POST("", deps.Groups.CreateGroup)
			groups.PUT("/:id/archive", deps.Groups.ArchiveGroup)
		}

		// Team routes
		teams := protected.Group("/teams")
		{
			teams.GET("/:id", deps.Teams.GetTeam)
			teams.POST("", deps.Teams.CreateTeam)
			teams.POST("/:id/members", deps.Teams.AddTeamMember)
			teams.DELETE("/:id/members/:memberId", deps.Teams.RemoveTeamMember)
			teams.DELETE("/:id", deps.Teams.DeleteTeam)
		}

		// Event routes
		events := protected.Group("/events")
		{
			events.GET("/:id", deps.Events.GetEvent)
			events.GET("/:id/recommended-status", deps.Events.RecommendStatus)
			events.GET("/:id/eligibility/:teamId", deps.Events.TeamEligibility)
			events.POST("", deps.Events.CreateEvent)
			events.POST("/:id/transition", deps.Events.RequestTransition)
			events.POST("/:id/clone", deps.Events.CloneEvent)
			events.POST("/sweep", deps.Events.Sweep)
			events.PUT("/:id/schedule", deps.Events.ScheduleEvent)
			events.PUT("/:id/access-control", deps.Events.SetAccessControl)
			events.PUT("/:id/prerequisites", deps.Events.SetPrerequisites)
			events.DELETE("/:id", deps.Events.DeleteEvent)
		}
	}

	return router
}

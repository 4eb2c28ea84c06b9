package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"bustrack/internal/handler"
	"bustrack/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	BusHandler      *handler.BusHandler
	RouteHandler    *handler.RouteHandler
	TripHandler     *handler.TripHandler
	LocationHandler *handler.LocationHandler
	TrackingHandler *handler.TrackingHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Bus routes.
		buses := v1.Group("/buses")
		{
			buses.POST("/register", deps.BusHandler.Register)
			buses.GET("", deps.BusHandler.GetAll)
			buses.GET("/:registration", deps.BusHandler.Get)
			buses.POST("/:registration/status", deps.BusHandler.UpdateStatus)
		}

		// Route routes.
		routes := v1.Group("/routes")
		{
			routes.POST("", deps.RouteHandler.Create)
			routes.GET("", deps.RouteHandler.GetAll)
			routes.GET("/:routeNumber", deps.RouteHandler.Get)
			routes.PUT("/:routeNumber/stops", deps.RouteHandler.UpdateStops)
			routes.POST("/:routeNumber/deactivate", deps.RouteHandler.Deactivate)
		}

		// Trip routes.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.Create)
			trips.GET("", deps.TripHandler.GetAll)
			trips.GET("/search", deps.TripHandler.Search)
			trips.GET("/running/:runningNumber", deps.TripHandler.GetByRunningNumber)
			trips.GET("/:id", deps.TripHandler.Get)
			trips.POST("/:id/start", deps.TripHandler.Start)
			trips.POST("/:id/complete", deps.TripHandler.Complete)
			trips.POST("/:id/cancel", deps.TripHandler.Cancel)
		}

		// Location event routes (operator write path + history reads).
		locations := v1.Group("/locations")
		{
			locations.POST("", deps.LocationHandler.Record)
			locations.GET("/trip/:tripId", deps.LocationHandler.History)
			locations.GET("/trip/:tripId/latest", deps.LocationHandler.Latest)
			locations.DELETE("/trip/:tripId", deps.LocationHandler.DeleteHistory)
		}

		// Commuter-facing tracking routes.
		tracking := v1.Group("/tracking")
		{
			tracking.GET("/live", deps.TrackingHandler.Live)
			tracking.GET("/bus/:registration", deps.TrackingHandler.TrackBus)
			tracking.GET("/route/:routeNumber", deps.TrackingHandler.BusesOnRoute)
			tracking.GET("/trip/:runningNumber", deps.TrackingHandler.TrackTrip)
		}
	}

	return router
}

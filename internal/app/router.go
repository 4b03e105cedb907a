package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"parking/internal/handler"
	"parking/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	VehicleHandler  *handler.VehicleHandler
	EntranceHandler *handler.EntranceHandler
	SpaceHandler    *handler.SpaceHandler
	TicketHandler   *handler.TicketHandler
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

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Vehicle routes, including entry and exit.
		vehicles := v1.Group("/vehicles")
		{
			vehicles.POST("/register", deps.VehicleHandler.Register)
			vehicles.GET("", deps.VehicleHandler.GetAll)
			vehicles.POST("/:id/enter", deps.VehicleHandler.Enter)
			vehicles.POST("/:id/exit", deps.VehicleHandler.Exit)
			vehicles.GET("/:id/cost", deps.VehicleHandler.CostPreview)
		}

		// Entrance routes.
		entrances := v1.Group("/entrances")
		{
			entrances.POST("", deps.EntranceHandler.Create)
			entrances.GET("", deps.EntranceHandler.GetAll)
			entrances.POST("/:id/spaces", deps.EntranceHandler.AssignSpace)
		}

		// Space routes.
		spaces := v1.Group("/spaces")
		{
			spaces.POST("", deps.SpaceHandler.Create)
			spaces.GET("", deps.SpaceHandler.GetAll)
		}

		// Ticket routes.
		tickets := v1.Group("/tickets")
		{
			tickets.GET("/:id", deps.TicketHandler.GetTicket)
		}
	}

	return router
}

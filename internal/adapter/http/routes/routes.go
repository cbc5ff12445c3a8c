package routes

import (
	"net/http"

	"todoref/internal/adapter/http/handler"
	"todoref/internal/adapter/http/middleware"
	"todoref/internal/core/port"
	"todoref/internal/core/telemetry"
	"todoref/pkg/config"

	"github.com/gin-gonic/gin"
)

type HandlersConfig struct {
	ListHandler      *handler.ListHandler
	DetailHandler    *handler.DetailHandler
	SelectionHandler *handler.SelectionHandler
	StreamHandler    *handler.StreamHandler
}

// SetupRouterWithConfig builds the engine with the full middleware chain.
// The response cache is returned so the caller can invalidate it.
func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, probe port.Telemetry, logger *config.AppLogger, appConfig *config.AppConfig, cache port.CacheRepository) (*gin.Engine, *middleware.ResponseCache) {
	if appConfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	responseCache := middleware.SetupGinMiddleware(router, appConfig, logger, metrics, probe, cache)

	router.Use(corsMiddleware())

	setupRoutes(router, handlers)

	return router, responseCache
}

// SetupRouterForTests wires the routes without the middleware chain.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CurrentMiddleware())
	router.Use(corsMiddleware())

	setupRoutes(router, handlers)

	return router
}

func setupRoutes(router *gin.Engine, handlers HandlersConfig) {
	if handlers.ListHandler != nil {
		router.GET("/", handlers.ListHandler.Index)
		router.GET("/todos", handlers.ListHandler.List)
		router.DELETE("/todos/:id", handlers.ListHandler.Delete)
		router.POST("/todos/:id/toggle", handlers.ListHandler.Toggle)
	}

	if handlers.DetailHandler != nil {
		router.POST("/todos", handlers.DetailHandler.Create)
		router.GET("/todos/:id", handlers.DetailHandler.Show)
		router.PUT("/todos/:id", handlers.DetailHandler.Save)
		router.PATCH("/todos/:id", handlers.DetailHandler.Patch)
	}

	if handlers.SelectionHandler != nil {
		router.GET("/selection", handlers.SelectionHandler.Show)
		router.PUT("/selection/:id", handlers.SelectionHandler.Select)
		router.DELETE("/selection", handlers.SelectionHandler.Clear)
	}

	if handlers.StreamHandler != nil {
		router.GET("/stream", handlers.StreamHandler.Stream)
	}

	router.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

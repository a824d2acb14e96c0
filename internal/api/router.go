// Package api assembles the HTTP surface: routes, middleware, and the
// handlers that run sweeps and serve cached results.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/macgen/macgen/internal/api/handlers"
	"github.com/macgen/macgen/internal/api/middleware"
)

// NewRouter builds the gin engine with all middleware and routes
// attached.
func NewRouter(logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sweeps := handlers.NewSweepHandler(logger)
	v1 := router.Group("/api/v1")
	{
		v1.POST("/sweeps", sweeps.RunSweep)
		v1.GET("/sweeps/:id", sweeps.GetSweep)
		v1.GET("/formats", sweeps.ListFormats)
	}

	return router
}

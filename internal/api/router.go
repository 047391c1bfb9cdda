// Package api exposes the warrant engine over HTTP with gin.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/user/warrant_analyzer_go/internal/warrant"
)

// NewRouter builds the gin engine with logging, recovery and a body limit.
func NewRouter(engine *warrant.Engine, logger *zap.Logger, maxBodyBytes int64) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := gin.New()

	router.Use(RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(RequestSizeLimit(maxBodyBytes))

	h := NewHandler(engine, logger)

	router.GET("/health", HealthCheck())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", HealthCheck())
		v1.POST("/evaluate", h.Evaluate)
		v1.POST("/evaluate/csv", h.EvaluateCSV)
		v1.GET("/curves/:warrant", h.Curves)
	}

	return router
}

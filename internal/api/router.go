// internal/api/router.go
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/RepurposeAI/internal/config"
	"github.com/Corphon/RepurposeAI/internal/di"
	"github.com/Corphon/RepurposeAI/internal/services"
)

// SetupRouter builds the HTTP router. Services are resolved from the DI
// container; router construction never creates new service instances.
func SetupRouter() (*gin.Engine, error) {
	cfg := config.GetCurrentConfig()
	container := di.GetContainer()

	contentService, ok := container.Get("content").(*services.ContentService)
	if !ok {
		return nil, fmt.Errorf("content service not initialized")
	}

	pipelineService, ok := container.Get("pipeline").(*services.PipelineService)
	if !ok {
		return nil, fmt.Errorf("pipeline service not initialized")
	}

	progressService, ok := container.Get("progress").(*services.ProgressService)
	if !ok {
		return nil, fmt.Errorf("progress service not initialized")
	}

	distributionService, ok := container.Get("distribution").(*services.DistributionService)
	if !ok {
		return nil, fmt.Errorf("distribution service not initialized")
	}

	handler := NewHandler(contentService, pipelineService, progressService, distributionService)

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(corsMiddleware())

	r.GET("/api/health", handler.Health)

	content := r.Group("/api/content")
	{
		content.POST("/upload", handler.UploadContent)
		content.GET("", handler.ListContent)
		content.GET("/:id", handler.GetContent)
		content.GET("/:id/status", handler.GetContentStatus)
		content.DELETE("/:id", handler.DeleteContent)
		content.POST("/:id/distribute", handler.DistributeContent)
		content.GET("/:id/distributions", handler.ListDistributions)
	}

	r.GET("/ws/content/:id/progress", handler.ContentProgressWebSocket)

	return r, nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/schools", handler.ListSchools)
		v1.GET("/schools/:id", handler.GetSchool)
		v1.POST("/schools", handler.CreateSchool)
		v1.DELETE("/schools/:id", handler.DeleteSchool)
		v1.GET("/export/schools", handler.ExportSchools)
	}
}

package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(handler *Handler) *gin.Engine {
	r := gin.Default()

	// Health check
	r.GET("/health", handler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	v1 := r.Group("/api/v1")
	{
		v1.POST("/alerts", handler.CreateTicket)
		v1.POST("/render", handler.RenderTicket)

		if handler.db != nil {
			v1.GET("/tickets", handler.ListTickets)
			v1.GET("/tickets/:id", handler.GetTicket)
		}
	}

	return r
}

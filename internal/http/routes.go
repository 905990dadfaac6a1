package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the control API on rg (mounted at /sw).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/install", h.Install)
	rg.POST("/activate", h.Activate)
	rg.POST("/message", h.Message)
	rg.GET("/version", h.Version)

	rg.POST("/push", h.Push)
	rg.POST("/sync", h.Sync)
	rg.POST("/periodicsync", h.PeriodicSync)

	rg.GET("/notifications", h.ListNotifications)
	rg.POST("/notifications/:id/click", h.NotificationClick)

	rg.GET("/clients", h.ListClients)
	rg.POST("/clients", h.RegisterClient)

	rg.GET("/caches", h.Caches)
}

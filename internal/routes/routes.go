package routes

import (
	"net/http"

	"craftlink_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every handler group under /api/v1.
func RegisterRoutes(router *gin.Engine, h *handlers.AppHandlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		h.Auth.RegisterRoutes(api)
		h.User.RegisterRoutes(api)
		h.Profile.RegisterRoutes(api)
		h.Portfolio.RegisterRoutes(api)
		h.Job.RegisterRoutes(api)
		h.Proposal.RegisterRoutes(api)
		h.Notification.RegisterRoutes(api)
		h.Rating.RegisterRoutes(api)
		h.Listing.RegisterRoutes(api)
		h.Upload.RegisterRoutes(api)
		h.Webhook.RegisterRoutes(api)
	}
}

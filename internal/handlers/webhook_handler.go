package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"craftlink_backend/internal/logger"
	"craftlink_backend/internal/services"
	"craftlink_backend/internal/webhook"
	"craftlink_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives identity-provider events. Signature verification
// happens before the body is parsed; unverified payloads are never touched.
type WebhookHandler struct {
	*BaseHandler
	verifier    *webhook.Verifier
	authService *services.AuthService
}

func NewWebhookHandler(base *BaseHandler, verifier *webhook.Verifier, authService *services.AuthService) *WebhookHandler {
	return &WebhookHandler{BaseHandler: base, verifier: verifier, authService: authService}
}

func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/clerk", h.HandleClerk)
}

func (h *WebhookHandler) HandleClerk(c *gin.Context) {
	if h.verifier == nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Webhook endpoint is not configured"))
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Failed to read request body"))
		return
	}

	err = h.verifier.Verify(
		c.GetHeader("svix-id"),
		c.GetHeader("svix-timestamp"),
		c.GetHeader("svix-signature"),
		body,
	)
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "webhook signature rejected", "error", err.Error())
		apperrors.HandleError(c, apperrors.ErrInvalidWebhookSignature)
		return
	}

	var event webhook.ClerkEvent
	if err := json.Unmarshal(body, &event); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Malformed event payload"))
		return
	}

	switch event.Type {
	case "user.created":
		var user webhook.ClerkUser
		if err := json.Unmarshal(event.Data, &user); err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Malformed user payload"))
			return
		}
		if user.ID == "" || user.PrimaryEmail() == "" {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Event is missing user id or email"))
			return
		}

		if _, err := h.authService.ProvisionExternalUser(user.ID, user.PrimaryEmail(), user.Username); err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User provisioned"})

	default:
		// Unhandled event types are acknowledged so the provider stops retrying.
		logger.CtxDebug(c.Request.Context(), "webhook event ignored", "type", event.Type)
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
	}
}

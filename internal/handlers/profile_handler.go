package handlers

import (
	"net/http"

	"craftlink_backend/internal/middleware"
	"craftlink_backend/internal/repositories"
	"craftlink_backend/internal/services"
	"craftlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService *services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{BaseHandler: base, profileService: profileService}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profiles := rg.Group("/profiles")
	{
		profiles.GET("", h.Search)
		profiles.GET("/me", middleware.AuthMiddleware(), h.GetOwn)
		profiles.PUT("/me", middleware.AuthMiddleware(), h.Update)
		profiles.GET("/:username", h.GetByUsername)
	}
}

func (h *ProfileHandler) GetOwn(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.profileService.GetOwn(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByUsername is public; authentication is optional and only used to let
// owners see their own private profile.
func (h *ProfileHandler) GetByUsername(c *gin.Context) {
	viewerID := middleware.GetUserID(c)

	resp, err := h.profileService.GetByUsername(c.Param("username"), viewerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.profileService.Update(userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) Search(c *gin.Context) {
	var criteria repositories.ProfileCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	resp, err := h.profileService.Search(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

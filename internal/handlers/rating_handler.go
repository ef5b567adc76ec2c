package handlers

import (
	"net/http"

	"craftlink_backend/internal/middleware"
	"craftlink_backend/internal/models"
	"craftlink_backend/internal/services"
	"craftlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	*BaseHandler
	ratingService *services.RatingService
}

func NewRatingHandler(base *BaseHandler, ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{BaseHandler: base, ratingService: ratingService}
}

func (h *RatingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ratings := rg.Group("/ratings")
	{
		ratings.POST("", middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleClient), h.Create)
		ratings.GET("/user/:id", h.ListForUser)
		ratings.GET("/job/:id", h.GetForJob)
	}
}

func (h *RatingHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRatingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.ratingService.Create(userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RatingHandler) ListForUser(c *gin.Context) {
	resp, err := h.ratingService.ListForUser(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RatingHandler) GetForJob(c *gin.Context) {
	resp, err := h.ratingService.GetForJob(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handlers

import (
	"net/http"

	"craftlink_backend/internal/middleware"
	"craftlink_backend/internal/models"
	"craftlink_backend/internal/repositories"
	"craftlink_backend/internal/services"
	"craftlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ServiceListingHandler struct {
	*BaseHandler
	listingService *services.ServiceListingService
}

func NewServiceListingHandler(base *BaseHandler, listingService *services.ServiceListingService) *ServiceListingHandler {
	return &ServiceListingHandler{BaseHandler: base, listingService: listingService}
}

func (h *ServiceListingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	listings := rg.Group("/services")
	{
		listings.GET("", h.Search)
		listings.GET("/:id", h.GetByID)

		authed := listings.Group("", middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleCreator))
		{
			authed.POST("", h.Create)
			authed.GET("/mine", h.ListMine)
			authed.PUT("/:id", h.Update)
			authed.DELETE("/:id", h.Delete)
		}
	}
}

func (h *ServiceListingHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateListingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.listingService.Create(userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ServiceListingHandler) GetByID(c *gin.Context) {
	resp, err := h.listingService.GetByID(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiceListingHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateListingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.listingService.Update(userID, c.Param("id"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiceListingHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.listingService.ListMine(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiceListingHandler) Search(c *gin.Context) {
	var criteria repositories.ListingCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	resp, err := h.listingService.Search(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiceListingHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.listingService.Delete(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service listing deleted"})
}

package handlers

import (
	"net/http"

	"craftlink_backend/internal/middleware"
	"craftlink_backend/internal/services"
	"craftlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PortfolioHandler struct {
	*BaseHandler
	portfolioService *services.PortfolioService
}

func NewPortfolioHandler(base *BaseHandler, portfolioService *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{BaseHandler: base, portfolioService: portfolioService}
}

func (h *PortfolioHandler) RegisterRoutes(rg *gin.RouterGroup) {
	portfolio := rg.Group("/portfolio", middleware.AuthMiddleware())
	{
		portfolio.POST("", h.Create)
		portfolio.PUT("/reorder", h.Reorder)
		portfolio.PUT("/:id", h.Update)
		portfolio.DELETE("/:id", h.Delete)
	}
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePortfolioItemRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.portfolioService.Create(userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PortfolioHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePortfolioItemRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.portfolioService.Update(userID, c.Param("id"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PortfolioHandler) Reorder(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ReorderPortfolioRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.portfolioService.Reorder(userID, req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Portfolio reordered"})
}

func (h *PortfolioHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.portfolioService.Delete(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Portfolio item deleted"})
}

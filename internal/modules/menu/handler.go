package menu

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ravintola/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/menu/categories", h.Categories)
	rg.GET("/menu/items", h.Items)
	rg.GET("/menu/items/:id", h.ItemDetail)
}

func (h *Handler) Categories(c *gin.Context) {
	out, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load categories")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": out})
}

func (h *Handler) Items(c *gin.Context) {
	items, err := h.service.Browse(c.Request.Context(), c.Query("category"), c.Query("q"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Category not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load menu")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

func (h *Handler) ItemDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	item, err := h.service.ItemDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Menu item not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load menu item")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"item": item})
}

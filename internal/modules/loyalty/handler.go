package loyalty

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ravintola/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the loyalty endpoints; the group must require
// authentication.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/loyalty/status", h.Status)
}

func (h *Handler) Status(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	// Accrual is idempotent, so run it on every status read too; a
	// reward earned while the delivered hook was down still appears.
	if _, err := h.service.EnsureReward(c.Request.Context(), userID); err != nil {
		log.Printf("loyalty accrual for user %d failed: %v", userID, err)
	}

	st, err := h.service.StatusFor(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load loyalty status")
		return
	}
	response.Success(c, http.StatusOK, st)
}

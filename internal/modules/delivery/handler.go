package delivery

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"ravintola/internal/domain"
	"ravintola/internal/pkg/response"
	"ravintola/internal/repository"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Handler struct {
	service *Service
	hub     *StatusHub
}

func NewHandler(service *Service, hub *StatusHub) *Handler {
	return &Handler{service: service, hub: hub}
}

// RegisterRoutes mounts the storefront endpoints. Everything here is
// session-scoped and works for anonymous visitors; a logged-in user id
// additionally unlocks personal coupons.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/delivery/location", h.SetLocation)
	rg.GET("/delivery/geocode", h.GeocodeSearch)
	rg.GET("/delivery/geocode/reverse", h.GeocodeReverse)

	rg.GET("/delivery/cart", h.Cart)
	rg.POST("/delivery/cart/items", h.CartAdd)
	rg.PUT("/delivery/cart/items/:id", h.CartSet)
	rg.DELETE("/delivery/cart/items/:id", h.CartRemove)

	rg.POST("/delivery/coupon", h.ApplyCoupon)
	rg.DELETE("/delivery/coupon", h.RemoveCoupon)

	rg.POST("/delivery/checkout/details", h.CheckoutDetails)
	rg.POST("/delivery/checkout", h.PlaceOrder)

	rg.GET("/delivery/orders/:id", h.TrackOrder)
	rg.GET("/delivery/orders/:id/stream", h.StreamOrder)
}

// RegisterStaffRoutes mounts the kitchen board endpoints.
func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.GET("/delivery/orders", h.ListOrders)
	rg.POST("/delivery/orders/:id/status", h.UpdateStatus)
	rg.POST("/delivery/orders/status", h.UpdateStatusBulk)
}

func (h *Handler) SetLocation(c *gin.Context) {
	var req SetLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "lat and lng are required")
		return
	}

	totals, err := h.service.SetLocation(c.Request.Context(), sessionID(c), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, totals)
}

func (h *Handler) GeocodeSearch(c *gin.Context) {
	hits, ok := h.service.GeocodeSearch(c.Request.Context(), c.Query("q"))
	response.Success(c, http.StatusOK, gin.H{"results": hits, "ok": ok})
}

func (h *Handler) GeocodeReverse(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "lat and lng are required")
		return
	}

	label, ok := h.service.GeocodeReverse(c.Request.Context(), lat, lng)
	response.Success(c, http.StatusOK, gin.H{"label": label, "ok": ok})
}

func (h *Handler) Cart(c *gin.Context) {
	totals, err := h.service.Totals(c.Request.Context(), sessionID(c), userID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, totals)
}

func (h *Handler) CartAdd(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "menu_item_id is required")
		return
	}

	totals, err := h.service.CartAdd(c.Request.Context(), sessionID(c), userID(c), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, totals)
}

func (h *Handler) CartSet(c *gin.Context) {
	itemID, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Qty int `json:"qty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "qty is required")
		return
	}

	totals, err := h.service.CartSet(c.Request.Context(), sessionID(c), userID(c), itemID, req.Qty)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, totals)
}

func (h *Handler) CartRemove(c *gin.Context) {
	itemID, ok := paramID(c)
	if !ok {
		return
	}

	totals, err := h.service.CartSet(c.Request.Context(), sessionID(c), userID(c), itemID, 0)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, totals)
}

func (h *Handler) ApplyCoupon(c *gin.Context) {
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "code is required")
		return
	}

	totals, err := h.service.ApplyCoupon(c.Request.Context(), sessionID(c), userID(c), req.Code)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, totals)
}

func (h *Handler) RemoveCoupon(c *gin.Context) {
	totals, err := h.service.RemoveCoupon(c.Request.Context(), sessionID(c), userID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, totals)
}

func (h *Handler) CheckoutDetails(c *gin.Context) {
	var req CheckoutDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name and phone are required")
		return
	}

	if err := h.service.SaveCheckoutDetails(c.Request.Context(), sessionID(c), req); err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"saved": true})
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	order, err := h.service.PlaceOrder(c.Request.Context(), sessionID(c), userID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"order": order})
}

func (h *Handler) TrackOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": order})
}

// StreamOrder upgrades to a websocket that receives a StatusEvent on
// every transition of the order.
func (h *Handler) StreamOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if _, err := h.service.GetOrder(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("order %d: websocket upgrade failed: %v", id, err)
		return
	}
	h.hub.Register(id, conn)

	// Drain control frames until the client goes away.
	go func() {
		defer h.hub.Unregister(id, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Handler) ListOrders(c *gin.Context) {
	f := repository.OrderFilter{Status: domain.OrderStatus(c.Query("status"))}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "100")); err == nil {
		f.Limit = limit
	}
	if uid, err := strconv.ParseInt(c.Query("user_id"), 10, 64); err == nil {
		f.UserID = uid
	}

	orders, err := h.service.ListOrders(c.Request.Context(), f)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status is required")
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": order})
}

func (h *Handler) UpdateStatusBulk(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "order_ids and status are required")
		return
	}

	updated, skipped, err := h.service.UpdateStatusBulk(c.Request.Context(), req.OrderIDs, domain.OrderStatus(req.Status))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": updated, "skipped": skipped})
}

func (h *Handler) renderError(c *gin.Context, err error) {
	var fieldErr *domain.FieldError
	switch {
	case errors.As(err, &fieldErr):
		response.FieldError(c, fieldErr.Field, fieldErr.Message)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Order not found")
	case errors.Is(err, ErrNoLocation):
		response.Error(c, http.StatusBadRequest, "NO_LOCATION", "Please choose a delivery location first")
	case errors.Is(err, ErrEmptyCart):
		response.Error(c, http.StatusBadRequest, "EMPTY_CART", "Your cart is empty")
	case errors.Is(err, ErrCouponInvalid):
		response.Error(c, http.StatusBadRequest, "COUPON_INVALID", "This coupon code is not valid")
	case errors.Is(err, ErrCouponNotYours):
		response.Error(c, http.StatusForbidden, "COUPON_FORBIDDEN", "This coupon is personal and belongs to another customer")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Order status cannot change this way")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString("session_id")
}

func userID(c *gin.Context) int64 {
	return c.GetInt64("user_id")
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}

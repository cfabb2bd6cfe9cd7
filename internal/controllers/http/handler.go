package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"roomservice/internal/dashboard"
	"roomservice/internal/domain"
	"roomservice/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type Handler struct {
	orders  *services.OrderService
	catalog *services.CatalogService
	log     *zap.Logger
	timeout time.Duration
}

func NewHandler(orders *services.OrderService, catalog *services.CatalogService, log *zap.Logger, timeout time.Duration) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Handler{orders: orders, catalog: catalog, log: log, timeout: timeout}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Dashboard)
	r.GET("/healthz", h.Health)

	r.GET("/menu/:roomNumber", h.ListMenu)
	r.GET("/dishes", h.ListMenu)
	r.GET("/dishes/:id", h.GetItem)

	r.POST("/order", h.PostOrder)
	r.GET("/order", h.GetOrderStatus)
	r.PATCH("/order", h.UpdateOrder)
	r.GET("/orders", h.ListOrders)
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *Handler) ListMenu(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	items, err := h.catalog.ListItems(ctx)
	if err != nil {
		h.writeError(c, err, "Failed to fetch menu items")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	item, err := h.catalog.GetItem(ctx, id)
	if err != nil {
		h.writeError(c, err, "Failed to fetch menu items")
		return
	}
	c.JSON(http.StatusOK, item)
}

// PostOrder creates an order, or answers a status check when the body
// carries action "getStatus".
func (h *Handler) PostOrder(c *gin.Context) {
	var probe orderAction
	if err := c.ShouldBindBodyWith(&probe, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data. Room number and items array are required."})
		return
	}
	if probe.Action == actionGetStatus {
		h.statusCheck(c)
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data. Room number and items array are required."})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	order, err := h.orders.CreateOrder(ctx, req.RoomNumber, req.Items)
	if err != nil {
		h.writeError(c, err, "Failed to process order")
		return
	}
	c.JSON(http.StatusCreated, CreateOrderResponse{OrderID: order.ID, Message: "Order created successfully"})
}

func (h *Handler) statusCheck(c *gin.Context) {
	var req StatusCheckRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID is required for status check"})
		return
	}
	h.respondStatus(c, uint64(req.OrderID))
}

func (h *Handler) GetOrderStatus(c *gin.Context) {
	id, ok := orderIDQuery(c)
	if !ok {
		return
	}
	h.respondStatus(c, id)
}

func (h *Handler) respondStatus(c *gin.Context, id uint64) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	view, err := h.orders.GetOrderStatus(ctx, id)
	if err != nil {
		h.writeError(c, err, "Failed to fetch order status")
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateOrder applies a status change when present, otherwise a line replacement.
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := orderIDQuery(c)
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update request"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	var (
		order *domain.Order
		err   error
	)
	switch {
	case req.Status != nil:
		order, err = h.orders.UpdateOrderStatus(ctx, id, *req.Status)
	case req.Items != nil:
		order, err = h.orders.ReplaceOrderItems(ctx, id, *req.Items)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update request"})
		return
	}
	if err != nil {
		h.writeError(c, err, "Failed to update order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	orders, err := h.orders.ListOrders(ctx)
	if err != nil {
		h.writeError(c, err, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Dashboard lists orders under the staff filter: ?level=1..3 or ?completed=true.
func (h *Handler) Dashboard(c *gin.Context) {
	completed, _ := strconv.ParseBool(c.Query("completed"))
	filter, err := dashboard.ParseFilter(c.Query("level"), completed)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	orders, err := h.orders.ListOrders(ctx)
	if err != nil {
		h.writeError(c, err, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, DashboardResponse{
		Level:         filter.Level,
		CompletedOnly: filter.CompletedOnly,
		Levels:        dashboard.Levels,
		Orders:        filter.Apply(orders),
	})
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.orders.Ping(ctx); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func orderIDQuery(c *gin.Context) (uint64, bool) {
	raw := c.Query("id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID is required"})
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return 0, false
	}
	return id, true
}

// writeError maps service errors to status codes. Anything unrecognized is
// a persistence failure: the cause is logged and the client gets fallback.
func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var verr services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, services.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		h.log.Error(fallback, zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

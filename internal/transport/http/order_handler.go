package http

import (
	"net/http"
	"strconv"

	"campus-market/internal/models"
	"campus-market/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	svc service.OrderService
	log *zap.Logger
}

func NewOrderHandler(svc service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	lines := make([]service.LineRequest, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, service.LineRequest{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	ord, err := h.svc.CreateOrder(c.Request.Context(), lines, req.AddressID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(ord))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid order id"))
		return
	}

	ord, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(ord))
}

func (h *OrderHandler) List(c *gin.Context) {
	f := service.OrderListFilter{
		Limit:    atoiQuery(c, "limit", 10),
		Offset:   atoiQuery(c, "offset", 0),
		AsSeller: c.Query("role") == "seller",
	}
	if s := c.Query("status"); s != "" {
		st := models.OrderStatus(s)
		f.Status = &st
	}

	orders, total, err := h.svc.ListOrders(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": out, "total": total})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid order id"))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	target := models.OrderStatus(req.Status)
	switch target {
	case models.OrderStatusPaid, models.OrderStatusShipped,
		models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, NewValidationError("unknown status"))
		return
	}

	ord, err := h.svc.UpdateStatus(c.Request.Context(), id, target)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(ord))
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid order id"))
		return
	}

	ord, err := h.svc.CancelOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(ord))
}

func (h *OrderHandler) Statistics(c *gin.Context) {
	st, err := h.svc.GetStatistics(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toStatisticsResponse(st))
}

func atoiQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

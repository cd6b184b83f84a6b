package http

import (
	"net/http"

	"campus-market/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartHandler struct {
	svc service.CartService
	log *zap.Logger
}

func NewCartHandler(svc service.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{svc: svc, log: log}
}

type cartEntryResponse struct {
	ItemID         uuid.UUID `json:"item_id"`
	Title          string    `json:"title"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
	Stock          int32     `json:"stock"`
	Available      bool      `json:"available"`
}

type cartResponse struct {
	Entries    []cartEntryResponse `json:"entries"`
	TotalCents int64               `json:"total_cents"`
	TotalItems int32               `json:"total_items"`
}

func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.svc.GetCart(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	out := cartResponse{Entries: make([]cartEntryResponse, 0, len(cart.Entries))}
	for _, e := range cart.Entries {
		out.Entries = append(out.Entries, cartEntryResponse{
			ItemID:         e.ItemID,
			Title:          e.Title,
			Quantity:       e.Quantity,
			UnitPriceCents: e.UnitPriceCents,
			LineTotalCents: e.LineTotalCents,
			Stock:          e.Stock,
			Available:      e.Available,
		})
	}
	out.TotalCents = cart.TotalCents
	out.TotalItems = cart.TotalItems
	c.JSON(http.StatusOK, out)
}

func (h *CartHandler) Add(c *gin.Context) {
	var req CartMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	if err := h.svc.AddToCart(c.Request.Context(), req.ItemID, req.Quantity); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req CartMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	if err := h.svc.UpdateQuantity(c.Request.Context(), req.ItemID, req.Quantity); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) Remove(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid item id"))
		return
	}

	if err := h.svc.RemoveFromCart(c.Request.Context(), itemID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.svc.ClearCart(c.Request.Context()); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

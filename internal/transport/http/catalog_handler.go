package http

import (
	"net/http"

	"campus-market/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	svc service.CatalogService
	log *zap.Logger
}

func NewCatalogHandler(svc service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, log: log}
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	it, err := h.svc.CreateItem(c.Request.Context(), service.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toItemResponse(it))
}

func (h *CatalogHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid item id"))
		return
	}

	it, err := h.svc.GetItem(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(it))
}

func (h *CatalogHandler) List(c *gin.Context) {
	f := service.ItemListFilter{
		Category: c.Query("category"),
		Query:    c.Query("query"),
		Limit:    atoiQuery(c, "limit", 20),
		Offset:   atoiQuery(c, "offset", 0),
	}
	if s := c.Query("seller_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewValidationError("invalid seller id"))
			return
		}
		f.SellerID = &id
	}
	// Browsing hides deactivated listings unless explicitly requested.
	if c.Query("include_inactive") != "true" {
		active := true
		f.OnlyActive = &active
	}

	items, total, err := h.svc.ListItems(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toItemResponse(&items[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": out, "total": total})
}

func (h *CatalogHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid item id"))
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	it, err := h.svc.UpdateItem(c.Request.Context(), id, service.ItemPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(it))
}

func (h *CatalogHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid item id"))
		return
	}

	it, err := h.svc.DeactivateItem(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(it))
}

func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid item id"))
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	it, err := h.svc.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(it))
}

func (h *CatalogHandler) CheckStock(c *gin.Context) {
	var req CheckStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	statuses, err := h.svc.CheckStock(c.Request.Context(), req.ItemIDs)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	out := make([]StockStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, StockStatusResponse{
			ItemID:    s.ItemID,
			Stock:     s.Stock,
			IsActive:  s.IsActive,
			Available: s.Available,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

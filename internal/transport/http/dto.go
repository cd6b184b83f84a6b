package http

import (
	"time"

	"campus-market/internal/models"
	"campus-market/internal/service"

	"github.com/google/uuid"
)

// BaseError is the wire shape of every failure response.
// Code is machine-checkable (snake_case), Message is human-readable.
type BaseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewValidationError(msg string) BaseError {
	return BaseError{Code: "validation_error", Message: msg}
}
func NewUnauthorizedError(msg string) BaseError {
	return BaseError{Code: "unauthorized", Message: msg}
}
func NewForbiddenError(msg string) BaseError {
	return BaseError{Code: "forbidden", Message: msg}
}
func NewNotFoundError(msg string) BaseError {
	return BaseError{Code: "not_found", Message: msg}
}
func NewConflictError(msg string) BaseError {
	return BaseError{Code: "conflict", Message: msg}
}
func NewInternalError(details string) BaseError {
	return BaseError{Code: "internal_error", Message: "internal server error", Details: details}
}

type LineRequestDTO struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	Quantity int32     `json:"quantity" binding:"required"`
}

type CreateOrderRequest struct {
	Lines     []LineRequestDTO `json:"lines" binding:"required"`
	AddressID uuid.UUID        `json:"address_id" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderLineResponse struct {
	ItemID         uuid.UUID `json:"item_id"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	BuyerID         uuid.UUID           `json:"buyer_id"`
	SellerID        uuid.UUID           `json:"seller_id"`
	Status          string              `json:"status"`
	TotalCents      int64               `json:"total_cents"`
	LinesCount      int                 `json:"lines_count"`
	Lines           []OrderLineResponse `json:"lines"`
	ShipToRecipient string              `json:"ship_to_recipient"`
	ShipToPhone     string              `json:"ship_to_phone"`
	ShipToDetail    string              `json:"ship_to_detail"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ItemID:         l.ItemID,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			LineTotalCents: l.LineTotalCents,
		})
	}
	return OrderResponse{
		ID:              o.ID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		Status:          string(o.Status),
		TotalCents:      o.TotalCents,
		LinesCount:      len(lines),
		Lines:           lines,
		ShipToRecipient: o.ShipToRecipient,
		ShipToPhone:     o.ShipToPhone,
		ShipToDetail:    o.ShipToDetail,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"seller_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int32     `json:"stock"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toItemResponse(it *models.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		SellerID:    it.SellerID,
		Title:       it.Title,
		Description: it.Description,
		Category:    it.Category,
		PriceCents:  it.PriceCents,
		Stock:       it.Stock,
		IsActive:    it.IsActive,
		CreatedAt:   it.CreatedAt,
	}
}

type CreateItemRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceCents  int64  `json:"price_cents" binding:"required"`
	Stock       int32  `json:"stock"`
}

type UpdateItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	PriceCents  *int64  `json:"price_cents"`
	IsActive    *bool   `json:"is_active"`
}

type AdjustStockRequest struct {
	Delta int32 `json:"delta" binding:"required"`
}

type CheckStockRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids" binding:"required"`
}

type StockStatusResponse struct {
	ItemID    uuid.UUID `json:"item_id"`
	Stock     int32     `json:"stock"`
	IsActive  bool      `json:"is_active"`
	Available bool      `json:"available"`
}

type AddressRequest struct {
	Recipient string `json:"recipient" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Detail    string `json:"detail" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

type UpdateAddressRequest struct {
	Recipient *string `json:"recipient"`
	Phone     *string `json:"phone"`
	Detail    *string `json:"detail"`
	IsDefault *bool   `json:"is_default"`
}

type AddressResponse struct {
	ID        uuid.UUID `json:"id"`
	Recipient string    `json:"recipient"`
	Phone     string    `json:"phone"`
	Detail    string    `json:"detail"`
	IsDefault bool      `json:"is_default"`
}

func toAddressResponse(a *models.Address) AddressResponse {
	return AddressResponse{
		ID:        a.ID,
		Recipient: a.Recipient,
		Phone:     a.Phone,
		Detail:    a.Detail,
		IsDefault: a.IsDefault,
	}
}

type CartMutationRequest struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	Quantity int32     `json:"quantity" binding:"required"`
}

type CreateReviewRequest struct {
	ItemID  uuid.UUID `json:"item_id" binding:"required"`
	Rating  int32     `json:"rating" binding:"required"`
	Comment string    `json:"comment"`
}

type FavoriteRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
}

type StatisticsResponse struct {
	OrdersPlaced    int64            `json:"orders_placed"`
	CentsSpent      int64            `json:"cents_spent"`
	OrdersReceived  int64            `json:"orders_received"`
	CentsEarned     int64            `json:"cents_earned"`
	StatusBreakdown map[string]int64 `json:"status_breakdown"`
}

func toStatisticsResponse(st *service.Statistics) StatisticsResponse {
	breakdown := make(map[string]int64, len(st.StatusBreakdown))
	for k, v := range st.StatusBreakdown {
		breakdown[string(k)] = v
	}
	return StatisticsResponse{
		OrdersPlaced:    st.OrdersPlaced,
		CentsSpent:      st.CentsSpent,
		OrdersReceived:  st.OrdersReceived,
		CentsEarned:     st.CentsEarned,
		StatusBreakdown: breakdown,
	}
}

package service

import (
	"context"

	"campus-market/internal/models"

	"github.com/google/uuid"
)

type LineRequest struct {
	ItemID   uuid.UUID
	Quantity int32
}

type OrderListFilter struct {
	Status   *models.OrderStatus
	AsSeller bool
	Limit    int
	Offset   int
}

// Statistics summarizes a user's order history on both sides of the market.
type Statistics struct {
	OrdersPlaced    int64
	CentsSpent      int64
	OrdersReceived  int64
	CentsEarned     int64
	StatusBreakdown map[models.OrderStatus]int64
}

// TransitionPolicy decides whether the requester may move the order to the
// target status. The state machine itself is fixed; who may drive which edge
// is the caller's policy.
type TransitionPolicy func(o *models.Order, requesterID uuid.UUID, target models.OrderStatus) bool

// DefaultTransitionPolicy: the buyer pays, cancels and confirms receipt; the
// seller ships.
func DefaultTransitionPolicy(o *models.Order, requesterID uuid.UUID, target models.OrderStatus) bool {
	switch target {
	case models.OrderStatusPaid, models.OrderStatusCancelled, models.OrderStatusCompleted:
		return requesterID == o.BuyerID
	case models.OrderStatusShipped:
		return requesterID == o.SellerID
	default:
		return false
	}
}

type OrderService interface {
	CreateOrder(ctx context.Context, lines []LineRequest, addressID uuid.UUID) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target models.OrderStatus) (*models.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetStatistics(ctx context.Context) (*Statistics, error)
}

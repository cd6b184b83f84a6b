package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"campus-market/internal/models"
	"campus-market/internal/repository"

	"github.com/google/uuid"
)

type orderService struct {
	repo          *repository.Repository
	events        EventBus
	policy        TransitionPolicy
	maxQtyPerLine int32
	now           func() time.Time
}

func NewOrderService(repo *repository.Repository, events EventBus, maxQtyPerLine int32, policy TransitionPolicy) OrderService {
	if maxQtyPerLine <= 0 {
		maxQtyPerLine = 100
	}
	if policy == nil {
		policy = DefaultTransitionPolicy
	}
	return &orderService{
		repo:          repo,
		events:        events,
		policy:        policy,
		maxQtyPerLine: maxQtyPerLine,
		now:           time.Now,
	}
}

func requireAuth(ctx context.Context) (uuid.UUID, error) {
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, ErrUnauthorized
	}
	return uid, nil
}

// sortUUIDs orders ids ascending bytewise. Acquiring item locks in this fixed
// order prevents deadlock between transactions that overlap on multiple items.
func sortUUIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending: {models.OrderStatusPaid, models.OrderStatusCancelled},
	models.OrderStatusPaid:    {models.OrderStatusShipped},
	models.OrderStatusShipped: {models.OrderStatusCompleted},
}

func canTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *orderService) CreateOrder(ctx context.Context, lines []LineRequest, addressID uuid.UUID) (*models.Order, error) {
	buyerID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	// All validation happens before any mutation.
	if len(lines) == 0 {
		return nil, ErrEmptyItems
	}
	qtyByItem := make(map[uuid.UUID]int32, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 || l.Quantity > s.maxQtyPerLine {
			return nil, ErrQuantityInvalid
		}
		if _, dup := qtyByItem[l.ItemID]; dup {
			return nil, ErrDuplicateItem
		}
		qtyByItem[l.ItemID] = l.Quantity
		ids = append(ids, l.ItemID)
	}

	addr, err := s.repo.Addresses.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if addr == nil {
		return nil, ErrAddressNotFound
	}
	if addr.UserID != buyerID {
		return nil, ErrNotAddressOwner
	}

	sortUUIDs(ids)

	var order *models.Order
	now := s.now()

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		// Lock every referenced item row in ascending id order and verify
		// the whole request before touching any counter.
		var sellerID uuid.UUID
		locked := make(map[uuid.UUID]*models.Item, len(ids))
		for _, id := range ids {
			it, err := tx.Items.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if it == nil {
				return ErrItemNotFound
			}
			if !it.IsActive {
				return ErrItemInactive
			}
			if it.SellerID == buyerID {
				return ErrSelfPurchase
			}
			if sellerID == uuid.Nil {
				sellerID = it.SellerID
			} else if sellerID != it.SellerID {
				return ErrMixedSellers
			}
			if it.Stock < qtyByItem[id] {
				return ErrInsufficientStock
			}
			locked[id] = it
		}

		for _, id := range ids {
			ok, err := tx.Items.DecrementStock(ctx, id, qtyByItem[id])
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientStock
			}
		}

		// Unit prices are captured from the locked rows; later catalog price
		// changes never touch persisted lines.
		var total int64
		linesDB := make([]models.OrderLine, 0, len(lines))
		for _, lr := range lines {
			it := locked[lr.ItemID]
			lineTotal := int64(lr.Quantity) * it.PriceCents
			total += lineTotal
			linesDB = append(linesDB, models.OrderLine{
				ItemID:         lr.ItemID,
				Quantity:       lr.Quantity,
				UnitPriceCents: it.PriceCents,
				LineTotalCents: lineTotal,
				CreatedAt:      now,
			})
		}

		order = &models.Order{
			BuyerID:         buyerID,
			SellerID:        sellerID,
			Status:          models.OrderStatusPending,
			TotalCents:      total,
			AddressID:       &addr.ID,
			ShipToRecipient: addr.Recipient,
			ShipToPhone:     addr.Phone,
			ShipToDetail:    addr.Detail,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}
		for i := range linesDB {
			linesDB[i].OrderID = order.ID
		}
		if err := tx.OrderLines.BulkCreate(ctx, linesDB); err != nil {
			return err
		}
		order.Lines = linesDB
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		evLines := make([]OrderLineEvent, 0, len(order.Lines))
		for _, l := range order.Lines {
			evLines = append(evLines, OrderLineEvent{
				ItemID:     l.ItemID,
				Quantity:   l.Quantity,
				PriceCents: l.UnitPriceCents,
				LineTotal:  l.LineTotalCents,
			})
		}
		_ = s.events.PublishOrderCreated(ctx, OrderCreatedEvent{
			OrderID:    order.ID,
			BuyerID:    order.BuyerID,
			SellerID:   order.SellerID,
			Lines:      evLines,
			TotalCents: order.TotalCents,
			CreatedAt:  order.CreatedAt,
		})
	}

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	ord, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	if ord.BuyerID != userID && ord.SellerID != userID {
		return nil, ErrNotOrderParty
	}
	return ord, nil
}

func (s *orderService) ListOrders(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}

	rf := repository.OrderListFilter{
		Status: f.Status,
		Limit:  f.Limit,
		Offset: f.Offset,
	}
	if f.AsSeller {
		rf.SellerID = &userID
	} else {
		rf.BuyerID = &userID
	}
	return s.repo.Orders.List(ctx, rf)
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, target models.OrderStatus) (*models.Order, error) {
	requesterID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	// Cancellation has stock side effects and goes through the restore path.
	if target == models.OrderStatusCancelled {
		return s.cancel(ctx, id, requesterID, true)
	}

	var (
		ord  *models.Order
		from models.OrderStatus
	)
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		o, err := tx.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return ErrOrderNotFound
		}
		if o.BuyerID != requesterID && o.SellerID != requesterID {
			return ErrNotOrderParty
		}
		if !canTransition(o.Status, target) {
			return ErrInvalidTransition
		}
		if !s.policy(o, requesterID, target) {
			return ErrForbiddenChange
		}
		if err := tx.Orders.UpdateStatus(ctx, o.ID, target); err != nil {
			return err
		}
		from = o.Status
		o.Status = target
		ord = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.PublishOrderStatusChanged(ctx, OrderStatusChangedEvent{
			OrderID:   ord.ID,
			From:      string(from),
			To:        string(target),
			ChangedAt: s.now(),
		})
	}
	return ord, nil
}

func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	buyerID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, id, buyerID, false)
}

// cancel restores every reserved quantity and marks the order cancelled in one
// atomic unit. It is deliberately not idempotent: a second call finds a
// non-pending order and fails, so stock is never restored twice.
func (s *orderService) cancel(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, viaPolicy bool) (*models.Order, error) {
	var ord *models.Order

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		o, err := tx.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return ErrOrderNotFound
		}
		if viaPolicy {
			if o.BuyerID != requesterID && o.SellerID != requesterID {
				return ErrNotOrderParty
			}
			if !s.policy(o, requesterID, models.OrderStatusCancelled) {
				return ErrForbiddenChange
			}
		} else if o.BuyerID != requesterID {
			return ErrNotOrderParty
		}
		if o.Status != models.OrderStatusPending {
			return ErrOrderNotCancellable
		}

		lines, err := tx.OrderLines.GetByOrderID(ctx, o.ID)
		if err != nil {
			return err
		}

		qtyByItem := make(map[uuid.UUID]int32, len(lines))
		ids := make([]uuid.UUID, 0, len(lines))
		for _, l := range lines {
			qtyByItem[l.ItemID] = l.Quantity
			ids = append(ids, l.ItemID)
		}
		// Same lock ordering discipline as order creation.
		sortUUIDs(ids)

		for _, itemID := range ids {
			ok, err := tx.Items.IncrementStock(ctx, itemID, qtyByItem[itemID])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("restore stock: item %s has no row", itemID)
			}
		}

		if err := tx.Orders.UpdateStatus(ctx, o.ID, models.OrderStatusCancelled); err != nil {
			return err
		}
		o.Status = models.OrderStatusCancelled
		o.Lines = lines
		ord = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.PublishOrderCancelled(ctx, OrderCancelledEvent{
			OrderID:     ord.ID,
			BuyerID:     ord.BuyerID,
			SellerID:    ord.SellerID,
			CancelledAt: s.now(),
		})
	}
	return ord, nil
}

func (s *orderService) GetStatistics(ctx context.Context) (*Statistics, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	placed, spent, err := s.repo.Orders.CountAndSum(ctx, "buyer_id", userID, true)
	if err != nil {
		return nil, err
	}
	received, earned, err := s.repo.Orders.CountAndSum(ctx, "seller_id", userID, true)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Orders.StatusBreakdown(ctx, userID)
	if err != nil {
		return nil, err
	}

	breakdown := make(map[models.OrderStatus]int64, len(rows))
	for _, r := range rows {
		breakdown[r.Status] = r.Count
	}
	return &Statistics{
		OrdersPlaced:    placed,
		CentsSpent:      spent,
		OrdersReceived:  received,
		CentsEarned:     earned,
		StatusBreakdown: breakdown,
	}, nil
}

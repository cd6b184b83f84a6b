package service

import (
	"context"

	"campus-market/internal/repository"

	"github.com/google/uuid"
)

// CartStore keeps per-user carts outside the database; entries expire with the
// session. Quantities are authoritative only at checkout, where the order
// engine re-validates everything under item locks.
type CartStore interface {
	GetCart(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int32, error)
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, qty int32) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type CartEntry struct {
	ItemID         uuid.UUID
	Title          string
	Quantity       int32
	UnitPriceCents int64
	LineTotalCents int64
	Stock          int32
	Available      bool // item still active and stock covers the quantity
}

type Cart struct {
	Entries    []CartEntry
	TotalCents int64
	TotalItems int32
}

type CartService interface {
	GetCart(ctx context.Context) (*Cart, error)
	AddToCart(ctx context.Context, itemID uuid.UUID, qty int32) error
	UpdateQuantity(ctx context.Context, itemID uuid.UUID, qty int32) error
	RemoveFromCart(ctx context.Context, itemID uuid.UUID) error
	ClearCart(ctx context.Context) error
}

type cartService struct {
	store CartStore
	repo  *repository.Repository
}

func NewCartService(store CartStore, repo *repository.Repository) CartService {
	return &cartService{store: store, repo: repo}
}

func (s *cartService) GetCart(ctx context.Context) (*Cart, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return &Cart{}, nil
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sortUUIDs(ids)

	items, err := s.repo.Items.BatchGetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]int, len(items))
	for i := range items {
		byID[items[i].ID] = i
	}

	cart := &Cart{Entries: make([]CartEntry, 0, len(ids))}
	for _, id := range ids {
		qty := entries[id]
		idx, found := byID[id]
		if !found {
			// Item was removed from the catalog; drop it from the cart.
			_ = s.store.Remove(ctx, userID, id)
			continue
		}
		it := items[idx]
		entry := CartEntry{
			ItemID:         id,
			Title:          it.Title,
			Quantity:       qty,
			UnitPriceCents: it.PriceCents,
			LineTotalCents: int64(qty) * it.PriceCents,
			Stock:          it.Stock,
			Available:      it.IsActive && it.Stock >= qty,
		}
		cart.Entries = append(cart.Entries, entry)
		cart.TotalCents += entry.LineTotalCents
		cart.TotalItems += qty
	}
	return cart, nil
}

func (s *cartService) AddToCart(ctx context.Context, itemID uuid.UUID, qty int32) error {
	userID, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	if qty < 1 {
		return ErrQuantityInvalid
	}

	it, err := s.repo.Items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it == nil {
		return ErrItemNotFound
	}
	if !it.IsActive {
		return ErrItemInactive
	}
	if it.SellerID == userID {
		return ErrSelfPurchase
	}

	cur, err := s.store.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	total := cur[itemID] + qty
	if it.Stock < total {
		return ErrInsufficientStock
	}
	return s.store.SetQuantity(ctx, userID, itemID, total)
}

func (s *cartService) UpdateQuantity(ctx context.Context, itemID uuid.UUID, qty int32) error {
	userID, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	if qty < 1 {
		return ErrQuantityInvalid
	}

	it, err := s.repo.Items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it == nil {
		return ErrItemNotFound
	}
	if it.Stock < qty {
		return ErrInsufficientStock
	}
	return s.store.SetQuantity(ctx, userID, itemID, qty)
}

func (s *cartService) RemoveFromCart(ctx context.Context, itemID uuid.UUID) error {
	userID, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	return s.store.Remove(ctx, userID, itemID)
}

func (s *cartService) ClearCart(ctx context.Context) error {
	userID, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	return s.store.Clear(ctx, userID)
}

package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"campus-market/internal/service"

	"github.com/google/uuid"
)

type fakeCartStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID]map[uuid.UUID]int32
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[uuid.UUID]map[uuid.UUID]int32)}
}

func (s *fakeCartStore) GetCart(_ context.Context, userID uuid.UUID) (map[uuid.UUID]int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uuid.UUID]int32, len(s.carts[userID]))
	for k, v := range s.carts[userID] {
		out[k] = v
	}
	return out, nil
}

func (s *fakeCartStore) SetQuantity(_ context.Context, userID, itemID uuid.UUID, qty int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.carts[userID] == nil {
		s.carts[userID] = make(map[uuid.UUID]int32)
	}
	s.carts[userID][itemID] = qty
	return nil
}

func (s *fakeCartStore) Remove(_ context.Context, userID, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts[userID], itemID)
	return nil
}

func (s *fakeCartStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

func TestAddToCart_Rules(t *testing.T) {
	f := newFakes()
	store := newFakeCartStore()
	svc := service.NewCartService(store, f.repo)

	buyer := uuid.New()
	seller := uuid.New()
	ctx := authedCtx(buyer)

	it := seedItem(f, seller, 1000, 3)

	if err := svc.AddToCart(context.Background(), it.ID, 1); !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("no auth: want ErrUnauthorized, got %v", err)
	}
	if err := svc.AddToCart(ctx, it.ID, 0); !errors.Is(err, service.ErrQuantityInvalid) {
		t.Fatalf("zero qty: want ErrQuantityInvalid, got %v", err)
	}
	if err := svc.AddToCart(ctx, uuid.New(), 1); !errors.Is(err, service.ErrItemNotFound) {
		t.Fatalf("unknown item: want ErrItemNotFound, got %v", err)
	}

	own := seedItem(f, buyer, 1000, 3)
	if err := svc.AddToCart(ctx, own.ID, 1); !errors.Is(err, service.ErrSelfPurchase) {
		t.Fatalf("own item: want ErrSelfPurchase, got %v", err)
	}

	dead := seedItem(f, seller, 1000, 3)
	dead.IsActive = false
	f.items.put(dead)
	if err := svc.AddToCart(ctx, dead.ID, 1); !errors.Is(err, service.ErrItemInactive) {
		t.Fatalf("inactive item: want ErrItemInactive, got %v", err)
	}

	// Cumulative quantity is checked against stock.
	if err := svc.AddToCart(ctx, it.ID, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := svc.AddToCart(ctx, it.ID, 2); !errors.Is(err, service.ErrInsufficientStock) {
		t.Fatalf("cumulative overflow: want ErrInsufficientStock, got %v", err)
	}
	if err := svc.AddToCart(ctx, it.ID, 1); err != nil {
		t.Fatalf("add to limit: %v", err)
	}
}

func TestGetCart_TotalsAndAvailability(t *testing.T) {
	f := newFakes()
	store := newFakeCartStore()
	svc := service.NewCartService(store, f.repo)

	buyer := uuid.New()
	seller := uuid.New()
	ctx := authedCtx(buyer)

	book := seedItem(f, seller, 4550, 10)
	lamp := seedItem(f, seller, 1200, 1)

	if err := svc.AddToCart(ctx, book.ID, 2); err != nil {
		t.Fatalf("add book: %v", err)
	}
	if err := svc.AddToCart(ctx, lamp.ID, 1); err != nil {
		t.Fatalf("add lamp: %v", err)
	}

	// Stock drops under the carted quantity; the entry flips to unavailable.
	lamp.Stock = 0
	f.items.put(lamp)

	cart, err := svc.GetCart(ctx)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if len(cart.Entries) != 2 {
		t.Fatalf("entries: want 2, got %d", len(cart.Entries))
	}
	if cart.TotalCents != 2*4550+1200 {
		t.Fatalf("total: want %d, got %d", 2*4550+1200, cart.TotalCents)
	}
	if cart.TotalItems != 3 {
		t.Fatalf("total items: want 3, got %d", cart.TotalItems)
	}
	for _, e := range cart.Entries {
		if e.ItemID == lamp.ID && e.Available {
			t.Fatalf("lamp should be unavailable: %+v", e)
		}
		if e.ItemID == book.ID && !e.Available {
			t.Fatalf("book should be available: %+v", e)
		}
	}
}

func TestCart_RemoveAndClear(t *testing.T) {
	f := newFakes()
	store := newFakeCartStore()
	svc := service.NewCartService(store, f.repo)

	buyer := uuid.New()
	ctx := authedCtx(buyer)
	it := seedItem(f, uuid.New(), 1000, 5)

	if err := svc.AddToCart(ctx, it.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.UpdateQuantity(ctx, it.ID, 4); err != nil {
		t.Fatalf("update qty: %v", err)
	}
	if err := svc.UpdateQuantity(ctx, it.ID, 6); !errors.Is(err, service.ErrInsufficientStock) {
		t.Fatalf("qty over stock: want ErrInsufficientStock, got %v", err)
	}
	if err := svc.RemoveFromCart(ctx, it.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	cart, err := svc.GetCart(ctx)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if len(cart.Entries) != 0 {
		t.Fatalf("cart not empty after remove: %+v", cart.Entries)
	}

	if err := svc.AddToCart(ctx, it.ID, 1); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if err := svc.ClearCart(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cart, _ = svc.GetCart(ctx)
	if len(cart.Entries) != 0 {
		t.Fatalf("cart not empty after clear")
	}
}

func TestGetCart_DropsVanishedItems(t *testing.T) {
	f := newFakes()
	store := newFakeCartStore()
	svc := service.NewCartService(store, f.repo)

	buyer := uuid.New()
	ctx := authedCtx(buyer)

	// Entry points at an item that no longer exists in the catalog.
	ghost := uuid.New()
	if err := store.SetQuantity(context.Background(), buyer, ghost, 2); err != nil {
		t.Fatalf("seed ghost entry: %v", err)
	}

	cart, err := svc.GetCart(ctx)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if len(cart.Entries) != 0 || cart.TotalCents != 0 {
		t.Fatalf("ghost entry survived: %+v", cart)
	}
	raw, _ := store.GetCart(context.Background(), buyer)
	if len(raw) != 0 {
		t.Fatalf("ghost entry not pruned from store: %+v", raw)
	}
}

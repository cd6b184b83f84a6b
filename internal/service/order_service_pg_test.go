package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"campus-market/internal/migrate"
	"campus-market/internal/models"
	"campus-market/internal/repository"
	"campus-market/internal/service"
	"campus-market/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// End-to-end coverage of the order engine over a real postgres, where the
// FOR UPDATE locks and guarded stock updates actually run.

func setupEngine(t *testing.T) (*repository.Repository, service.OrderService) {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateMarketDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := repository.New(db)
	return repo, service.NewOrderService(repo, nil, 0, nil)
}

func pgSeedItem(t *testing.T, repo *repository.Repository, sellerID uuid.UUID, price int64, stock int32) *models.Item {
	t.Helper()
	it := &models.Item{
		SellerID:   sellerID,
		Title:      "desk lamp",
		PriceCents: price,
		Stock:      stock,
		IsActive:   true,
	}
	if err := repo.Items.Create(context.Background(), it); err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return it
}

func pgSeedAddress(t *testing.T, repo *repository.Repository, userID uuid.UUID) *models.Address {
	t.Helper()
	a := &models.Address{UserID: userID, Recipient: "Ivan", Phone: "+7900", Detail: "Dorm 2"}
	if err := repo.Addresses.Create(context.Background(), a); err != nil {
		t.Fatalf("seed address: %v", err)
	}
	return a
}

func TestEngine_ConcurrentBuyersLastUnit(t *testing.T) {
	if testing.Short() {
		t.Skip("container test")
	}
	repo, svc := setupEngine(t)

	seller := uuid.New()
	it := pgSeedItem(t, repo, seller, 1000, 1)

	const buyers = 4
	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		buyer := uuid.New()
		addr := pgSeedAddress(t, repo, buyer)
		wg.Add(1)
		go func(i int, buyer, addrID uuid.UUID) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(authedCtx(buyer), []service.LineRequest{{ItemID: it.ID, Quantity: 1}}, addrID)
		}(i, buyer, addr.ID)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, service.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || insufficient != buyers-1 {
		t.Fatalf("want one winner, got ok=%d insufficient=%d", ok, insufficient)
	}

	got, err := repo.Items.GetByID(context.Background(), it.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("stock: want 0, got %d", got.Stock)
	}
}

func TestEngine_CreateThenCancelRestoresStock(t *testing.T) {
	if testing.Short() {
		t.Skip("container test")
	}
	repo, svc := setupEngine(t)

	buyer := uuid.New()
	seller := uuid.New()
	it := pgSeedItem(t, repo, seller, 4550, 5)
	addr := pgSeedAddress(t, repo, buyer)

	ord, err := svc.CreateOrder(authedCtx(buyer), []service.LineRequest{{ItemID: it.ID, Quantity: 2}}, addr.ID)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if ord.TotalCents != 9100 {
		t.Fatalf("total: want 9100, got %d", ord.TotalCents)
	}

	got, _ := repo.Items.GetByID(context.Background(), it.ID)
	if got.Stock != 3 {
		t.Fatalf("stock after create: want 3, got %d", got.Stock)
	}

	cancelled, err := svc.CancelOrder(authedCtx(buyer), ord.ID)
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if cancelled.Status != models.OrderStatusCancelled {
		t.Fatalf("status: want cancelled, got %s", cancelled.Status)
	}
	got, _ = repo.Items.GetByID(context.Background(), it.ID)
	if got.Stock != 5 {
		t.Fatalf("stock after cancel: want 5, got %d", got.Stock)
	}

	if _, err := svc.CancelOrder(authedCtx(buyer), ord.ID); !errors.Is(err, service.ErrOrderNotCancellable) {
		t.Fatalf("double cancel: want ErrOrderNotCancellable, got %v", err)
	}
}

func TestEngine_ConcurrentCancelRestoresOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("container test")
	}
	repo, svc := setupEngine(t)

	buyer := uuid.New()
	seller := uuid.New()
	it := pgSeedItem(t, repo, seller, 1000, 5)
	addr := pgSeedAddress(t, repo, buyer)

	ord, err := svc.CreateOrder(authedCtx(buyer), []service.LineRequest{{ItemID: it.ID, Quantity: 3}}, addr.ID)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	const attempts = 4
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CancelOrder(authedCtx(buyer), ord.ID)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, service.ErrOrderNotCancellable):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("want exactly one successful cancel, got %d", ok)
	}

	got, _ := repo.Items.GetByID(context.Background(), it.ID)
	if got.Stock != 5 {
		t.Fatalf("stock restored more than once: want 5, got %d", got.Stock)
	}
}

func TestEngine_MultiItemLockOrdering(t *testing.T) {
	if testing.Short() {
		t.Skip("container test")
	}
	repo, svc := setupEngine(t)

	seller := uuid.New()
	a := pgSeedItem(t, repo, seller, 1000, 10)
	b := pgSeedItem(t, repo, seller, 2000, 10)

	// Buyers hit the same two items in opposite request order. Deterministic
	// lock ordering keeps the transactions from deadlocking.
	const rounds = 5
	var wg sync.WaitGroup
	errs := make([]error, rounds*2)
	for i := 0; i < rounds; i++ {
		b1 := uuid.New()
		b2 := uuid.New()
		addr1 := pgSeedAddress(t, repo, b1)
		addr2 := pgSeedAddress(t, repo, b2)
		wg.Add(2)
		go func(i int, buyer, addrID uuid.UUID) {
			defer wg.Done()
			_, errs[i*2] = svc.CreateOrder(authedCtx(buyer), []service.LineRequest{
				{ItemID: a.ID, Quantity: 1},
				{ItemID: b.ID, Quantity: 1},
			}, addrID)
		}(i, b1, addr1.ID)
		go func(i int, buyer, addrID uuid.UUID) {
			defer wg.Done()
			_, errs[i*2+1] = svc.CreateOrder(authedCtx(buyer), []service.LineRequest{
				{ItemID: b.ID, Quantity: 1},
				{ItemID: a.ID, Quantity: 1},
			}, addrID)
		}(i, b2, addr2.ID)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			t.Fatalf("cross-order create failed: %v", err)
		}
	}

	gotA, _ := repo.Items.GetByID(context.Background(), a.ID)
	gotB, _ := repo.Items.GetByID(context.Background(), b.ID)
	if gotA.Stock != 0 || gotB.Stock != 0 {
		t.Fatalf("stock: want 0/0, got %d/%d", gotA.Stock, gotB.Stock)
	}
}

package service_test

import (
	"context"
	"sync"

	"campus-market/internal/models"
	"campus-market/internal/repository"

	"github.com/google/uuid"
)

// Stateful in-memory doubles for the repo interfaces. WithTx on a Repository
// without a DB runs the callback directly, so these fakes let the services run
// end-to-end without postgres. A shared mutex stands in for row locking:
// concurrency tests exercise the guarded stock updates, not lock waits.

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*models.Item)}
}

func (f *fakeItemRepo) put(it *models.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	cp := *it
	f.items[it.ID] = &cp
}

func (f *fakeItemRepo) stock(id uuid.UUID) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if it, ok := f.items[id]; ok {
		return it.Stock
	}
	return -1
}

func (f *fakeItemRepo) Create(_ context.Context, it *models.Item) error {
	f.put(it)
	return nil
}

func (f *fakeItemRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if it, ok := f.items[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeItemRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeItemRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "title":
			it.Title = v.(string)
		case "description":
			it.Description = v.(string)
		case "category":
			it.Category = v.(string)
		case "price_cents":
			it.PriceCents = v.(int64)
		case "is_active":
			it.IsActive = v.(bool)
		}
	}
	return nil
}

func (f *fakeItemRepo) List(_ context.Context, _ repository.ItemListFilter) ([]models.Item, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, *it)
	}
	return out, int64(len(out)), nil
}

func (f *fakeItemRepo) BatchGetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := f.items[id]; ok {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) DecrementStock(_ context.Context, id uuid.UUID, qty int32) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok || it.Stock < qty {
		return false, nil
	}
	it.Stock -= qty
	return true, nil
}

func (f *fakeItemRepo) IncrementStock(_ context.Context, id uuid.UUID, qty int32) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return false, nil
	}
	it.Stock += qty
	return true, nil
}

func (f *fakeItemRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int32) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok || it.Stock+delta < 0 {
		return false, nil
	}
	it.Stock += delta
	return true, nil
}

type fakeAddressRepo struct {
	mu    sync.Mutex
	addrs map[uuid.UUID]*models.Address
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addrs: make(map[uuid.UUID]*models.Address)}
}

func (f *fakeAddressRepo) Create(_ context.Context, a *models.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	f.addrs[a.ID] = &cp
	return nil
}

func (f *fakeAddressRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.addrs[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeAddressRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Address
	for _, a := range f.addrs {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAddressRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.addrs[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "recipient":
			a.Recipient = v.(string)
		case "phone":
			a.Phone = v.(string)
		case "detail":
			a.Detail = v.(string)
		case "is_default":
			a.IsDefault = v.(bool)
		}
	}
	return nil
}

func (f *fakeAddressRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.addrs[id]; !ok {
		return false, nil
	}
	delete(f.addrs, id)
	return true, nil
}

func (f *fakeAddressRepo) ClearDefault(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.addrs {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.Order
	lines  *fakeOrderLineRepo
}

func newFakeOrderRepo(lines *fakeOrderLineRepo) *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*models.Order), lines: lines}
}

func (f *fakeOrderRepo) Create(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	cp := *o
	cp.Lines = nil
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	f.mu.Lock()
	o, ok := f.orders[id]
	if !ok {
		f.mu.Unlock()
		return nil, nil
	}
	cp := *o
	f.mu.Unlock()

	lines, err := f.lines.GetByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}
	cp.Lines = lines
	return &cp, nil
}

func (f *fakeOrderRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (f *fakeOrderRepo) List(_ context.Context, flt repository.OrderListFilter) ([]models.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if flt.BuyerID != nil && o.BuyerID != *flt.BuyerID {
			continue
		}
		if flt.SellerID != nil && o.SellerID != *flt.SellerID {
			continue
		}
		if flt.Status != nil && o.Status != *flt.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) CountAndSum(_ context.Context, column string, userID uuid.UUID, excludeCancelled bool) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count, sum int64
	for _, o := range f.orders {
		var match bool
		switch column {
		case "buyer_id":
			match = o.BuyerID == userID
		case "seller_id":
			match = o.SellerID == userID
		}
		if !match {
			continue
		}
		if excludeCancelled && o.Status == models.OrderStatusCancelled {
			continue
		}
		count++
		sum += o.TotalCents
	}
	return count, sum, nil
}

func (f *fakeOrderRepo) StatusBreakdown(_ context.Context, buyerID uuid.UUID) ([]repository.StatusCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc := make(map[models.OrderStatus]int64)
	for _, o := range f.orders {
		if o.BuyerID == buyerID {
			acc[o.Status]++
		}
	}
	out := make([]repository.StatusCount, 0, len(acc))
	for st, n := range acc {
		out = append(out, repository.StatusCount{Status: st, Count: n})
	}
	return out, nil
}

func (f *fakeOrderRepo) HasCompletedLine(ctx context.Context, buyerID, itemID uuid.UUID) (uuid.UUID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, o := range f.orders {
		if o.BuyerID != buyerID || o.Status != models.OrderStatusCompleted {
			continue
		}
		for _, l := range f.lines.byOrder(id) {
			if l.ItemID == itemID {
				return id, true, nil
			}
		}
	}
	return uuid.Nil, false, nil
}

type fakeOrderLineRepo struct {
	mu    sync.Mutex
	lines []models.OrderLine
}

func newFakeOrderLineRepo() *fakeOrderLineRepo { return &fakeOrderLineRepo{} }

func (f *fakeOrderLineRepo) byOrder(orderID uuid.UUID) []models.OrderLine {
	var out []models.OrderLine
	for _, l := range f.lines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out
}

func (f *fakeOrderLineRepo) BulkCreate(_ context.Context, lines []models.OrderLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
	}
	f.lines = append(f.lines, lines...)
	return nil
}

func (f *fakeOrderLineRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byOrder(orderID), nil
}

func (f *fakeOrderLineRepo) SumByOrder(_ context.Context, orderID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, l := range f.byOrder(orderID) {
		sum += l.LineTotalCents
	}
	return sum, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []models.Review
}

func newFakeReviewRepo() *fakeReviewRepo { return &fakeReviewRepo{} }

func (f *fakeReviewRepo) Create(_ context.Context, rev *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.ItemID == rev.ItemID && r.OrderID == rev.OrderID && r.ReviewerID == rev.ReviewerID {
			return repository.ErrDuplicateKey
		}
	}
	if rev.ID == uuid.Nil {
		rev.ID = uuid.New()
	}
	f.reviews = append(f.reviews, *rev)
	return nil
}

func (f *fakeReviewRepo) ListByItem(_ context.Context, itemID uuid.UUID, limit, offset int) ([]models.Review, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.Review
	for _, r := range f.reviews {
		if r.ItemID == itemID {
			all = append(all, r)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (f *fakeReviewRepo) SellerRating(_ context.Context, _ uuid.UUID) (float64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.reviews) == 0 {
		return 0, 0, nil
	}
	var sum int64
	for _, r := range f.reviews {
		sum += int64(r.Rating)
	}
	return float64(sum) / float64(len(f.reviews)), int64(len(f.reviews)), nil
}

type fakeFavoriteRepo struct {
	mu   sync.Mutex
	favs []models.Favorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo { return &fakeFavoriteRepo{} }

func (f *fakeFavoriteRepo) Add(_ context.Context, fav *models.Favorite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.favs {
		if x.UserID == fav.UserID && x.ItemID == fav.ItemID {
			return repository.ErrDuplicateKey
		}
	}
	if fav.ID == uuid.Nil {
		fav.ID = uuid.New()
	}
	f.favs = append(f.favs, *fav)
	return nil
}

func (f *fakeFavoriteRepo) Remove(_ context.Context, userID, itemID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, x := range f.favs {
		if x.UserID == userID && x.ItemID == itemID {
			f.favs = append(f.favs[:i], f.favs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFavoriteRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Favorite
	for _, x := range f.favs {
		if x.UserID == userID {
			out = append(out, x)
		}
	}
	return out, nil
}

func (f *fakeFavoriteRepo) Exists(_ context.Context, userID, itemID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.favs {
		if x.UserID == userID && x.ItemID == itemID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFavoriteRepo) CountByItem(_ context.Context, itemID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, x := range f.favs {
		if x.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

type fakes struct {
	repo      *repository.Repository
	items     *fakeItemRepo
	addrs     *fakeAddressRepo
	orders    *fakeOrderRepo
	lines     *fakeOrderLineRepo
	reviews   *fakeReviewRepo
	favorites *fakeFavoriteRepo
}

// newFakes wires the doubles into a Repository without a DB, so WithTx runs
// callbacks directly.
func newFakes() *fakes {
	items := newFakeItemRepo()
	addrs := newFakeAddressRepo()
	lines := newFakeOrderLineRepo()
	orders := newFakeOrderRepo(lines)
	reviews := newFakeReviewRepo()
	favorites := newFakeFavoriteRepo()
	return &fakes{
		repo: &repository.Repository{
			Items:      items,
			Addresses:  addrs,
			Orders:     orders,
			OrderLines: lines,
			Reviews:    reviews,
			Favorites:  favorites,
		},
		items:     items,
		addrs:     addrs,
		orders:    orders,
		lines:     lines,
		reviews:   reviews,
		favorites: favorites,
	}
}

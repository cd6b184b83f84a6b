package service

import (
	"context"
	"strings"
	"time"

	"campus-market/internal/models"
	"campus-market/internal/repository"

	"github.com/google/uuid"
)

type ItemInput struct {
	Title       string
	Description string
	Category    string
	PriceCents  int64
	Stock       int32
}

type ItemPatch struct {
	Title       *string
	Description *string
	Category    *string
	PriceCents  *int64
	IsActive    *bool
}

type ItemListFilter struct {
	SellerID   *uuid.UUID
	Category   string
	Query      string
	OnlyActive *bool
	Limit      int
	Offset     int
}

type StockStatus struct {
	ItemID    uuid.UUID
	Stock     int32
	IsActive  bool
	Available bool
}

// ItemCache is a read-through cache over single-item lookups. A nil cache
// disables caching.
type ItemCache interface {
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, bool)
	SetItem(ctx context.Context, it *models.Item)
	DeleteItem(ctx context.Context, id uuid.UUID)
}

type CatalogService interface {
	CreateItem(ctx context.Context, in ItemInput) (*models.Item, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, patch ItemPatch) (*models.Item, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error)
	ListItems(ctx context.Context, f ItemListFilter) ([]models.Item, int64, error)
	// DeactivateItem soft-deletes: the item stays referenceable by historical
	// order lines but is no longer purchasable.
	DeactivateItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error)
	// AdjustStock applies an out-of-band stock correction by the seller.
	AdjustStock(ctx context.Context, itemID uuid.UUID, delta int32) (*models.Item, error)
	CheckStock(ctx context.Context, ids []uuid.UUID) ([]StockStatus, error)
}

type catalogService struct {
	repo  *repository.Repository
	cache ItemCache
	now   func() time.Time
}

func NewCatalogService(repo *repository.Repository, cache ItemCache) CatalogService {
	return &catalogService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

func (s *catalogService) CreateItem(ctx context.Context, in ItemInput) (*models.Item, error) {
	sellerID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if in.PriceCents <= 0 {
		return nil, ErrPriceInvalid
	}
	if in.Stock < 0 {
		return nil, ErrQuantityInvalid
	}

	now := s.now()
	it := &models.Item{
		SellerID:    sellerID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Items.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *catalogService) UpdateItem(ctx context.Context, itemID uuid.UUID, patch ItemPatch) (*models.Item, error) {
	sellerID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	it, err := s.repo.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrItemNotFound
	}
	if it.SellerID != sellerID {
		return nil, ErrNotItemOwner
	}

	fields := map[string]any{}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, ErrTitleRequired
		}
		fields["title"] = t
	}
	if patch.Description != nil {
		fields["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		fields["category"] = strings.TrimSpace(*patch.Category)
	}
	if patch.PriceCents != nil {
		if *patch.PriceCents <= 0 {
			return nil, ErrPriceInvalid
		}
		fields["price_cents"] = *patch.PriceCents
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}

	if len(fields) == 0 {
		return it, nil
	}
	fields["updated_at"] = s.now()

	if err := s.repo.Items.UpdateFields(ctx, itemID, fields); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.DeleteItem(ctx, itemID)
	}
	return s.repo.Items.GetByID(ctx, itemID)
}

func (s *catalogService) GetItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	if s.cache != nil {
		if it, ok := s.cache.GetItem(ctx, itemID); ok {
			return it, nil
		}
	}

	it, err := s.repo.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrItemNotFound
	}
	if s.cache != nil {
		s.cache.SetItem(ctx, it)
	}
	return it, nil
}

func (s *catalogService) ListItems(ctx context.Context, f ItemListFilter) ([]models.Item, int64, error) {
	return s.repo.Items.List(ctx, repository.ItemListFilter{
		SellerID:   f.SellerID,
		Category:   f.Category,
		Query:      f.Query,
		OnlyActive: f.OnlyActive,
		Limit:      f.Limit,
		Offset:     f.Offset,
	})
}

func (s *catalogService) DeactivateItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	inactive := false
	return s.UpdateItem(ctx, itemID, ItemPatch{IsActive: &inactive})
}

func (s *catalogService) AdjustStock(ctx context.Context, itemID uuid.UUID, delta int32) (*models.Item, error) {
	sellerID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	it, err := s.repo.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrItemNotFound
	}
	if it.SellerID != sellerID {
		return nil, ErrNotItemOwner
	}

	ok, err := s.repo.Items.AdjustStock(ctx, itemID, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientStock
	}
	if s.cache != nil {
		s.cache.DeleteItem(ctx, itemID)
	}
	return s.repo.Items.GetByID(ctx, itemID)
}

func (s *catalogService) CheckStock(ctx context.Context, ids []uuid.UUID) ([]StockStatus, error) {
	items, err := s.repo.Items.BatchGetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	out := make([]StockStatus, 0, len(ids))
	for _, id := range ids {
		it, found := byID[id]
		if !found {
			out = append(out, StockStatus{ItemID: id})
			continue
		}
		out = append(out, StockStatus{
			ItemID:    id,
			Stock:     it.Stock,
			IsActive:  it.IsActive,
			Available: it.IsActive && it.Stock > 0,
		})
	}
	return out, nil
}

package repository

import (
	"context"
	"errors"
	"strings"

	"campus-market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemListFilter struct {
	SellerID   *uuid.UUID
	Category   string
	Query      string // matched against title/description
	OnlyActive *bool
	Limit      int
	Offset     int
}

type ItemRepo interface {
	Create(ctx context.Context, it *models.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	// GetForUpdate reads the item row under an exclusive row lock. Must be
	// called inside WithTx; the lock is held until the transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Item, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	List(ctx context.Context, f ItemListFilter) ([]models.Item, int64, error)
	BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error)

	// DecrementStock subtracts qty if and only if stock >= qty.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int32) (bool, error)
	// IncrementStock adds qty back; never fails on the quantity itself.
	IncrementStock(ctx context.Context, id uuid.UUID, qty int32) (bool, error)
	// AdjustStock applies a signed delta, refusing to go below zero.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int32) (bool, error)
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepo(db *gorm.DB) ItemRepo { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, it *models.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *itemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var it models.Item
	err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &it, err
}

func (r *itemRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var it models.Item
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&it, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &it, err
}

func (r *itemRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Updates(fields).Error
}

func (r *itemRepo) List(ctx context.Context, f ItemListFilter) ([]models.Item, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Item{})

	if f.SellerID != nil {
		q = q.Where("seller_id = ?", *f.SellerID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.OnlyActive != nil {
		q = q.Where("is_active = ?", *f.OnlyActive)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		q = q.Where("lower(title) LIKE lower(?) OR lower(description) LIKE lower(?)", "%"+s+"%", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.Item
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	return list, total, err
}

func (r *itemRepo) BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.Item
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *itemRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE items
SET stock = stock - @q,
    updated_at = now()
WHERE id = @id
  AND stock >= @q
`, map[string]any{
		"id": id,
		"q":  qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *itemRepo) IncrementStock(ctx context.Context, id uuid.UUID, qty int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE items
SET stock = stock + @q,
    updated_at = now()
WHERE id = @id
`, map[string]any{
		"id": id,
		"q":  qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *itemRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE items
SET stock = stock + @delta,
    updated_at = now()
WHERE id = @id
  AND stock + @delta >= 0
`, map[string]any{
		"id":    id,
		"delta": delta,
	})
	return tx.RowsAffected > 0, tx.Error
}

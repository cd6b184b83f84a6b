package repository

import (
	"context"
	"errors"

	"campus-market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderListFilter struct {
	BuyerID  *uuid.UUID
	SellerID *uuid.UUID
	Status   *models.OrderStatus
	Limit    int
	Offset   int
}

// StatusCount is one row of a per-status order breakdown.
type StatusCount struct {
	Status models.OrderStatus
	Count  int64
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// GetForUpdate locks the order row without preloading lines; used to
	// serialize concurrent lifecycle transitions on the same order.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error)

	CountAndSum(ctx context.Context, column string, userID uuid.UUID, excludeCancelled bool) (int64, int64, error)
	StatusBreakdown(ctx context.Context, buyerID uuid.UUID) ([]StatusCount, error)
	// HasCompletedLine reports whether the buyer has a completed order that
	// contains the given item.
	HasCompletedLine(ctx context.Context, buyerID, itemID uuid.UUID) (uuid.UUID, bool, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Omit("Lines").Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Lines").First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})

	if f.BuyerID != nil {
		q = q.Where("buyer_id = ?", *f.BuyerID)
	}
	if f.SellerID != nil {
		q = q.Where("seller_id = ?", *f.SellerID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.Order
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Preload("Lines").Find(&list).Error
	return list, total, err
}

func (r *orderRepo) CountAndSum(ctx context.Context, column string, userID uuid.UUID, excludeCancelled bool) (int64, int64, error) {
	if column != "buyer_id" && column != "seller_id" {
		return 0, 0, errors.New("repository: unsupported order owner column")
	}

	type aggRow struct {
		Cnt        int64
		TotalCents int64
	}
	q := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COUNT(*) AS cnt, COALESCE(SUM(total_cents),0) AS total_cents").
		Where(column+" = ?", userID)
	if excludeCancelled {
		q = q.Where("status <> ?", models.OrderStatusCancelled)
	}

	var res aggRow
	err := q.Scan(&res).Error
	return res.Cnt, res.TotalCents, err
}

func (r *orderRepo) StatusBreakdown(ctx context.Context, buyerID uuid.UUID) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("buyer_id = ?", buyerID).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *orderRepo) HasCompletedLine(ctx context.Context, buyerID, itemID uuid.UUID) (uuid.UUID, bool, error) {
	type row struct{ OrderID uuid.UUID }
	var res row
	err := r.db.WithContext(ctx).Model(&models.OrderLine{}).
		Select("order_lines.order_id").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("orders.buyer_id = ? AND orders.status = ? AND order_lines.item_id = ?",
			buyerID, models.OrderStatusCompleted, itemID).
		Limit(1).
		Scan(&res).Error
	if err != nil {
		return uuid.Nil, false, err
	}
	if res.OrderID == uuid.Nil {
		return uuid.Nil, false, nil
	}
	return res.OrderID, true, nil
}

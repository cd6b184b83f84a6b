package repository

import (
	"context"
	"errors"

	"campus-market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDuplicateKey = errors.New("repository: duplicate key")

type ReviewRepo interface {
	Create(ctx context.Context, rev *models.Review) error
	ListByItem(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]models.Review, int64, error)
	// SellerRating averages ratings across all reviews of the seller's items.
	SellerRating(ctx context.Context, sellerID uuid.UUID) (float64, int64, error)
}

type reviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) ReviewRepo { return &reviewRepo{db: db} }

func (r *reviewRepo) Create(ctx context.Context, rev *models.Review) error {
	err := r.db.WithContext(ctx).Create(rev).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (r *reviewRepo) ListByItem(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]models.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("item_id = ?", itemID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var list []models.Review
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *reviewRepo) SellerRating(ctx context.Context, sellerID uuid.UUID) (float64, int64, error) {
	type aggRow struct {
		Avg float64
		Cnt int64
	}
	var res aggRow
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(reviews.rating),0) AS avg, COUNT(*) AS cnt").
		Joins("JOIN items ON items.id = reviews.item_id").
		Where("items.seller_id = ?", sellerID).
		Scan(&res).Error
	return res.Avg, res.Cnt, err
}

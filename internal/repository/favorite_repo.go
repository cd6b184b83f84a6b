package repository

import (
	"context"
	"errors"

	"campus-market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteRepo interface {
	Add(ctx context.Context, f *models.Favorite) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error)
	Exists(ctx context.Context, userID, itemID uuid.UUID) (bool, error)
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
}

type favoriteRepo struct{ db *gorm.DB }

func NewFavoriteRepo(db *gorm.DB) FavoriteRepo { return &favoriteRepo{db: db} }

func (r *favoriteRepo) Add(ctx context.Context, f *models.Favorite) error {
	err := r.db.WithContext(ctx).Create(f).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (r *favoriteRepo) Remove(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Delete(&models.Favorite{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *favoriteRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	var list []models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *favoriteRepo) Exists(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *favoriteRepo) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("item_id = ?", itemID).
		Count(&cnt).Error
	return cnt, err
}

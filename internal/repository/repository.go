package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB         *gorm.DB
	Items      ItemRepo
	Addresses  AddressRepo
	Orders     OrderRepo
	OrderLines OrderLineRepo
	Reviews    ReviewRepo
	Favorites  FavoriteRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Items:      NewItemRepo(db),
		Addresses:  NewAddressRepo(db),
		Orders:     NewOrderRepo(db),
		OrderLines: NewOrderLineRepo(db),
		Reviews:    NewReviewRepo(db),
		Favorites:  NewFavoriteRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx runs fn inside a single database transaction; every repo reachable
// from tx operates on that transaction, so row locks taken through it are held
// until commit or rollback. A Repository assembled without a DB (in-memory
// test doubles) runs fn against itself.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.DB == nil {
		return fn(r)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}

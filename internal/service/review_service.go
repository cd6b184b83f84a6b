package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"campus-market/internal/models"
	"campus-market/internal/repository"

	"github.com/google/uuid"
)

type ReviewInput struct {
	ItemID  uuid.UUID
	Rating  int32
	Comment string
}

type SellerRating struct {
	SellerID uuid.UUID
	Average  float64
	Count    int64
}

type ReviewService interface {
	// CreateReview accepts a review only from a buyer with a completed order
	// containing the item, once per order line.
	CreateReview(ctx context.Context, in ReviewInput) (*models.Review, error)
	ListByItem(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]models.Review, int64, error)
	GetSellerRating(ctx context.Context, sellerID uuid.UUID) (*SellerRating, error)
}

type FavoriteService interface {
	AddFavorite(ctx context.Context, itemID uuid.UUID) error
	RemoveFavorite(ctx context.Context, itemID uuid.UUID) (bool, error)
	ListFavorites(ctx context.Context) ([]models.Item, error)
	CountForItem(ctx context.Context, itemID uuid.UUID) (int64, error)
}

type reviewService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewReviewService(repo *repository.Repository) ReviewService {
	return &reviewService{repo: repo, now: time.Now}
}

func (s *reviewService) CreateReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	reviewerID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrRatingInvalid
	}

	it, err := s.repo.Items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrItemNotFound
	}

	orderID, ok, err := s.repo.Orders.HasCompletedLine(ctx, reviewerID, in.ItemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrReviewNotAllowed
	}

	rev := &models.Review{
		ItemID:     in.ItemID,
		OrderID:    orderID,
		ReviewerID: reviewerID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		CreatedAt:  s.now(),
	}
	if err := s.repo.Reviews.Create(ctx, rev); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return rev, nil
}

func (s *reviewService) ListByItem(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]models.Review, int64, error) {
	return s.repo.Reviews.ListByItem(ctx, itemID, limit, offset)
}

func (s *reviewService) GetSellerRating(ctx context.Context, sellerID uuid.UUID) (*SellerRating, error) {
	avg, cnt, err := s.repo.Reviews.SellerRating(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return &SellerRating{SellerID: sellerID, Average: avg, Count: cnt}, nil
}

type favoriteService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewFavoriteService(repo *repository.Repository) FavoriteService {
	return &favoriteService{repo: repo, now: time.Now}
}

func (s *favoriteService) AddFavorite(ctx context.Context, itemID uuid.UUID) error {
	userID, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	it, err := s.repo.Items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it == nil {
		return ErrItemNotFound
	}

	err = s.repo.Favorites.Add(ctx, &models.Favorite{
		UserID:    userID,
		ItemID:    itemID,
		CreatedAt: s.now(),
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		return ErrAlreadyFavorited
	}
	return err
}

func (s *favoriteService) RemoveFavorite(ctx context.Context, itemID uuid.UUID) (bool, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return false, err
	}
	return s.repo.Favorites.Remove(ctx, userID, itemID)
}

func (s *favoriteService) ListFavorites(ctx context.Context) ([]models.Item, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	favs, err := s.repo.Favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(favs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.ItemID)
	}
	return s.repo.Items.BatchGetByIDs(ctx, ids)
}

func (s *favoriteService) CountForItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	return s.repo.Favorites.CountByItem(ctx, itemID)
}

package http

import (
	"net/http"
	"time"

	"campus-market/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	reviews   service.ReviewService
	favorites service.FavoriteService
	log       *zap.Logger
}

func NewReviewHandler(reviews service.ReviewService, favorites service.FavoriteService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, favorites: favorites, log: log}
}

type reviewResponse struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"item_id"`
	OrderID    uuid.UUID `json:"order_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Rating     int32     `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	rev, err := h.reviews.CreateReview(c.Request.Context(), service.ReviewInput{
		ItemID:  req.ItemID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, reviewResponse{
		ID:         rev.ID,
		ItemID:     rev.ItemID,
		OrderID:    rev.OrderID,
		ReviewerID: rev.ReviewerID,
		Rating:     rev.Rating,
		Comment:    rev.Comment,
		CreatedAt:  rev.CreatedAt,
	})
}

func (h *ReviewHandler) ListByItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid item id"))
		return
	}

	limit := atoiQuery(c, "limit", 20)
	offset := atoiQuery(c, "offset", 0)

	revs, total, err := h.reviews.ListByItem(c.Request.Context(), itemID, limit, offset)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	out := make([]reviewResponse, 0, len(revs))
	for _, r := range revs {
		out = append(out, reviewResponse{
			ID:         r.ID,
			ItemID:     r.ItemID,
			OrderID:    r.OrderID,
			ReviewerID: r.ReviewerID,
			Rating:     r.Rating,
			Comment:    r.Comment,
			CreatedAt:  r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": out, "total": total})
}

func (h *ReviewHandler) SellerRating(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("seller_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid seller id"))
		return
	}

	r, err := h.reviews.GetSellerRating(c.Request.Context(), sellerID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"seller_id": r.SellerID,
		"average":   r.Average,
		"count":     r.Count,
	})
}

func (h *ReviewHandler) AddFavorite(c *gin.Context) {
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	if err := h.favorites.AddFavorite(c.Request.Context(), req.ItemID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReviewHandler) RemoveFavorite(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid item id"))
		return
	}

	removed, err := h.favorites.RemoveFavorite(c.Request.Context(), itemID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, NewNotFoundError("favorite not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReviewHandler) ListFavorites(c *gin.Context) {
	items, err := h.favorites.ListFavorites(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toItemResponse(&items[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *ReviewHandler) FavoriteCount(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid item id"))
		return
	}

	count, err := h.favorites.CountForItem(c.Request.Context(), itemID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": itemID, "count": count})
}

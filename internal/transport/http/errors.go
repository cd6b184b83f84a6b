package http

import (
	"errors"
	"net/http"

	"campus-market/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError translates business errors into the stable error envelope.
// Anything not in the taxonomy is an internal failure and must not leak
// storage details to the client.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrDuplicateItem),
		errors.Is(err, service.ErrQuantityInvalid),
		errors.Is(err, service.ErrMixedSellers),
		errors.Is(err, service.ErrRatingInvalid),
		errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrPriceInvalid),
		errors.Is(err, service.ErrRecipientFields):
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))

	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, NewUnauthorizedError(err.Error()))

	case errors.Is(err, service.ErrNotAddressOwner),
		errors.Is(err, service.ErrNotItemOwner),
		errors.Is(err, service.ErrNotOrderParty),
		errors.Is(err, service.ErrSelfPurchase),
		errors.Is(err, service.ErrForbiddenChange):
		c.JSON(http.StatusForbidden, NewForbiddenError(err.Error()))

	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrAddressNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, NewNotFoundError(err.Error()))

	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrItemInactive),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrOrderNotCancellable),
		errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrAlreadyFavorited),
		errors.Is(err, service.ErrReviewNotAllowed):
		c.JSON(http.StatusConflict, NewConflictError(err.Error()))

	default:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewInternalError(""))
	}
}

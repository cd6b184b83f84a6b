package service

import "errors"

// Validation failures, rejected before any mutation.
var (
	ErrEmptyItems      = errors.New("empty items")
	ErrDuplicateItem   = errors.New("duplicate item")
	ErrQuantityInvalid = errors.New("quantity must be between 1 and the per-line maximum")
	ErrMixedSellers    = errors.New("order lines must belong to a single seller")
	ErrRatingInvalid   = errors.New("rating must be between 1 and 5")
	ErrTitleRequired   = errors.New("title is required")
	ErrPriceInvalid    = errors.New("price must be positive")
	ErrRecipientFields = errors.New("recipient, phone and detail are required")
)

// Lookup failures.
var (
	ErrItemNotFound    = errors.New("item not found")
	ErrAddressNotFound = errors.New("address not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// Authorization failures.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotAddressOwner = errors.New("address belongs to another user")
	ErrNotItemOwner    = errors.New("item belongs to another seller")
	ErrNotOrderParty   = errors.New("order belongs to another user")
	ErrSelfPurchase    = errors.New("cannot buy your own item")
	ErrForbiddenChange = errors.New("requester may not perform this transition")
)

// Conflicts: the request was well-formed but lost against current state.
var (
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrItemInactive        = errors.New("item is not active")
	ErrInvalidTransition   = errors.New("illegal status transition")
	ErrOrderNotCancellable = errors.New("only pending orders can be cancelled")
	ErrAlreadyReviewed     = errors.New("item already reviewed for this order")
	ErrAlreadyFavorited    = errors.New("item already favorited")
	ErrReviewNotAllowed    = errors.New("reviews require a completed purchase of the item")
)

package service

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const ctxUserIDKey ctxKey = "userID"

// WithUserID stores the authenticated user id supplied by the session layer.
// Services trust this identity and perform no credential checks of their own.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, id)
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ctxUserIDKey).(uuid.UUID)
	return v, ok
}

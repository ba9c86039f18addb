package utils

import (
	"context"
	"time"
)

type contextKey string

const ContextUserIDKey contextKey = "userID"

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID := ctx.Value(ContextUserIDKey)
	userIDStr, ok := userID.(string)
	return userIDStr, ok
}

// SessionData is the minimal session shape middleware needs; modules that
// own a sessions table translate into it via a SessionFetcher.
type SessionData struct {
	UserID    string
	ExpiresAt time.Time
}

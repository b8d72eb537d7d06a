package utils

import (
	"context"
	"net/http"

	"directoryEngine/internal/models"
)

type contextKey string

// Context keys
const (
	LocationIDKey contextKey = "location_id"
	UserIDKey     contextKey = "user_id"
)

// WithSession stores the session identity in ctx.
func WithSession(ctx context.Context, s *models.SessionData) context.Context {
	ctx = context.WithValue(ctx, LocationIDKey, s.LocationID)
	return context.WithValue(ctx, UserIDKey, s.UserID)
}

// GetLocationID extracts the GHL location from request context
func GetLocationID(r *http.Request) (string, bool) {
	locationID, ok := r.Context().Value(LocationIDKey).(string)
	return locationID, ok && locationID != ""
}

// GetUserID extracts the GHL user from request context
func GetUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is a private type for values stored in request contexts.
// Using a custom type prevents collisions.
type contextKey string

const (
	// userIDKey holds the authenticated user's ID (the token subject).
	userIDKey = contextKey("userID")
	// userEmailKey holds the email claim of the authenticated user.
	userEmailKey = contextKey("userEmail")
	// loggerCtxKey holds the request-scoped *slog.Logger.
	loggerCtxKey = contextKey("logger")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userIDVal, exists := c.Get(string(userIDKey)); exists {
		userID, ok := userIDVal.(string)
		return userID, ok && userID != ""
	}
	return UserIDFromCtx(c.Request.Context())
}

// UserIDFromCtx retrieves the authenticated user ID from a standard context.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserEmailFromContext retrieves the email claim of the authenticated user.
func GetUserEmailFromContext(c *gin.Context) (string, bool) {
	email, ok := c.Request.Context().Value(userEmailKey).(string)
	return email, ok && email != ""
}

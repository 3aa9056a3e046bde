package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// ProfileEnsurer creates the caller's profile on first access.
type ProfileEnsurer interface {
	EnsureUser(ctx context.Context, userID, email string) (*domain.User, error)
}

// EnsureProfileMiddleware makes sure every authenticated caller has a profile row before
// owner-scoped writes reference it. Users already seen by this process are not checked again.
// Must run after AuthMiddleware.
func EnsureProfileMiddleware(users ProfileEnsurer) gin.HandlerFunc {
	var known sync.Map
	return func(c *gin.Context) {
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.Next()
			return
		}
		if _, seen := known.Load(userID); seen {
			c.Next()
			return
		}

		email, _ := GetUserEmailFromContext(c)
		if _, err := users.EnsureUser(c.Request.Context(), userID, email); err != nil {
			if errors.Is(err, apperrors.ErrValidation) {
				GetLoggerFromCtx(c.Request.Context()).Warn("Token claims cannot seed a profile", slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is missing a usable email claim"})
				return
			}
			GetLoggerFromCtx(c.Request.Context()).Error("Failed to ensure user profile", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user profile"})
			return
		}
		known.Store(userID, struct{}{})
		c.Next()
	}
}

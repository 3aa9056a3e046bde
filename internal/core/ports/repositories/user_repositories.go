package repositories

import (
	"context"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
)

// UserReader defines read operations for user profiles
type UserReader interface {
	// FindUserByID retrieves a profile by its auth subject.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a profile by normalized email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsersByIDs retrieves profiles keyed by user ID. Unknown IDs are omitted.
	FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)
}

// UserWriter defines write operations for user profiles
type UserWriter interface {
	// SaveUser persists a new profile.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates a profile, guarded by its version.
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}

package services

import (
	"context"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/fireflow/fireflow_backend/internal/dto"
)

// UserReaderSvc defines read operations for user profiles
type UserReaderSvc interface {
	// GetUserByID retrieves a profile by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a profile by exact email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user profiles
type UserWriterSvc interface {
	// EnsureUser returns the caller's profile, creating it from the token claims on first access.
	EnsureUser(ctx context.Context, userID, email string) (*domain.User, error)

	// UpdateUser updates the caller's profile.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}

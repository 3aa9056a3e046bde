package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portsrepo "github.com/fireflow/fireflow_backend/internal/core/ports/repositories"
	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/dto"
)

// userService implements the UserSvcFacade interface
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new profile service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{
		userRepo: userRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// GetUserByID retrieves a profile by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID",
				slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// FindUserByEmail retrieves a profile by email, ignoring case.
func (s *userService) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by email")
		}
		return nil, err
	}
	return user, nil
}

// EnsureUser returns the caller's profile, creating it on first access.
// The display name defaults to the local part of the email.
func (s *userService) EnsureUser(ctx context.Context, userID, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up user profile",
			slog.String("user_id", userID))
		return nil, err
	}

	now := time.Now()
	normalized := domain.NormalizeEmail(email)
	displayName, _, _ := strings.Cut(normalized, "@")
	newUser := domain.User{
		UserID:      userID,
		Email:       normalized,
		DisplayName: displayName,
		AuditFields: domain.NewAuditFields(userID, now),
	}
	if err := newUser.Validate(); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Another request created the profile first.
			return s.userRepo.FindUserByID(ctx, userID)
		}
		s.LogError(ctx, err, "Failed to create user profile",
			slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "User profile created",
		slog.String("user_id", userID))
	return &newUser, nil
}

// UpdateUser updates the caller's profile.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name != user.DisplayName {
			user.DisplayName = name
			changed = true
		}
	}
	if !changed {
		return user, nil
	}
	if err := user.Validate(); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	user.Touch(userID, time.Now())
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user",
			slog.String("user_id", userID))
		return nil, err
	}
	user.Version++

	s.LogInfo(ctx, "User updated successfully",
		slog.String("user_id", userID))
	return user, nil
}

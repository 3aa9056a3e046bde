package services

import (
	"context"
	"log/slog"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	GoalAuthorizer portssvc.GoalAuthorizerSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeGoal checks if a user holds the required role on a goal.
// Access is denied when no authorizer is configured.
func (s *BaseService) AuthorizeGoal(ctx context.Context, userID, goalID string, requiredRole domain.GoalRole) error {
	if s.GoalAuthorizer == nil {
		s.LogWarn(ctx, "No goal authorizer configured, denying access",
			slog.String("user_id", userID),
			slog.String("goal_id", goalID))
		return apperrors.ErrForbidden
	}
	return s.GoalAuthorizer.AuthorizeGoalAccess(ctx, userID, goalID, requiredRole)
}

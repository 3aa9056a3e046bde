package services

import (
	"context"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/fireflow/fireflow_backend/internal/dto"
)

// GoalReaderSvc defines read operations for savings goals
type GoalReaderSvc interface {
	// GetGoalByID retrieves a goal the user participates in.
	GetGoalByID(ctx context.Context, goalID, userID string) (*domain.Goal, error)

	// ListGoals retrieves every goal the user owns or collaborates on.
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)

	// GetProgress computes a goal's progress toward its target.
	GetProgress(ctx context.Context, goalID, userID string) (*domain.GoalProgress, error)
}

// GoalWriterSvc defines write operations for savings goals
type GoalWriterSvc interface {
	// CreateGoal creates a goal owned by the user.
	CreateGoal(ctx context.Context, userID string, req dto.CreateGoalRequest) (*domain.Goal, error)

	// UpdateGoal edits a goal. Owner only.
	UpdateGoal(ctx context.Context, goalID, userID string, req dto.UpdateGoalRequest) (*domain.Goal, error)

	// DeleteGoal removes a goal. Owner only.
	DeleteGoal(ctx context.Context, goalID, userID string) error
}

// GoalContributionSvc defines operations on goal contributions
type GoalContributionSvc interface {
	// AddContribution allocates money to a goal on behalf of a participant.
	AddContribution(ctx context.Context, goalID, userID string, req dto.AddContributionRequest) (*domain.GoalContribution, *domain.Goal, error)

	// ListContributions retrieves a goal's contributions.
	ListContributions(ctx context.Context, goalID, userID string) ([]domain.GoalContribution, error)
}

// GoalParticipantSvc defines operations for managing goal collaborators
type GoalParticipantSvc interface {
	// AddParticipant invites an accepted friend to a goal. Owner only.
	AddParticipant(ctx context.Context, goalID, requestingUserID, targetUserID string) (*domain.GoalParticipant, error)

	// ListParticipants retrieves a goal's members.
	ListParticipants(ctx context.Context, goalID, userID string) ([]domain.GoalParticipant, error)

	// RemoveParticipant removes a collaborator, or lets a collaborator leave. The owner cannot be removed.
	RemoveParticipant(ctx context.Context, goalID, requestingUserID, targetUserID string) error
}

// GoalAuthorizerSvc defines operations for goal authorization
type GoalAuthorizerSvc interface {
	// AuthorizeGoalAccess checks that a user holds at least the required role on a goal.
	AuthorizeGoalAccess(ctx context.Context, userID, goalID string, requiredRole domain.GoalRole) error
}

// GoalSvcFacade combines all goal-related service interfaces
type GoalSvcFacade interface {
	GoalReaderSvc
	GoalWriterSvc
	GoalContributionSvc
	GoalParticipantSvc
	GoalAuthorizerSvc
}

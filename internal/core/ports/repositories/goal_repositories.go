package repositories

import (
	"context"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
)

// GoalReader defines read operations for savings goals
type GoalReader interface {
	// FindGoalByID retrieves a goal by its ID.
	FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error)

	// ListGoalsByParticipant retrieves every goal the user owns or collaborates on.
	ListGoalsByParticipant(ctx context.Context, userID string) ([]domain.Goal, error)
}

// GoalWriter defines write operations for savings goals
type GoalWriter interface {
	// SaveGoal persists a new goal together with its owner membership.
	SaveGoal(ctx context.Context, goal domain.Goal, owner domain.GoalParticipant) error

	// UpdateGoal updates a goal's descriptive fields, guarded by its version.
	UpdateGoal(ctx context.Context, goal domain.Goal) error

	// DeleteGoal removes a goal with its participants and contributions.
	DeleteGoal(ctx context.Context, goalID string) error
}

// GoalParticipantManager defines operations for managing goal membership
type GoalParticipantManager interface {
	// AddGoalParticipant adds a user to a goal.
	AddGoalParticipant(ctx context.Context, participant domain.GoalParticipant) error

	// FindGoalParticipant retrieves one user's membership in a goal.
	FindGoalParticipant(ctx context.Context, goalID, userID string) (*domain.GoalParticipant, error)

	// ListGoalParticipants retrieves all members of a goal.
	ListGoalParticipants(ctx context.Context, goalID string) ([]domain.GoalParticipant, error)

	// RemoveGoalParticipant removes a user from a goal.
	RemoveGoalParticipant(ctx context.Context, goalID, userID string) error
}

// GoalContributionManager defines operations on goal contributions
type GoalContributionManager interface {
	// SaveContribution stores the contribution and increments the goal's current amount in
	// one transaction, completing the goal when the target is reached. It returns the goal's
	// new state.
	SaveContribution(ctx context.Context, contribution domain.GoalContribution) (*domain.Goal, error)

	// ListContributions retrieves a goal's contributions, newest first.
	ListContributions(ctx context.Context, goalID string) ([]domain.GoalContribution, error)
}

// GoalRepositoryFacade combines all goal-related repository interfaces
type GoalRepositoryFacade interface {
	GoalReader
	GoalWriter
	GoalParticipantManager
	GoalContributionManager
}

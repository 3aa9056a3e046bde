package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portsrepo "github.com/fireflow/fireflow_backend/internal/core/ports/repositories"
	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// goalService implements the GoalSvcFacade interface
type goalService struct {
	BaseService
	goalRepo portsrepo.GoalRepositoryFacade
	userRepo portsrepo.UserReader
	friends  portssvc.FriendReaderSvc
}

// NewGoalService creates a new goal service. The service authorizes its own
// operations through goal membership.
func NewGoalService(
	goalRepo portsrepo.GoalRepositoryFacade,
	userRepo portsrepo.UserReader,
	friends portssvc.FriendReaderSvc,
) portssvc.GoalSvcFacade {
	svc := &goalService{
		goalRepo: goalRepo,
		userRepo: userRepo,
		friends:  friends,
	}
	svc.GoalAuthorizer = svc
	return svc
}

var _ portssvc.GoalSvcFacade = (*goalService)(nil)

// AuthorizeGoalAccess checks that a user holds at least the required role on a goal.
func (s *goalService) AuthorizeGoalAccess(ctx context.Context, userID, goalID string, requiredRole domain.GoalRole) error {
	participant, err := s.goalRepo.FindGoalParticipant(ctx, goalID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a participant of goal",
				slog.String("user_id", userID),
				slog.String("goal_id", goalID))
			return apperrors.ErrForbidden
		}
		s.LogError(ctx, err, "Failed to find goal participant",
			slog.String("user_id", userID),
			slog.String("goal_id", goalID))
		return err
	}

	if !hasGoalRole(participant.Role, requiredRole) {
		s.LogDebug(ctx, "User does not have required goal role",
			slog.String("user_id", userID),
			slog.String("goal_id", goalID),
			slog.String("user_role", string(participant.Role)),
			slog.String("required_role", string(requiredRole)))
		return apperrors.ErrForbidden
	}
	return nil
}

// hasGoalRole checks if the user's role meets or exceeds the required role
func hasGoalRole(userRole, requiredRole domain.GoalRole) bool {
	switch requiredRole {
	case domain.GoalRoleCollaborator:
		return userRole == domain.GoalRoleCollaborator || userRole == domain.GoalRoleOwner
	case domain.GoalRoleOwner:
		return userRole == domain.GoalRoleOwner
	default:
		return false
	}
}

func (s *goalService) findGoal(ctx context.Context, goalID string) (*domain.Goal, error) {
	goal, err := s.goalRepo.FindGoalByID(ctx, goalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find goal",
				slog.String("goal_id", goalID))
		}
		return nil, err
	}
	return goal, nil
}

// GetGoalByID retrieves a goal the user participates in.
func (s *goalService) GetGoalByID(ctx context.Context, goalID, userID string) (*domain.Goal, error) {
	goal, err := s.findGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeGoal(ctx, userID, goalID, domain.GoalRoleCollaborator); err != nil {
		return nil, err
	}
	return goal, nil
}

// ListGoals retrieves every goal the user owns or collaborates on.
func (s *goalService) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	goals, err := s.goalRepo.ListGoalsByParticipant(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list goals",
			slog.String("user_id", userID))
		return nil, err
	}
	if goals == nil {
		return []domain.Goal{}, nil
	}
	return goals, nil
}

// GetProgress computes a goal's progress toward its target.
func (s *goalService) GetProgress(ctx context.Context, goalID, userID string) (*domain.GoalProgress, error) {
	goal, err := s.GetGoalByID(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	progress := goal.Progress()
	return &progress, nil
}

// CreateGoal creates a goal owned by the user.
func (s *goalService) CreateGoal(ctx context.Context, userID string, req dto.CreateGoalRequest) (*domain.Goal, error) {
	deadline, err := dto.ParseOptionalDate(req.Deadline)
	if err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	now := time.Now()
	goal := domain.Goal{
		GoalID:        uuid.NewString(),
		OwnerID:       userID,
		Name:          req.Name,
		Description:   req.Description,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      deadline,
		AuditFields:   domain.NewAuditFields(userID, now),
	}
	if err := goal.Validate(); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	owner := domain.GoalParticipant{
		GoalID:   goal.GoalID,
		UserID:   userID,
		Role:     domain.GoalRoleOwner,
		JoinedAt: now,
	}
	if err := s.goalRepo.SaveGoal(ctx, goal, owner); err != nil {
		s.LogError(ctx, err, "Failed to save goal",
			slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Goal created successfully",
		slog.String("goal_id", goal.GoalID),
		slog.String("owner_id", userID))
	return &goal, nil
}

// UpdateGoal edits a goal. Owner only.
func (s *goalService) UpdateGoal(ctx context.Context, goalID, userID string, req dto.UpdateGoalRequest) (*domain.Goal, error) {
	goal, err := s.findGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeGoal(ctx, userID, goalID, domain.GoalRoleOwner); err != nil {
		return nil, err
	}
	if goal.Version != req.Version {
		return nil, apperrors.NewStaleWriteError("goal was modified by another request")
	}

	if req.Name != nil {
		goal.Name = *req.Name
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.TargetAmount != nil {
		goal.TargetAmount = *req.TargetAmount
	}
	if req.ClearDeadline {
		goal.Deadline = nil
	} else if req.Deadline != nil {
		deadline, err := dto.ParseDate(*req.Deadline)
		if err != nil {
			return nil, apperrors.NewValidationFailedError(err.Error())
		}
		goal.Deadline = &deadline
	}
	if err := goal.Validate(); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}
	goal.IsCompleted = goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount)

	goal.Touch(userID, time.Now())
	if err := s.goalRepo.UpdateGoal(ctx, *goal); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update goal",
				slog.String("goal_id", goalID))
		}
		return nil, err
	}
	goal.Version++

	s.LogInfo(ctx, "Goal updated successfully",
		slog.String("goal_id", goalID),
		slog.Int64("version", goal.Version))
	return goal, nil
}

// DeleteGoal removes a goal. Owner only.
func (s *goalService) DeleteGoal(ctx context.Context, goalID, userID string) error {
	if _, err := s.findGoal(ctx, goalID); err != nil {
		return err
	}
	if err := s.AuthorizeGoal(ctx, userID, goalID, domain.GoalRoleOwner); err != nil {
		return err
	}
	if err := s.goalRepo.DeleteGoal(ctx, goalID); err != nil {
		s.LogError(ctx, err, "Failed to delete goal",
			slog.String("goal_id", goalID))
		return err
	}
	s.LogInfo(ctx, "Goal deleted successfully",
		slog.String("goal_id", goalID))
	return nil
}

// AddContribution allocates money to a goal on behalf of a participant.
// Completed goals accept no further contributions.
func (s *goalService) AddContribution(ctx context.Context, goalID, userID string, req dto.AddContributionRequest) (*domain.GoalContribution, *domain.Goal, error) {
	goal, err := s.GetGoalByID(ctx, goalID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, nil, apperrors.NewValidationFailedError("amount must be positive")
	}
	if goal.IsCompleted {
		return nil, nil, apperrors.NewValidationFailedError("goal is already completed")
	}

	contribution := domain.GoalContribution{
		ContributionID: uuid.NewString(),
		GoalID:         goalID,
		UserID:         userID,
		Amount:         req.Amount,
		Note:           req.Note,
		CreatedAt:      time.Now(),
	}
	updated, err := s.goalRepo.SaveContribution(ctx, contribution)
	if err != nil {
		s.LogError(ctx, err, "Failed to save contribution",
			slog.String("goal_id", goalID),
			slog.String("user_id", userID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Contribution added",
		slog.String("goal_id", goalID),
		slog.String("user_id", userID),
		slog.String("amount", req.Amount.String()),
		slog.Bool("goal_completed", updated.IsCompleted))
	return &contribution, updated, nil
}

// ListContributions retrieves a goal's contributions.
func (s *goalService) ListContributions(ctx context.Context, goalID, userID string) ([]domain.GoalContribution, error) {
	if _, err := s.GetGoalByID(ctx, goalID, userID); err != nil {
		return nil, err
	}
	contributions, err := s.goalRepo.ListContributions(ctx, goalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list contributions",
			slog.String("goal_id", goalID))
		return nil, err
	}
	if contributions == nil {
		return []domain.GoalContribution{}, nil
	}
	return contributions, nil
}

// AddParticipant invites an accepted friend of the owner to a goal.
func (s *goalService) AddParticipant(ctx context.Context, goalID, requestingUserID, targetUserID string) (*domain.GoalParticipant, error) {
	if _, err := s.findGoal(ctx, goalID); err != nil {
		return nil, err
	}
	if err := s.AuthorizeGoal(ctx, requestingUserID, goalID, domain.GoalRoleOwner); err != nil {
		return nil, err
	}
	if requestingUserID == targetUserID {
		return nil, apperrors.NewValidationFailedError("the owner is already a participant")
	}

	target, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		s.LogError(ctx, err, "Failed to look up participant",
			slog.String("target_user_id", targetUserID))
		return nil, err
	}

	friends, err := s.friends.AreFriends(ctx, requestingUserID, targetUserID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, apperrors.NewValidationFailedError("only friends can be added to a goal")
	}

	if _, err := s.goalRepo.FindGoalParticipant(ctx, goalID, targetUserID); err == nil {
		return nil, apperrors.NewConflictError("user is already a participant")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check goal membership",
			slog.String("goal_id", goalID),
			slog.String("target_user_id", targetUserID))
		return nil, err
	}

	participant := domain.GoalParticipant{
		GoalID:      goalID,
		UserID:      targetUserID,
		Email:       target.Email,
		DisplayName: target.DisplayName,
		Role:        domain.GoalRoleCollaborator,
		JoinedAt:    time.Now(),
	}
	if err := s.goalRepo.AddGoalParticipant(ctx, participant); err != nil {
		s.LogError(ctx, err, "Failed to add goal participant",
			slog.String("goal_id", goalID),
			slog.String("target_user_id", targetUserID))
		return nil, err
	}

	s.LogInfo(ctx, "Participant added to goal",
		slog.String("goal_id", goalID),
		slog.String("target_user_id", targetUserID))
	return &participant, nil
}

// ListParticipants retrieves a goal's members.
func (s *goalService) ListParticipants(ctx context.Context, goalID, userID string) ([]domain.GoalParticipant, error) {
	if _, err := s.GetGoalByID(ctx, goalID, userID); err != nil {
		return nil, err
	}
	participants, err := s.goalRepo.ListGoalParticipants(ctx, goalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list goal participants",
			slog.String("goal_id", goalID))
		return nil, err
	}
	if participants == nil {
		return []domain.GoalParticipant{}, nil
	}
	return participants, nil
}

// RemoveParticipant removes a collaborator. The owner may remove anyone but
// themselves; a collaborator may only leave.
func (s *goalService) RemoveParticipant(ctx context.Context, goalID, requestingUserID, targetUserID string) error {
	if _, err := s.findGoal(ctx, goalID); err != nil {
		return err
	}
	required := domain.GoalRoleOwner
	if requestingUserID == targetUserID {
		required = domain.GoalRoleCollaborator
	}
	if err := s.AuthorizeGoal(ctx, requestingUserID, goalID, required); err != nil {
		return err
	}

	participant, err := s.goalRepo.FindGoalParticipant(ctx, goalID, targetUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("participant not found")
		}
		s.LogError(ctx, err, "Failed to find goal participant",
			slog.String("goal_id", goalID),
			slog.String("target_user_id", targetUserID))
		return err
	}
	if participant.Role == domain.GoalRoleOwner {
		return apperrors.NewValidationFailedError("the goal owner cannot be removed")
	}

	if err := s.goalRepo.RemoveGoalParticipant(ctx, goalID, targetUserID); err != nil {
		s.LogError(ctx, err, "Failed to remove goal participant",
			slog.String("goal_id", goalID),
			slog.String("target_user_id", targetUserID))
		return err
	}
	s.LogInfo(ctx, "Participant removed from goal",
		slog.String("goal_id", goalID),
		slog.String("target_user_id", targetUserID),
		slog.String("removed_by", requestingUserID))
	return nil
}

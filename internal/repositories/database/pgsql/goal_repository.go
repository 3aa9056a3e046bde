package pgsql

import (
	"context"
	"errors"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portsrepo "github.com/fireflow/fireflow_backend/internal/core/ports/repositories"
	"github.com/fireflow/fireflow_backend/internal/models"
	"github.com/fireflow/fireflow_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxGoalRepository struct {
	BaseRepository
}

// newPgxGoalRepository creates a new repository for goals, members and contributions.
func newPgxGoalRepository(pool *pgxpool.Pool) portsrepo.GoalRepositoryFacade {
	return &PgxGoalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.GoalRepositoryFacade = (*PgxGoalRepository)(nil)

const goalSelectQuery = `
SELECT g.goal_id, g.owner_id, g.name, g.description, g.target_amount, g.current_amount,
       g.deadline, g.is_completed,
       g.created_at, g.created_by, g.last_updated_at, g.last_updated_by, g.version
FROM goals g
`

const participantSelectQuery = `
SELECT gp.goal_id, gp.user_id, COALESCE(p.email, '') AS email, COALESCE(p.display_name, '') AS display_name,
       gp.role, gp.joined_at
FROM goal_participants gp
LEFT JOIN profiles p ON p.user_id = gp.user_id
`

func (r *PgxGoalRepository) getGoals(ctx context.Context, filterQuery string, args ...any) ([]domain.Goal, error) {
	rows, err := r.Pool.Query(ctx, goalSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query goals", err)
	}
	defer rows.Close()

	modelGoals, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Goal])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect goal rows", err)
	}
	return mapping.ToDomainGoalSlice(modelGoals), nil
}

func (r *PgxGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	goals, err := r.getGoals(ctx, `WHERE g.goal_id = $1`, goalID)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, apperrors.NewNotFoundError("goal " + goalID + " not found")
	}
	return &goals[0], nil
}

func (r *PgxGoalRepository) ListGoalsByParticipant(ctx context.Context, userID string) ([]domain.Goal, error) {
	return r.getGoals(ctx, `
		JOIN goal_participants gp ON gp.goal_id = g.goal_id
		WHERE gp.user_id = $1
		ORDER BY g.is_completed, g.deadline NULLS LAST, g.created_at DESC`, userID)
}

// SaveGoal inserts the goal and its owner membership in one transaction.
func (r *PgxGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal, owner domain.GoalParticipant) error {
	m := mapping.ToModelGoal(goal)
	query := `
		INSERT INTO goals (
			goal_id, owner_id, name, description, target_amount, current_amount, deadline, is_completed,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1);
	`
	return r.WithinTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			m.GoalID, m.OwnerID, m.Name, m.Description, m.TargetAmount, m.CurrentAmount, m.Deadline, m.IsCompleted,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			if code, _ := pgErrorCode(err); code == pgUniqueViolation {
				return apperrors.NewConflictError("goal " + m.GoalID + " already exists")
			}
			return apperrors.NewAppError(500, "failed to save goal "+m.GoalID, err)
		}
		return insertParticipant(ctx, tx, owner)
	})
}

func (r *PgxGoalRepository) UpdateGoal(ctx context.Context, goal domain.Goal) error {
	m := mapping.ToModelGoal(goal)
	query := `
		UPDATE goals
		SET name = $1, description = $2, target_amount = $3, deadline = $4, is_completed = $5,
		    last_updated_at = $6, last_updated_by = $7, version = version + 1
		WHERE goal_id = $8 AND version = $9;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Name, m.Description, m.TargetAmount, m.Deadline, m.IsCompleted,
		m.LastUpdatedAt, m.LastUpdatedBy,
		m.GoalID, m.Version,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update goal "+m.GoalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.missingOrStale(ctx, "goals", "goal_id", m.GoalID)
	}
	return nil
}

// DeleteGoal removes a goal; participants and contributions cascade.
func (r *PgxGoalRepository) DeleteGoal(ctx context.Context, goalID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM goals WHERE goal_id = $1`, goalID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete goal "+goalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("goal " + goalID + " not found")
	}
	return nil
}

func insertParticipant(ctx context.Context, q pgxQuerier, participant domain.GoalParticipant) error {
	query := `
		INSERT INTO goal_participants (goal_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := q.Exec(ctx, query, participant.GoalID, participant.UserID, string(participant.Role), participant.JoinedAt)
	if err != nil {
		code, _ := pgErrorCode(err)
		switch code {
		case pgUniqueViolation:
			return apperrors.NewConflictError("user " + participant.UserID + " already participates in goal " + participant.GoalID)
		case pgForeignKeyViolation:
			return apperrors.NewValidationFailedError("goal or user does not exist")
		}
		return apperrors.NewAppError(500, "failed to add participant "+participant.UserID+" to goal "+participant.GoalID, err)
	}
	return nil
}

func (r *PgxGoalRepository) AddGoalParticipant(ctx context.Context, participant domain.GoalParticipant) error {
	return insertParticipant(ctx, r.Pool, participant)
}

func (r *PgxGoalRepository) FindGoalParticipant(ctx context.Context, goalID, userID string) (*domain.GoalParticipant, error) {
	rows, err := r.Pool.Query(ctx, participantSelectQuery+`WHERE gp.goal_id = $1 AND gp.user_id = $2`, goalID, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query goal participant", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.GoalParticipant])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user " + userID + " is not a participant of goal " + goalID)
		}
		return nil, apperrors.NewAppError(500, "failed to collect goal participant", err)
	}
	participant := mapping.ToDomainGoalParticipant(m)
	return &participant, nil
}

func (r *PgxGoalRepository) ListGoalParticipants(ctx context.Context, goalID string) ([]domain.GoalParticipant, error) {
	rows, err := r.Pool.Query(ctx, participantSelectQuery+`WHERE gp.goal_id = $1 ORDER BY gp.role DESC, gp.joined_at`, goalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query goal participants", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.GoalParticipant])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect goal participants", err)
	}
	return mapping.ToDomainGoalParticipantSlice(ms), nil
}

func (r *PgxGoalRepository) RemoveGoalParticipant(ctx context.Context, goalID, userID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM goal_participants WHERE goal_id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to remove participant "+userID+" from goal "+goalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + userID + " is not a participant of goal " + goalID)
	}
	return nil
}

// SaveContribution records the contribution and bumps the goal's total in one transaction.
// The increment happens in SQL so concurrent contributions never lose an update.
func (r *PgxGoalRepository) SaveContribution(ctx context.Context, contribution domain.GoalContribution) (*domain.Goal, error) {
	m := mapping.ToModelGoalContribution(contribution)
	var updated models.Goal
	err := r.WithinTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO goal_contributions (contribution_id, goal_id, user_id, amount, note, created_at)
			VALUES ($1, $2, $3, $4, $5, $6);`,
			m.ContributionID, m.GoalID, m.UserID, m.Amount, m.Note, m.CreatedAt,
		)
		if err != nil {
			if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
				return apperrors.NewNotFoundError("goal " + m.GoalID + " not found")
			}
			return apperrors.NewAppError(500, "failed to save contribution to goal "+m.GoalID, err)
		}

		rows, err := tx.Query(ctx, `
			UPDATE goals
			SET current_amount = current_amount + $2,
			    is_completed = (current_amount + $2) >= target_amount,
			    last_updated_at = $3, last_updated_by = $4, version = version + 1
			WHERE goal_id = $1 AND is_completed = FALSE
			RETURNING goal_id, owner_id, name, description, target_amount, current_amount,
			          deadline, is_completed,
			          created_at, created_by, last_updated_at, last_updated_by, version`,
			m.GoalID, m.Amount, m.CreatedAt, m.UserID,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update goal "+m.GoalID, err)
		}
		updated, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Goal])
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationFailedError("goal " + m.GoalID + " is already completed")
			}
			return apperrors.NewAppError(500, "failed to collect updated goal "+m.GoalID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	goal := mapping.ToDomainGoal(updated)
	return &goal, nil
}

// ListContributions retrieves a goal's contributions, newest first.
func (r *PgxGoalRepository) ListContributions(ctx context.Context, goalID string) ([]domain.GoalContribution, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT contribution_id, goal_id, user_id, amount, note, created_at
		FROM goal_contributions
		WHERE goal_id = $1
		ORDER BY created_at DESC, contribution_id DESC`, goalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query contributions", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.GoalContribution])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect contributions", err)
	}
	return mapping.ToDomainGoalContributionSlice(ms), nil
}

package pgsql

import (
	"context"
	"time"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portsrepo "github.com/fireflow/fireflow_backend/internal/core/ports/repositories"
	"github.com/fireflow/fireflow_backend/internal/models"
	"github.com/fireflow/fireflow_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRecurringTransactionRepository struct {
	BaseRepository
}

// newPgxRecurringTransactionRepository creates a new repository for recurring templates.
func newPgxRecurringTransactionRepository(pool *pgxpool.Pool) portsrepo.RecurringTransactionRepositoryFacade {
	return &PgxRecurringTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RecurringTransactionRepositoryFacade = (*PgxRecurringTransactionRepository)(nil)

const recurringSelectQuery = `
SELECT recurring_transaction_id, user_id, description, category, type, amount, frequency,
       start_date, next_run_date, end_date, is_active,
       created_at, created_by, last_updated_at, last_updated_by, version
FROM recurring_transactions
`

func (r *PgxRecurringTransactionRepository) getRecurringTransactions(ctx context.Context, filterQuery string, args ...any) ([]domain.RecurringTransaction, error) {
	rows, err := r.Pool.Query(ctx, recurringSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query recurring transactions", err)
	}
	defer rows.Close()

	modelRTs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RecurringTransaction])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect recurring transaction rows", err)
	}
	return mapping.ToDomainRecurringTransactionSlice(modelRTs), nil
}

func (r *PgxRecurringTransactionRepository) FindRecurringTransactionByID(ctx context.Context, recurringTransactionID string) (*domain.RecurringTransaction, error) {
	rts, err := r.getRecurringTransactions(ctx, `WHERE recurring_transaction_id = $1`, recurringTransactionID)
	if err != nil {
		return nil, err
	}
	if len(rts) == 0 {
		return nil, apperrors.NewNotFoundError("recurring transaction " + recurringTransactionID + " not found")
	}
	return &rts[0], nil
}

func (r *PgxRecurringTransactionRepository) ListRecurringTransactionsByUser(ctx context.Context, userID string) ([]domain.RecurringTransaction, error) {
	return r.getRecurringTransactions(ctx, `WHERE user_id = $1 ORDER BY is_active DESC, next_run_date, recurring_transaction_id`, userID)
}

func (r *PgxRecurringTransactionRepository) ListActiveRecurringTransactions(ctx context.Context) ([]domain.RecurringTransaction, error) {
	return r.getRecurringTransactions(ctx, `WHERE is_active = TRUE ORDER BY next_run_date, recurring_transaction_id`)
}

func (r *PgxRecurringTransactionRepository) SaveRecurringTransaction(ctx context.Context, rt domain.RecurringTransaction) error {
	m := mapping.ToModelRecurringTransaction(rt)
	query := `
		INSERT INTO recurring_transactions (
			recurring_transaction_id, user_id, description, category, type, amount, frequency,
			start_date, next_run_date, end_date, is_active,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RecurringTransactionID, m.UserID, m.Description, m.Category, m.Type, m.Amount, m.Frequency,
		m.StartDate, m.NextRunDate, m.EndDate, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return apperrors.NewConflictError("recurring transaction " + m.RecurringTransactionID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save recurring transaction "+m.RecurringTransactionID, err)
	}
	return nil
}

func (r *PgxRecurringTransactionRepository) UpdateRecurringTransaction(ctx context.Context, rt domain.RecurringTransaction) error {
	m := mapping.ToModelRecurringTransaction(rt)
	query := `
		UPDATE recurring_transactions
		SET description = $1, category = $2, type = $3, amount = $4, frequency = $5,
		    next_run_date = $6, end_date = $7, is_active = $8,
		    last_updated_at = $9, last_updated_by = $10, version = version + 1
		WHERE recurring_transaction_id = $11 AND version = $12;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Description, m.Category, m.Type, m.Amount, m.Frequency,
		m.NextRunDate, m.EndDate, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
		m.RecurringTransactionID, m.Version,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update recurring transaction "+m.RecurringTransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.missingOrStale(ctx, "recurring_transactions", "recurring_transaction_id", m.RecurringTransactionID)
	}
	return nil
}

func (r *PgxRecurringTransactionRepository) DeleteRecurringTransaction(ctx context.Context, recurringTransactionID string) error {
	// transactions.recurring_transaction_id is ON DELETE SET NULL, so generated rows survive.
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM recurring_transactions WHERE recurring_transaction_id = $1`, recurringTransactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete recurring transaction "+recurringTransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring transaction " + recurringTransactionID + " not found")
	}
	return nil
}

// ApplyCatchUp moves the template first, guarded by its expected next run date, then
// inserts the occurrences in one batch. Everything commits together or not at all.
func (r *PgxRecurringTransactionRepository) ApplyCatchUp(ctx context.Context, recurringTransactionID string, plan domain.CatchUpPlan, occurrences []domain.Transaction, appliedAt time.Time) error {
	updateQuery := `
		UPDATE recurring_transactions
		SET next_run_date = $1, is_active = $2,
		    last_updated_at = $3, last_updated_by = user_id, version = version + 1
		WHERE recurring_transaction_id = $4 AND next_run_date = $5 AND is_active = TRUE;
	`
	return r.WithinTx(ctx, func(tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, updateQuery,
			plan.NextRunDate, plan.IsActive, appliedAt,
			recurringTransactionID, plan.ExpectedNextRunDate,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to advance recurring transaction "+recurringTransactionID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewStaleWriteError("recurring transaction " + recurringTransactionID + " was advanced concurrently")
		}
		if len(occurrences) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, occ := range occurrences {
			batch.Queue(insertTransactionQuery, transactionInsertArgs(occ)...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if code, _ := pgErrorCode(err); code == pgUniqueViolation {
				return apperrors.NewStaleWriteError("occurrences of recurring transaction " + recurringTransactionID + " already exist")
			}
			return apperrors.NewAppError(500, "failed to insert occurrences of recurring transaction "+recurringTransactionID, err)
		}
		return nil
	})
}

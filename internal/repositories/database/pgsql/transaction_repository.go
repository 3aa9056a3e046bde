package pgsql

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portsrepo "github.com/fireflow/fireflow_backend/internal/core/ports/repositories"
	"github.com/fireflow/fireflow_backend/internal/models"
	"github.com/fireflow/fireflow_backend/internal/utils/mapping"
	"github.com/fireflow/fireflow_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `
	transaction_id, user_id, amount, type, category, description, transaction_date,
	recurring_transaction_id, occurrence_date,
	created_at, created_by, last_updated_at, last_updated_by, version`

const insertTransactionQuery = `
	INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 1);
`

// transactionInsertArgs returns the arguments of insertTransactionQuery in column order.
func transactionInsertArgs(txn domain.Transaction) []any {
	m := mapping.ToModelTransaction(txn)
	return []any{
		m.TransactionID, m.UserID, m.Amount, m.Type, m.Category, m.Description, m.TransactionDate,
		m.RecurringTransactionID, m.OccurrenceDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

func (r *PgxTransactionRepository) getTransactions(ctx context.Context, filterQuery string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions `+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	modelTxns, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect transaction rows", err)
	}
	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txns, err := r.getTransactions(ctx, `WHERE transaction_id = $1`, transactionID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, apperrors.NewNotFoundError("transaction " + transactionID + " not found")
	}
	return &txns[0], nil
}

// ListTransactionsByUser pages newest first on (transaction_date, transaction_id).
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}
	addArg := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, strings.ReplaceAll(condition, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.From != nil {
		addArg("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		addArg("transaction_date <= ?", *filter.To)
	}
	if filter.Type != nil {
		addArg("type = ?", string(*filter.Type))
	}
	if filter.Category != nil {
		addArg("category = ?", *filter.Category)
	}
	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationFailedError("invalid pagination token")
		}
		args = append(args, cursorDate, cursorID)
		conditions = append(conditions, "(transaction_date, transaction_id) < ($"+
			strconv.Itoa(len(args)-1)+", $"+strconv.Itoa(len(args))+")")
	}

	args = append(args, limit+1)
	query := "WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY transaction_date DESC, transaction_id DESC LIMIT $" + strconv.Itoa(len(args))

	txns, err := r.getTransactions(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.Date, last.TransactionID)
		next = &token
	}
	return txns, next, nil
}

func (r *PgxTransactionRepository) SumTransactionsByCategory(ctx context.Context, userID string, from, to time.Time) ([]domain.CategoryTotal, error) {
	query := `
		SELECT category, type, SUM(amount) AS total
		FROM transactions
		WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date <= $3
		GROUP BY category, type
		ORDER BY type, total DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to summarize transactions", err)
	}
	defer rows.Close()

	totals, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CategoryTotal])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect summary rows", err)
	}
	return mapping.ToDomainCategoryTotals(totals), nil
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, transaction domain.Transaction) error {
	_, err := r.Pool.Exec(ctx, insertTransactionQuery, transactionInsertArgs(transaction)...)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return apperrors.NewConflictError("transaction " + transaction.TransactionID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save transaction "+transaction.TransactionID, err)
	}
	return nil
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, transaction domain.Transaction) error {
	m := mapping.ToModelTransaction(transaction)
	query := `
		UPDATE transactions
		SET amount = $1, type = $2, category = $3, description = $4, transaction_date = $5,
		    last_updated_at = $6, last_updated_by = $7, version = version + 1
		WHERE transaction_id = $8 AND version = $9;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Amount, m.Type, m.Category, m.Description, m.TransactionDate,
		m.LastUpdatedAt, m.LastUpdatedBy,
		m.TransactionID, m.Version,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update transaction "+m.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.missingOrStale(ctx, "transactions", "transaction_id", m.TransactionID)
	}
	return nil
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1`, transactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete transaction "+transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction " + transactionID + " not found")
	}
	return nil
}

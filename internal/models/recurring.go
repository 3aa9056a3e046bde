package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringTransaction is a row of the recurring_transactions table.
type RecurringTransaction struct {
	RecurringTransactionID string          `db:"recurring_transaction_id"`
	UserID                 string          `db:"user_id"`
	Description            string          `db:"description"`
	Category               string          `db:"category"`
	Type                   string          `db:"type"`
	Amount                 decimal.Decimal `db:"amount"`
	Frequency              string          `db:"frequency"`
	StartDate              time.Time       `db:"start_date"`
	NextRunDate            time.Time       `db:"next_run_date"`
	EndDate                *time.Time      `db:"end_date"` // Nullable
	IsActive               bool            `db:"is_active"`
	AuditFields
}

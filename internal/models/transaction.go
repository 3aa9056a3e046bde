package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID          string          `db:"transaction_id"`
	UserID                 string          `db:"user_id"`
	Amount                 decimal.Decimal `db:"amount"`
	Type                   string          `db:"type"`
	Category               string          `db:"category"`
	Description            string          `db:"description"`
	TransactionDate        time.Time       `db:"transaction_date"`
	RecurringTransactionID *string         `db:"recurring_transaction_id"` // Nullable
	OccurrenceDate         *time.Time      `db:"occurrence_date"`          // Nullable
	AuditFields
}

// CategoryTotal is one row of the per-category summary query.
type CategoryTotal struct {
	Category string          `db:"category"`
	Type     string          `db:"type"`
	Total    decimal.Decimal `db:"total"`
}

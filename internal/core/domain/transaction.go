package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// Transaction is a single ledger entry owned by a user.
// Entries created by the recurring generator carry the template ID and the
// due date of the cycle they materialize.
type Transaction struct {
	TransactionID          string          `json:"transactionID"`
	UserID                 string          `json:"userID"`
	Amount                 decimal.Decimal `json:"amount"` // Always positive; Type carries the sign
	Type                   TransactionType `json:"type"`
	Category               string          `json:"category"`
	Description            string          `json:"description"`
	Date                   time.Time       `json:"date"`
	RecurringTransactionID *string         `json:"recurringTransactionID,omitempty"`
	OccurrenceDate         *time.Time      `json:"occurrenceDate,omitempty"`
	AuditFields
}

// Validate checks the invariants every persisted transaction must satisfy.
func (t Transaction) Validate() error {
	if t.UserID == "" {
		return errors.New("transaction owner is required")
	}
	if !t.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if !t.Type.IsValid() {
		return errors.New("type must be income or expense")
	}
	if strings.TrimSpace(t.Category) == "" {
		return errors.New("category is required")
	}
	if t.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

// SignedAmount returns the amount as a positive value for income and negative for expense.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	From     *time.Time
	To       *time.Time
	Type     *TransactionType
	Category *string
}

// CategoryTotal is the sum of one category within one transaction type.
type CategoryTotal struct {
	Category string          `json:"category"`
	Type     TransactionType `json:"type"`
	Total    decimal.Decimal `json:"total"`
}

// TransactionSummary aggregates a user's transactions over a period.
type TransactionSummary struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Net          decimal.Decimal `json:"net"`
	ByCategory   []CategoryTotal `json:"byCategory"`
}

// NewTransactionSummary folds per-category totals into income, expense and net figures.
func NewTransactionSummary(from, to time.Time, totals []CategoryTotal) TransactionSummary {
	summary := TransactionSummary{
		From:         from,
		To:           to,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		ByCategory:   totals,
	}
	if summary.ByCategory == nil {
		summary.ByCategory = []CategoryTotal{}
	}
	for _, ct := range totals {
		switch ct.Type {
		case Income:
			summary.TotalIncome = summary.TotalIncome.Add(ct.Total)
		case Expense:
			summary.TotalExpense = summary.TotalExpense.Add(ct.Total)
		}
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}

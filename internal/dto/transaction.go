package dto

import (
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction.
type CreateTransactionRequest struct {
	Amount      decimal.Decimal        `json:"amount"`
	Type        domain.TransactionType `json:"type" binding:"required,txntype"`
	Category    string                 `json:"category" binding:"required,max=50"`
	Description string                 `json:"description" binding:"max=255"`
	Date        *time.Time             `json:"date"` // Optional, defaults to now
}

// UpdateTransactionRequest defines the fields that may change on a transaction.
// Version must echo the version the client last read.
type UpdateTransactionRequest struct {
	Amount      *decimal.Decimal        `json:"amount"`
	Type        *domain.TransactionType `json:"type" binding:"omitempty,txntype"`
	Category    *string                 `json:"category" binding:"omitempty,min=1,max=50"`
	Description *string                 `json:"description" binding:"omitempty,max=255"`
	Date        *time.Time              `json:"date"`
	Version     int64                   `json:"version" binding:"required,min=1"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	From      string  `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string  `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Type      string  `form:"type" binding:"omitempty,txntype"`
	Category  string  `form:"category"`
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ToFilter converts the query parameters into a domain filter. Dates are inclusive, so
// "to" covers the whole day.
func (p ListTransactionsParams) ToFilter() (domain.TransactionFilter, error) {
	var f domain.TransactionFilter
	if p.From != "" {
		from, err := ParseDate(p.From)
		if err != nil {
			return f, err
		}
		f.From = &from
	}
	if p.To != "" {
		to, err := ParseDate(p.To)
		if err != nil {
			return f, err
		}
		endOfDay := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.To = &endOfDay
	}
	if p.Type != "" {
		t := domain.TransactionType(p.Type)
		f.Type = &t
	}
	if p.Category != "" {
		f.Category = &p.Category
	}
	return f, nil
}

// SummaryParams defines the period of a transaction summary.
type SummaryParams struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID          string                 `json:"transactionID"`
	Amount                 decimal.Decimal        `json:"amount"`
	Type                   domain.TransactionType `json:"type"`
	Category               string                 `json:"category"`
	Description            string                 `json:"description"`
	Date                   time.Time              `json:"date"`
	RecurringTransactionID *string                `json:"recurringTransactionID,omitempty"`
	OccurrenceDate         *string                `json:"occurrenceDate,omitempty"`
	Version                int64                  `json:"version"`
	CreatedAt              time.Time              `json:"createdAt"`
	LastUpdatedAt          time.Time              `json:"lastUpdatedAt"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:          txn.TransactionID,
		Amount:                 txn.Amount,
		Type:                   txn.Type,
		Category:               txn.Category,
		Description:            txn.Description,
		Date:                   txn.Date,
		RecurringTransactionID: txn.RecurringTransactionID,
		OccurrenceDate:         FormatOptionalDate(txn.OccurrenceDate),
		Version:                txn.Version,
		CreatedAt:              txn.CreatedAt,
		LastUpdatedAt:          txn.LastUpdatedAt,
	}
}

// ToListTransactionsResponse converts a page of domain transactions.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: responses, NextToken: nextToken}
}

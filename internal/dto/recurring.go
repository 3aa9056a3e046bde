package dto

import (
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecurringTransactionRequest defines the data needed to create a template.
type CreateRecurringTransactionRequest struct {
	Description string                 `json:"description" binding:"max=255"`
	Category    string                 `json:"category" binding:"required,max=50"`
	Type        domain.TransactionType `json:"type" binding:"required,txntype"`
	Amount      decimal.Decimal        `json:"amount"`
	Frequency   domain.Frequency       `json:"frequency" binding:"required,frequency"`
	StartDate   string                 `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     *string                `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateRecurringTransactionRequest defines the fields that may change on a template.
// Setting ClearEndDate removes the end date. Version must echo the version the client last read.
type UpdateRecurringTransactionRequest struct {
	Description  *string                 `json:"description" binding:"omitempty,max=255"`
	Category     *string                 `json:"category" binding:"omitempty,min=1,max=50"`
	Type         *domain.TransactionType `json:"type" binding:"omitempty,txntype"`
	Amount       *decimal.Decimal        `json:"amount"`
	Frequency    *domain.Frequency       `json:"frequency" binding:"omitempty,frequency"`
	NextRunDate  *string                 `json:"nextRunDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate      *string                 `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	ClearEndDate bool                    `json:"clearEndDate"`
	Version      int64                   `json:"version" binding:"required,min=1"`
}

// UpcomingParams defines how many due dates to preview.
type UpcomingParams struct {
	Count int `form:"count,default=5" binding:"min=1,max=60"`
}

// RecurringTransactionResponse defines the data returned for a template.
type RecurringTransactionResponse struct {
	RecurringTransactionID string                 `json:"recurringTransactionID"`
	Description            string                 `json:"description"`
	Category               string                 `json:"category"`
	Type                   domain.TransactionType `json:"type"`
	Amount                 decimal.Decimal        `json:"amount"`
	Frequency              domain.Frequency       `json:"frequency"`
	StartDate              string                 `json:"startDate"`
	NextRunDate            string                 `json:"nextRunDate"`
	EndDate                *string                `json:"endDate,omitempty"`
	IsActive               bool                   `json:"isActive"`
	Version                int64                  `json:"version"`
	CreatedAt              time.Time              `json:"createdAt"`
	LastUpdatedAt          time.Time              `json:"lastUpdatedAt"`
}

// ListRecurringTransactionsResponse wraps a user's templates.
type ListRecurringTransactionsResponse struct {
	RecurringTransactions []RecurringTransactionResponse `json:"recurringTransactions"`
}

// UpcomingOccurrencesResponse lists the next due dates of a template.
type UpcomingOccurrencesResponse struct {
	RecurringTransactionID string   `json:"recurringTransactionID"`
	Dates                  []string `json:"dates"`
}

// ToRecurringTransactionResponse converts a domain.RecurringTransaction to its DTO.
func ToRecurringTransactionResponse(rt *domain.RecurringTransaction) RecurringTransactionResponse {
	return RecurringTransactionResponse{
		RecurringTransactionID: rt.RecurringTransactionID,
		Description:            rt.Description,
		Category:               rt.Category,
		Type:                   rt.Type,
		Amount:                 rt.Amount,
		Frequency:              rt.Frequency,
		StartDate:              FormatDate(rt.StartDate),
		NextRunDate:            FormatDate(rt.NextRunDate),
		EndDate:                FormatOptionalDate(rt.EndDate),
		IsActive:               rt.IsActive,
		Version:                rt.Version,
		CreatedAt:              rt.CreatedAt,
		LastUpdatedAt:          rt.LastUpdatedAt,
	}
}

// ToListRecurringTransactionsResponse converts a slice of templates.
func ToListRecurringTransactionsResponse(rts []domain.RecurringTransaction) ListRecurringTransactionsResponse {
	res := make([]RecurringTransactionResponse, len(rts))
	for i := range rts {
		res[i] = ToRecurringTransactionResponse(&rts[i])
	}
	return ListRecurringTransactionsResponse{RecurringTransactions: res}
}

// ToUpcomingOccurrencesResponse formats previewed due dates.
func ToUpcomingOccurrencesResponse(recurringTransactionID string, dates []time.Time) UpcomingOccurrencesResponse {
	formatted := make([]string, len(dates))
	for i, d := range dates {
		formatted[i] = FormatDate(d)
	}
	return UpcomingOccurrencesResponse{RecurringTransactionID: recurringTransactionID, Dates: formatted}
}

// CatchUpSummaryResponse reports a generator run.
type CatchUpSummaryResponse struct {
	RunAt                time.Time `json:"runAt"`
	Today                string    `json:"today"`
	TemplatesChecked     int       `json:"templatesChecked"`
	TemplatesProcessed   int       `json:"templatesProcessed"`
	TemplatesFailed      int       `json:"templatesFailed"`
	TemplatesSkipped     int       `json:"templatesSkipped"`
	TemplatesDeactivated int       `json:"templatesDeactivated"`
	TransactionsCreated  int       `json:"transactionsCreated"`
}

// ToCatchUpSummaryResponse converts a run summary.
func ToCatchUpSummaryResponse(s domain.CatchUpSummary) CatchUpSummaryResponse {
	return CatchUpSummaryResponse{
		RunAt:                s.RunAt,
		Today:                FormatDate(s.Today),
		TemplatesChecked:     s.TemplatesChecked,
		TemplatesProcessed:   s.TemplatesProcessed,
		TemplatesFailed:      s.TemplatesFailed,
		TemplatesSkipped:     s.TemplatesSkipped,
		TemplatesDeactivated: s.TemplatesDeactivated,
		TransactionsCreated:  s.TransactionsCreated,
	}
}

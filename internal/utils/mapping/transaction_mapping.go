package mapping

import (
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/fireflow/fireflow_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:          d.TransactionID,
		UserID:                 d.UserID,
		Amount:                 d.Amount,
		Type:                   string(d.Type),
		Category:               d.Category,
		Description:            d.Description,
		TransactionDate:        d.Date,
		RecurringTransactionID: d.RecurringTransactionID,
		OccurrenceDate:         d.OccurrenceDate,
		AuditFields:            models.AuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:          m.TransactionID,
		UserID:                 m.UserID,
		Amount:                 m.Amount,
		Type:                   domain.TransactionType(m.Type),
		Category:               m.Category,
		Description:            m.Description,
		Date:                   m.TransactionDate,
		RecurringTransactionID: m.RecurringTransactionID,
		OccurrenceDate:         m.OccurrenceDate,
		AuditFields:            domain.AuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToDomainCategoryTotals converts summary rows to domain totals
func ToDomainCategoryTotals(ms []models.CategoryTotal) []domain.CategoryTotal {
	ds := make([]domain.CategoryTotal, len(ms))
	for i, m := range ms {
		ds[i] = domain.CategoryTotal{
			Category: m.Category,
			Type:     domain.TransactionType(m.Type),
			Total:    m.Total,
		}
	}
	return ds
}

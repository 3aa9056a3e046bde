package mapping

import (
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/fireflow/fireflow_backend/internal/models"
)

// ToModelRecurringTransaction converts a domain RecurringTransaction to a model RecurringTransaction
func ToModelRecurringTransaction(d domain.RecurringTransaction) models.RecurringTransaction {
	return models.RecurringTransaction{
		RecurringTransactionID: d.RecurringTransactionID,
		UserID:                 d.UserID,
		Description:            d.Description,
		Category:               d.Category,
		Type:                   string(d.Type),
		Amount:                 d.Amount,
		Frequency:              string(d.Frequency),
		StartDate:              d.StartDate,
		NextRunDate:            d.NextRunDate,
		EndDate:                d.EndDate,
		IsActive:               d.IsActive,
		AuditFields:            models.AuditFields(d.AuditFields),
	}
}

// ToDomainRecurringTransaction converts a model RecurringTransaction to a domain RecurringTransaction.
// Postgres DATE columns come back at UTC midnight, matching domain.CalendarDate.
func ToDomainRecurringTransaction(m models.RecurringTransaction) domain.RecurringTransaction {
	return domain.RecurringTransaction{
		RecurringTransactionID: m.RecurringTransactionID,
		UserID:                 m.UserID,
		Description:            m.Description,
		Category:               m.Category,
		Type:                   domain.TransactionType(m.Type),
		Amount:                 m.Amount,
		Frequency:              domain.Frequency(m.Frequency),
		StartDate:              m.StartDate,
		NextRunDate:            m.NextRunDate,
		EndDate:                m.EndDate,
		IsActive:               m.IsActive,
		AuditFields:            domain.AuditFields(m.AuditFields),
	}
}

// ToDomainRecurringTransactionSlice converts a slice of model templates
func ToDomainRecurringTransactionSlice(ms []models.RecurringTransaction) []domain.RecurringTransaction {
	ds := make([]domain.RecurringTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRecurringTransaction(m)
	}
	return ds
}

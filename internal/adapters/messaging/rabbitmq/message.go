package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OccurrenceCreatedMessage announces one transaction materialized from a recurring template.
type OccurrenceCreatedMessage struct {
	TransactionID          string                 `json:"transactionID"`
	UserID                 string                 `json:"userID"`
	RecurringTransactionID string                 `json:"recurringTransactionID"`
	OccurrenceDate         string                 `json:"occurrenceDate"`
	Amount                 decimal.Decimal        `json:"amount"`
	Type                   domain.TransactionType `json:"type"`
	Category               string                 `json:"category"`
	Description            string                 `json:"description"`
	CreatedAt              time.Time              `json:"createdAt"`
}

// NewOccurrenceCreatedMessage builds the message for a generated transaction.
func NewOccurrenceCreatedMessage(txn domain.Transaction) (OccurrenceCreatedMessage, error) {
	if txn.RecurringTransactionID == nil || txn.OccurrenceDate == nil {
		return OccurrenceCreatedMessage{}, fmt.Errorf("transaction %s was not generated from a recurring template", txn.TransactionID)
	}
	return OccurrenceCreatedMessage{
		TransactionID:          txn.TransactionID,
		UserID:                 txn.UserID,
		RecurringTransactionID: *txn.RecurringTransactionID,
		OccurrenceDate:         txn.OccurrenceDate.Format(time.DateOnly),
		Amount:                 txn.Amount,
		Type:                   txn.Type,
		Category:               txn.Category,
		Description:            txn.Description,
		CreatedAt:              txn.CreatedAt,
	}, nil
}

// ToJSON encodes the message body.
func (m OccurrenceCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// OccurrenceCreatedMessageFromJSON decodes a message body.
func OccurrenceCreatedMessageFromJSON(data []byte) (*OccurrenceCreatedMessage, error) {
	var msg OccurrenceCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

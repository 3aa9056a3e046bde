package domain_test

import (
	"testing"
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_SignedAmount(t *testing.T) {
	tests := []struct {
		name        string
		transaction domain.Transaction
		want        decimal.Decimal
	}{
		{
			name:        "income stays positive",
			transaction: domain.Transaction{Amount: decimal.NewFromFloat(120.50), Type: domain.Income},
			want:        decimal.NewFromFloat(120.50),
		},
		{
			name:        "expense is negated",
			transaction: domain.Transaction{Amount: decimal.NewFromFloat(42), Type: domain.Expense},
			want:        decimal.NewFromFloat(-42),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.transaction.SignedAmount()
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestTransaction_Validate(t *testing.T) {
	now := time.Now()

	valid := domain.Transaction{
		TransactionID: "txn_123",
		UserID:        "user_123",
		Amount:        decimal.NewFromFloat(100.00),
		Type:          domain.Expense,
		Category:      "Groceries",
		Date:          now,
	}

	tests := []struct {
		name    string
		mutate  func(tx *domain.Transaction)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid expense",
			mutate:  func(tx *domain.Transaction) {},
			wantErr: false,
		},
		{
			name:    "missing owner",
			mutate:  func(tx *domain.Transaction) { tx.UserID = "" },
			wantErr: true,
			errMsg:  "owner is required",
		},
		{
			name:    "zero amount",
			mutate:  func(tx *domain.Transaction) { tx.Amount = decimal.Zero },
			wantErr: true,
			errMsg:  "amount must be positive",
		},
		{
			name:    "negative amount",
			mutate:  func(tx *domain.Transaction) { tx.Amount = decimal.NewFromInt(-5) },
			wantErr: true,
			errMsg:  "amount must be positive",
		},
		{
			name:    "unknown type",
			mutate:  func(tx *domain.Transaction) { tx.Type = "transfer" },
			wantErr: true,
			errMsg:  "type must be income or expense",
		},
		{
			name:    "blank category",
			mutate:  func(tx *domain.Transaction) { tx.Category = "   " },
			wantErr: true,
			errMsg:  "category is required",
		},
		{
			name:    "zero date",
			mutate:  func(tx *domain.Transaction) { tx.Date = time.Time{} },
			wantErr: true,
			errMsg:  "date is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewTransactionSummary(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	summary := domain.NewTransactionSummary(from, to, []domain.CategoryTotal{
		{Category: "Salary", Type: domain.Income, Total: decimal.NewFromInt(3000)},
		{Category: "Rent", Type: domain.Expense, Total: decimal.NewFromInt(1200)},
		{Category: "Food", Type: domain.Expense, Total: decimal.NewFromFloat(310.25)},
	})

	assert.True(t, decimal.NewFromInt(3000).Equal(summary.TotalIncome))
	assert.True(t, decimal.NewFromFloat(1510.25).Equal(summary.TotalExpense))
	assert.True(t, decimal.NewFromFloat(1489.75).Equal(summary.Net))
	assert.Len(t, summary.ByCategory, 3)

	empty := domain.NewTransactionSummary(from, to, nil)
	assert.NotNil(t, empty.ByCategory)
	assert.True(t, empty.Net.IsZero())
}

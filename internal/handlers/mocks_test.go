package handlers_test

import (
	"context"
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
)

const (
	testJWTSecret = "test-secret-key-that-is-long-enough"
	testAudience  = "authenticated"
)

// generateTestToken mints a Supabase-style access token for userID.
func generateTestToken(secret, userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": userID + "@example.com",
		"role":  "authenticated",
		"aud":   testAudience,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, transactionID, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, filter, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}
func (m *MockTransactionService) GetSummary(ctx context.Context, userID string, from, to time.Time) (*domain.TransactionSummary, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionSummary), args.Error(1)
}
func (m *MockTransactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) UpdateTransaction(ctx context.Context, transactionID, userID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) DeleteTransaction(ctx context.Context, transactionID, userID string) error {
	args := m.Called(ctx, transactionID, userID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock RecurringTransactionService ---
type MockRecurringService struct {
	mock.Mock
}

func (m *MockRecurringService) GetRecurringTransactionByID(ctx context.Context, recurringTransactionID, userID string) (*domain.RecurringTransaction, error) {
	args := m.Called(ctx, recurringTransactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTransaction), args.Error(1)
}
func (m *MockRecurringService) ListRecurringTransactions(ctx context.Context, userID string) ([]domain.RecurringTransaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTransaction), args.Error(1)
}
func (m *MockRecurringService) PreviewUpcoming(ctx context.Context, recurringTransactionID, userID string, count int) ([]time.Time, error) {
	args := m.Called(ctx, recurringTransactionID, userID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}
func (m *MockRecurringService) CreateRecurringTransaction(ctx context.Context, userID string, req dto.CreateRecurringTransactionRequest) (*domain.RecurringTransaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTransaction), args.Error(1)
}
func (m *MockRecurringService) UpdateRecurringTransaction(ctx context.Context, recurringTransactionID, userID string, req dto.UpdateRecurringTransactionRequest) (*domain.RecurringTransaction, error) {
	args := m.Called(ctx, recurringTransactionID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTransaction), args.Error(1)
}
func (m *MockRecurringService) DeleteRecurringTransaction(ctx context.Context, recurringTransactionID, userID string) error {
	args := m.Called(ctx, recurringTransactionID, userID)
	return args.Error(0)
}
func (m *MockRecurringService) SetRecurringTransactionActive(ctx context.Context, recurringTransactionID, userID string, active bool) (*domain.RecurringTransaction, error) {
	args := m.Called(ctx, recurringTransactionID, userID, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTransaction), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.RecurringTransactionSvcFacade = (*MockRecurringService)(nil)

// --- Mock RecurringProcessor ---
type MockRecurringProcessor struct {
	mock.Mock
}

func (m *MockRecurringProcessor) RunCatchUp(ctx context.Context, now time.Time) (domain.CatchUpSummary, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(domain.CatchUpSummary), args.Error(1)
}

var _ portssvc.RecurringProcessorSvc = (*MockRecurringProcessor)(nil)

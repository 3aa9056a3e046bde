package services_test

import (
	"context"
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portsrepo "github.com/fireflow/fireflow_backend/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, filter, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

func (m *MockTransactionRepository) SumTransactionsByCategory(ctx context.Context, userID string, from, to time.Time) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, transaction domain.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, transaction domain.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// --- Mock RecurringTransactionRepository ---
type MockRecurringRepository struct {
	mock.Mock
}

var _ portsrepo.RecurringTransactionRepositoryFacade = (*MockRecurringRepository)(nil)

func (m *MockRecurringRepository) FindRecurringTransactionByID(ctx context.Context, id string) (*domain.RecurringTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTransaction), args.Error(1)
}

func (m *MockRecurringRepository) ListRecurringTransactionsByUser(ctx context.Context, userID string) ([]domain.RecurringTransaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTransaction), args.Error(1)
}

func (m *MockRecurringRepository) SaveRecurringTransaction(ctx context.Context, rt domain.RecurringTransaction) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}

func (m *MockRecurringRepository) UpdateRecurringTransaction(ctx context.Context, rt domain.RecurringTransaction) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}

func (m *MockRecurringRepository) DeleteRecurringTransaction(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecurringRepository) ListActiveRecurringTransactions(ctx context.Context) ([]domain.RecurringTransaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTransaction), args.Error(1)
}

func (m *MockRecurringRepository) ApplyCatchUp(ctx context.Context, id string, plan domain.CatchUpPlan, occurrences []domain.Transaction, appliedAt time.Time) error {
	args := m.Called(ctx, id, plan, occurrences, appliedAt)
	return args.Error(0)
}

// --- Mock GoalRepository ---
type MockGoalRepository struct {
	mock.Mock
}

var _ portsrepo.GoalRepositoryFacade = (*MockGoalRepository)(nil)

func (m *MockGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) ListGoalsByParticipant(ctx context.Context, userID string) ([]domain.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal, owner domain.GoalParticipant) error {
	args := m.Called(ctx, goal, owner)
	return args.Error(0)
}

func (m *MockGoalRepository) UpdateGoal(ctx context.Context, goal domain.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) DeleteGoal(ctx context.Context, goalID string) error {
	args := m.Called(ctx, goalID)
	return args.Error(0)
}

func (m *MockGoalRepository) AddGoalParticipant(ctx context.Context, participant domain.GoalParticipant) error {
	args := m.Called(ctx, participant)
	return args.Error(0)
}

func (m *MockGoalRepository) FindGoalParticipant(ctx context.Context, goalID, userID string) (*domain.GoalParticipant, error) {
	args := m.Called(ctx, goalID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoalParticipant), args.Error(1)
}

func (m *MockGoalRepository) ListGoalParticipants(ctx context.Context, goalID string) ([]domain.GoalParticipant, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GoalParticipant), args.Error(1)
}

func (m *MockGoalRepository) RemoveGoalParticipant(ctx context.Context, goalID, userID string) error {
	args := m.Called(ctx, goalID, userID)
	return args.Error(0)
}

func (m *MockGoalRepository) SaveContribution(ctx context.Context, contribution domain.GoalContribution) (*domain.Goal, error) {
	args := m.Called(ctx, contribution)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) ListContributions(ctx context.Context, goalID string) ([]domain.GoalContribution, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GoalContribution), args.Error(1)
}

// --- Mock FriendshipRepository ---
type MockFriendshipRepository struct {
	mock.Mock
}

var _ portsrepo.FriendshipRepositoryFacade = (*MockFriendshipRepository)(nil)

func (m *MockFriendshipRepository) FindFriendshipByID(ctx context.Context, friendshipID string) (*domain.Friendship, error) {
	args := m.Called(ctx, friendshipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) FindFriendshipBetween(ctx context.Context, userA, userB string) (*domain.Friendship, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) ListPendingRequests(ctx context.Context, addresseeID string) ([]domain.Friendship, error) {
	args := m.Called(ctx, addresseeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) ListFriends(ctx context.Context, userID string) ([]domain.Friend, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Friend), args.Error(1)
}

func (m *MockFriendshipRepository) SaveFriendship(ctx context.Context, friendship domain.Friendship) error {
	args := m.Called(ctx, friendship)
	return args.Error(0)
}

func (m *MockFriendshipRepository) UpdateFriendshipStatus(ctx context.Context, friendshipID string, status domain.FriendshipStatus, respondedBy string, respondedAt time.Time) error {
	args := m.Called(ctx, friendshipID, status, respondedBy, respondedAt)
	return args.Error(0)
}

func (m *MockFriendshipRepository) DeleteFriendship(ctx context.Context, friendshipID string) error {
	args := m.Called(ctx, friendshipID)
	return args.Error(0)
}

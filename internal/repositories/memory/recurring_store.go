// Package memory holds in-process implementations of the storage ports. They back the
// generator in tests and in dry runs and enforce the same guarantees as the Postgres store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portsrepo "github.com/fireflow/fireflow_backend/internal/core/ports/repositories"
)

type occurrenceKey struct {
	templateID string
	date       time.Time
}

// RecurringStore keeps templates and generated transactions in memory.
type RecurringStore struct {
	mu           sync.Mutex
	templates    map[string]domain.RecurringTransaction
	transactions []domain.Transaction
	occurrences  map[occurrenceKey]struct{}
}

// NewRecurringStore creates a store seeded with templates.
func NewRecurringStore(templates ...domain.RecurringTransaction) *RecurringStore {
	s := &RecurringStore{
		templates:   make(map[string]domain.RecurringTransaction, len(templates)),
		occurrences: make(map[occurrenceKey]struct{}),
	}
	for _, rt := range templates {
		s.templates[rt.RecurringTransactionID] = rt
	}
	return s
}

var _ portsrepo.RecurringCatchUpStore = (*RecurringStore)(nil)

// PutTemplate inserts or replaces a template.
func (s *RecurringStore) PutTemplate(rt domain.RecurringTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[rt.RecurringTransactionID] = rt
}

// Template returns the stored state of a template.
func (s *RecurringStore) Template(id string) (domain.RecurringTransaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.templates[id]
	return rt, ok
}

// Transactions returns a copy of every generated transaction in insertion order.
func (s *RecurringStore) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// TransactionsFor returns the transactions generated from one template.
func (s *RecurringStore) TransactionsFor(templateID string) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Transaction
	for _, t := range s.transactions {
		if t.RecurringTransactionID != nil && *t.RecurringTransactionID == templateID {
			out = append(out, t)
		}
	}
	return out
}

// ListActiveRecurringTransactions returns active templates ordered by ID.
func (s *RecurringStore) ListActiveRecurringTransactions(ctx context.Context) ([]domain.RecurringTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	active := make([]domain.RecurringTransaction, 0, len(s.templates))
	for _, rt := range s.templates {
		if rt.IsActive {
			active = append(active, rt)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].RecurringTransactionID < active[j].RecurringTransactionID
	})
	return active, nil
}

// ApplyCatchUp inserts the occurrences and updates the template all or nothing.
func (s *RecurringStore) ApplyCatchUp(ctx context.Context, recurringTransactionID string, plan domain.CatchUpPlan, occurrences []domain.Transaction, appliedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rt, ok := s.templates[recurringTransactionID]
	if !ok {
		return apperrors.NewNotFoundError("recurring transaction " + recurringTransactionID)
	}
	if !rt.IsActive || !rt.NextRunDate.Equal(plan.ExpectedNextRunDate) {
		return apperrors.NewStaleWriteError("recurring transaction " + recurringTransactionID + " was advanced concurrently")
	}

	keys := make([]occurrenceKey, 0, len(occurrences))
	for _, occ := range occurrences {
		if occ.OccurrenceDate == nil {
			return fmt.Errorf("occurrence %s has no occurrence date", occ.TransactionID)
		}
		key := occurrenceKey{templateID: recurringTransactionID, date: *occ.OccurrenceDate}
		if _, dup := s.occurrences[key]; dup {
			return apperrors.NewStaleWriteError(fmt.Sprintf("occurrence %s of %s already exists",
				occ.OccurrenceDate.Format(time.DateOnly), recurringTransactionID))
		}
		keys = append(keys, key)
	}

	for i, occ := range occurrences {
		s.occurrences[keys[i]] = struct{}{}
		s.transactions = append(s.transactions, occ)
	}
	rt.NextRunDate = plan.NextRunDate
	rt.IsActive = plan.IsActive
	rt.LastUpdatedAt = appliedAt
	rt.Version++
	s.templates[recurringTransactionID] = rt
	return nil
}

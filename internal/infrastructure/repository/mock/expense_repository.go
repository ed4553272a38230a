package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/expense"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// MockExpenseRepository is an in-memory append-only ledger.
// It enforces the (period, source key) uniqueness the SQLite ledger enforces.
type MockExpenseRepository struct {
	mu        sync.RWMutex
	records   []*expense.ExpenseRecord
	keys      map[string]bool
	listErr   error
	createErr map[string]error
}

// NewMockExpenseRepository creates a new in-memory ledger
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		keys:      make(map[string]bool),
		createErr: make(map[string]error),
	}
}

// FailListByPeriod makes ListByPeriod return err
func (m *MockExpenseRepository) FailListByPeriod(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// FailCreate makes Create return err for one source key
func (m *MockExpenseRepository) FailCreate(sourceKey string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr[sourceKey] = err
}

// All returns every record across periods
func (m *MockExpenseRepository) All() []*expense.ExpenseRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*expense.ExpenseRecord(nil), m.records...)
}

func (m *MockExpenseRepository) ListByPeriod(ctx context.Context, period expense.BillingPeriod) ([]*expense.ExpenseRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	var result []*expense.ExpenseRecord
	for _, r := range m.records {
		if r.BillingPeriod().Equals(period) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *MockExpenseRepository) Create(ctx context.Context, record *expense.ExpenseRecord) (*expense.ExpenseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.createErr[record.SourceKey()]; err != nil {
		return nil, err
	}

	key := record.BillingPeriod().String() + "|" + record.SourceKey()
	if m.keys[key] {
		return nil, fmt.Errorf("%s in %s: %w", record.SourceKey(), record.BillingPeriod(), repository.ErrDuplicateSourceKey)
	}

	stored := record.WithID(expense.GenerateID())
	m.records = append(m.records, stored)
	m.keys[key] = true
	return stored, nil
}

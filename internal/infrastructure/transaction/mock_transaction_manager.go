package transaction

import "context"

// MockTransactionManager runs functions without a real transaction.
// It backs the in-memory store, whose repositories are individually synchronized,
// so a write failing midway leaves the earlier writes in place.
type MockTransactionManager struct{}

// NewMockTransactionManager creates a new mock transaction manager
func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

// InTransaction calls fn with ctx unchanged
func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

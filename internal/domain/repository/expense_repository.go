package repository

import (
	"context"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/expense"
)

// ExpenseRepository is the append-only expense ledger.
// The engine never updates or deletes records.
type ExpenseRepository interface {
	// ListByPeriod retrieves every record of one billing period
	ListByPeriod(ctx context.Context, period expense.BillingPeriod) ([]*expense.ExpenseRecord, error)

	// Create appends a record and returns it with its ledger-assigned ID.
	// Returns ErrDuplicateSourceKey if the period already holds the record's source key.
	Create(ctx context.Context, record *expense.ExpenseRecord) (*expense.ExpenseRecord, error)
}

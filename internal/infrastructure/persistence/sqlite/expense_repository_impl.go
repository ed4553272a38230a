package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/expense"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// ExpenseRepositoryImpl implements repository.ExpenseRepository with SQLite.
// The table is append-only; no update or delete statement exists for it.
type ExpenseRepositoryImpl struct {
	db *sql.DB
}

// NewExpenseRepository creates a new SQLite-based expense ledger
func NewExpenseRepository(db *sql.DB) repository.ExpenseRepository {
	return &ExpenseRepositoryImpl{db: db}
}

// ListByPeriod retrieves every record of one billing period in creation order
func (r *ExpenseRepositoryImpl) ListByPeriod(ctx context.Context, period expense.BillingPeriod) ([]*expense.ExpenseRecord, error) {
	query := `
		SELECT id, billing_period, source_key, person, person_name, work_item_kind, work_item_id,
		       project_id, project_name, title, hours, rate_per_hour, amount, created_at
		FROM expense_records
		WHERE billing_period = ?
		ORDER BY created_at, id
	`

	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, period.String())
	if err != nil {
		return nil, fmt.Errorf("query expense records: %w", err)
	}
	defer rows.Close()

	var records []*expense.ExpenseRecord
	for rows.Next() {
		var (
			id, periodStr, sourceKey, personID, personName, kind string
			workItemID, projectID, projectName, title, createdAt string
			hours, ratePerHour, amount                           float64
		)
		if err := rows.Scan(&id, &periodStr, &sourceKey, &personID, &personName, &kind, &workItemID,
			&projectID, &projectName, &title, &hours, &ratePerHour, &amount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan expense record: %w", err)
		}

		p, err := expense.ParseBillingPeriod(periodStr)
		if err != nil {
			return nil, fmt.Errorf("expense record %s: %w", id, err)
		}
		created, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", id, err)
		}

		records = append(records, expense.ReconstructExpenseRecord(
			id, p, sourceKey, personID, personName, workitem.Kind(kind),
			workItemID, projectID, projectName, title, hours, ratePerHour, amount, created,
		))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense records: %w", err)
	}

	return records, nil
}

// Create appends a record with a fresh ULID
func (r *ExpenseRepositoryImpl) Create(ctx context.Context, record *expense.ExpenseRecord) (*expense.ExpenseRecord, error) {
	stored := record.WithID(expense.GenerateID())

	_, err := executorFor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO expense_records (
			id, billing_period, source_key, person, person_name, work_item_kind, work_item_id,
			project_id, project_name, title, hours, rate_per_hour, amount, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID(),
		stored.BillingPeriod().String(),
		stored.SourceKey(),
		stored.Person(),
		stored.PersonName(),
		string(stored.Kind()),
		stored.WorkItemID(),
		stored.ProjectID(),
		stored.ProjectName(),
		stored.Title(),
		stored.Hours(),
		stored.RatePerHour(),
		stored.Amount(),
		formatTime(stored.CreatedAt()),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%s in %s: %w", stored.SourceKey(), stored.BillingPeriod(), repository.ErrDuplicateSourceKey)
		}
		return nil, fmt.Errorf("insert expense record: %w", err)
	}

	return stored, nil
}

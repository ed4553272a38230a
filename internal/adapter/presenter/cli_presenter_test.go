package presenter_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/billrecon/internal/adapter/presenter"
	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
)

func TestCLIPresenter_Audit(t *testing.T) {
	buf := &bytes.Buffer{}
	p := presenter.NewCLIPresenter(buf)

	report := &dto.AuditReport{
		TeamTasks: dto.KindSection{
			Kind: "team-task", Total: 3, FinishedWithoutHours: 1,
			ByStatus: map[string]int{"completed": 2, "review": 1},
			Samples:  []dto.WorkItemSample{{ID: "t1", Status: "completed", ActualHours: 2, Assignee: "ana"}},
		},
		Features: dto.KindSection{Kind: "feature", ByStatus: map[string]int{}},
		Ledger:   dto.LedgerSection{Period: "2026-10", Records: 2, Amount: 1500},
		Reasons:  []string{"1 finished team-task item(s) lack hours"},
	}
	require.NoError(t, p.PresentSuccess("audit complete", report))

	out := buf.String()
	assert.Contains(t, out, "audit complete")
	assert.Contains(t, out, "completed=2 review=1")
	assert.Contains(t, out, "t1 [completed] 2h ana")
	assert.Contains(t, out, "1500.00")
	assert.Contains(t, out, "Generation would create nothing")
	assert.Contains(t, out, "1 finished team-task item(s) lack hours")
}

func TestCLIPresenter_Generate(t *testing.T) {
	buf := &bytes.Buffer{}
	p := presenter.NewCLIPresenter(buf)

	report := &dto.GenerateReport{
		RunID:     "run-9",
		Period:    "2026-10",
		DryRun:    true,
		Records:   []dto.ExpenseDTO{{SourceKey: "team-task-t1", Title: "Deploy", Hours: 2, RatePerHour: 500, Amount: 1000}},
		PerPerson: []dto.PersonSummary{{PersonID: "ana", Name: "Ana", Created: 1, Amount: 1000}},
		Skipped:   dto.SkipCounts{AlreadyBilled: 3},
		Errors:    []dto.ItemError{{Kind: "feature", ID: "f2", Message: "ledger write timeout"}},
	}
	require.NoError(t, p.PresentSuccess("would create 1 expense record(s) for 2026-10", report))

	out := buf.String()
	assert.Contains(t, out, "period 2026-10 (preview)")
	assert.Contains(t, out, "team-task-t1")
	assert.Contains(t, out, "1000.00")
	assert.Contains(t, out, "1 error(s)")
	assert.Contains(t, out, "feature f2: ledger write timeout")
	assert.Contains(t, out, "run run-9")
}

func TestCLIPresenter_RatesAndLedger(t *testing.T) {
	buf := &bytes.Buffer{}
	p := presenter.NewCLIPresenter(buf)

	require.NoError(t, p.PresentSuccess("rates", []dto.RateDTO{
		{PersonID: "ana@example.com", PersonName: "Ana", RatePerHour: 500},
		{PersonID: "ben@example.com", PersonName: "Ben", RatePerHour: 0},
	}))
	assert.Contains(t, buf.String(), "500.00")
	assert.Contains(t, buf.String(), "(not billable)")

	buf.Reset()
	require.NoError(t, p.PresentSuccess("ledger", &dto.LedgerListing{
		Period:  "2026-10",
		Records: []dto.ExpenseDTO{{Person: "ana", SourceKey: "feature-f1", Hours: 0.1, RatePerHour: 500, Amount: 50}},
		Total:   50,
	}))
	assert.Contains(t, buf.String(), "ledger 2026-10")
	assert.Contains(t, buf.String(), "feature-f1")
	assert.Contains(t, buf.String(), "50.00")
}

func TestCLIPresenter_PresentError(t *testing.T) {
	buf := &bytes.Buffer{}
	p := presenter.NewCLIPresenter(buf)

	assert.NoError(t, p.PresentError(errors.New("stores unreachable")))
	assert.Contains(t, buf.String(), "Error: stores unreachable")
}

func TestCLIPresenter_PresentPartial(t *testing.T) {
	buf := &bytes.Buffer{}
	p := presenter.NewCLIPresenter(buf)

	report := &dto.AuditReport{
		TeamTasks: dto.KindSection{Kind: "team-task", Error: "list team tasks: disk I/O error"},
		Features:  dto.KindSection{Kind: "feature"},
		Ledger:    dto.LedgerSection{Period: "2026-10"},
	}
	require.NoError(t, p.PresentPartial(errors.New("stores unreachable"), report))

	out := buf.String()
	assert.Contains(t, out, "disk I/O error")
	assert.Contains(t, out, "Error: stores unreachable")
	assert.NotContains(t, out, "✓")
}

func TestCLIPresenter_RateGeneration(t *testing.T) {
	buf := &bytes.Buffer{}
	p := presenter.NewCLIPresenter(buf)

	require.NoError(t, p.PresentSuccess("Rate saved", &dto.RateGeneration{
		Rate:       dto.RateDTO{PersonID: "ana", PersonName: "Ana", RatePerHour: 600},
		Generation: &dto.GenerateReport{Period: "2026-10", PerPerson: []dto.PersonSummary{{PersonID: "ana", Name: "Ana", Created: 1, Amount: 1200}}},
	}))
	assert.Contains(t, buf.String(), "600.00")
	assert.Contains(t, buf.String(), "period 2026-10")
	assert.Contains(t, buf.String(), "1200.00")
}

package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
)

func TestDirectory_SetAndListRates(t *testing.T) {
	env := newTestEnv()
	uc := NewDirectoryUseCase(env.rates, env.ledger, fixedClock, silentLogger{})
	ctx := context.Background()

	saved, err := uc.SetRate(ctx, dto.RateDTO{PersonID: "ana@example.com", RatePerHour: 75})
	require.NoError(t, err)
	assert.Equal(t, "ana", saved.PersonName)

	_, err = uc.SetRate(ctx, dto.RateDTO{PersonID: "ANA@example.com", PersonName: "Ana", RatePerHour: 80})
	require.NoError(t, err)

	rates, err := uc.ListRates(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, 80.0, rates[0].RatePerHour)

	_, err = uc.SetRate(ctx, dto.RateDTO{PersonID: "ben", RatePerHour: -5})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestDirectory_ListLedger(t *testing.T) {
	env := newGenerateEnv(t)
	env.addRate("ben", "Ben", 10)
	env.addRate("ana", "Ana", 20)
	env.items.Put(
		teamTask("t1", workitem.StatusCompleted, "ben", 1),
		teamTask("t2", workitem.StatusCompleted, "ana", 2),
	)
	_, err := env.generator("").GenerateAll(context.Background(), dto.GenerateRequest{})
	require.NoError(t, err)

	uc := NewDirectoryUseCase(env.rates, env.ledger, fixedClock, silentLogger{})
	listing, err := uc.ListLedger(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "2026-10", listing.Period)
	require.Len(t, listing.Records, 2)
	assert.Equal(t, "ana", listing.Records[0].Person)
	assert.Equal(t, 50.0, listing.Total)

	other, err := uc.ListLedger(context.Background(), "2026-09")
	require.NoError(t, err)
	assert.Empty(t, other.Records)

	_, err = uc.ListLedger(context.Background(), "2026-13")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	env.ledger.FailListByPeriod(errors.New("offline"))
	_, err = uc.ListLedger(context.Background(), "")
	assert.Error(t, err)
}

func TestReports_ListAndShow(t *testing.T) {
	env := newTestEnv()
	env.items.Put(teamTask("t1", workitem.StatusCompleted, "ana", 0))

	repair, err := env.repair().Execute(context.Background())
	require.NoError(t, err)

	archive := &storedArchive{recordingArchive: env.archive}
	uc := NewReportUseCase(archive)

	list, err := uc.ListReports(context.Background(), "repair")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, repair.RunID, list[0].RunID)

	doc, err := uc.ShowReport(context.Background(), list[0].ID)
	require.NoError(t, err)
	assert.Contains(t, string(doc.Content), repair.RunID)

	all, err := uc.ListReports(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 1, "empty kind lists every kind")

	_, err = uc.ListReports(context.Background(), "invoice")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = NewReportUseCase(nil).ListReports(context.Background(), "repair")
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}

// storedArchive serves the reports captured by a recordingArchive, keyed by run ID
type storedArchive struct {
	*recordingArchive
}

func (a *storedArchive) LoadReport(ctx context.Context, reportID string) (*output.Report, error) {
	for _, r := range a.saved() {
		if r.RunID == reportID {
			return &output.Report{ID: r.RunID, Content: r.Content, Metadata: output.ReportMetadata{ID: r.RunID, RunID: r.RunID, Kind: r.Kind}}, nil
		}
	}
	return nil, output.ErrReportNotFound
}

func (a *storedArchive) ListReports(ctx context.Context, kind output.ReportKind) ([]*output.ReportMetadata, error) {
	var list []*output.ReportMetadata
	for _, r := range a.saved() {
		if r.Kind == kind {
			list = append(list, &output.ReportMetadata{ID: r.RunID, RunID: r.RunID, Kind: r.Kind})
		}
	}
	return list, nil
}

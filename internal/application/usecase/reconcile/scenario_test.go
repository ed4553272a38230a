package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/project"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
)

// A finished feature without hours is invisible to billing until repair
// writes the minimal quantum, after which it is billed exactly once.
func TestScenario_AuditRepairGenerate(t *testing.T) {
	env := newGenerateEnv(t, &project.Project{ID: "p1", Name: "Portal"})
	env.addRate("ana", "Ana", 500)
	env.items.Put(feature("f1", "p1", workitem.StatusDone, "ana", 0))
	ctx := context.Background()

	audit, err := env.audit().Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, audit.Features.FinishedWithoutHours)
	assert.False(t, audit.CanGenerate)
	assert.Contains(t, audit.Reasons, "no finished work items with hours")

	before, err := env.generator("").GenerateAll(ctx, dto.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, before.Created)
	assert.Equal(t, 1, before.Skipped.NoHours)

	repair, err := env.repair().Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repair.Features.HoursSet)

	audit, err = env.audit().Execute(ctx)
	require.NoError(t, err)
	assert.True(t, audit.CanGenerate)

	after, err := env.generator("").GenerateAll(ctx, dto.GenerateRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, after.Created)
	assert.InDelta(t, 50.0, after.Records[0].Amount, 1e-9)
	assert.Equal(t, "feature-f1", after.Records[0].SourceKey)

	again, err := env.generator("").GenerateAll(ctx, dto.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Len(t, env.ledger.All(), 1)
}

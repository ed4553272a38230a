package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/expense"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/project"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// listAllFeatures lists the features of every project.
// A project whose fetch fails is reported and skipped.
func listAllFeatures(ctx context.Context, repo repository.WorkItemRepository, projects []*project.Project) ([]*workitem.WorkItem, []dto.ItemError) {
	var (
		features []*workitem.WorkItem
		failures []dto.ItemError
	)
	for _, p := range projects {
		items, err := repo.ListFeatures(ctx, p.ID)
		if err != nil {
			failures = append(failures, dto.ItemError{
				Kind:      workitem.KindFeature.String(),
				ProjectID: p.ID,
				Message:   fmt.Sprintf("list features of project %s: %v", p.DisplayName(), err),
			})
			continue
		}
		features = append(features, items...)
	}
	return features, failures
}

// resolvePeriod parses raw, or derives the period of now in loc when raw is empty
func resolvePeriod(raw string, now time.Time, loc *time.Location) (expense.BillingPeriod, error) {
	if raw == "" {
		return expense.PeriodFor(now, loc), nil
	}
	period, err := expense.ParseBillingPeriod(raw)
	if err != nil {
		return expense.BillingPeriod{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return period, nil
}

package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/YoshitsuguKoike/billrecon/internal/app"
	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/rate"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// DirectoryUseCaseImpl implements input.DirectoryUseCase
type DirectoryUseCaseImpl struct {
	rateRepo    repository.RateRepository
	expenseRepo repository.ExpenseRepository
	clock       Clock
	logger      app.Logger
}

// NewDirectoryUseCase creates a new directory use case
func NewDirectoryUseCase(rateRepo repository.RateRepository, expenseRepo repository.ExpenseRepository, clock Clock, logger app.Logger) *DirectoryUseCaseImpl {
	if logger == nil {
		logger = app.GetLogger()
	}
	return &DirectoryUseCaseImpl{
		rateRepo:    rateRepo,
		expenseRepo: expenseRepo,
		clock:       clock.withDefaults(),
		logger:      logger,
	}
}

// ListRates returns the rate directory
func (uc *DirectoryUseCaseImpl) ListRates(ctx context.Context) ([]dto.RateDTO, error) {
	rates, err := uc.rateRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	result := make([]dto.RateDTO, 0, len(rates))
	for _, r := range rates {
		result = append(result, dto.ToRateDTO(r))
	}
	return result, nil
}

// SetRate creates or replaces the rate of one person. A zero rate is stored
// and later reported as a configuration gap.
func (uc *DirectoryUseCaseImpl) SetRate(ctx context.Context, in dto.RateDTO) (*dto.RateDTO, error) {
	r, err := rate.NewHourlyRate(in.PersonID, in.PersonName, in.RatePerHour)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := uc.rateRepo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save rate for %s: %w", r.PersonID(), err)
	}
	uc.logger.Info("rate for %s set to %g", r.PersonID(), r.RatePerHour())

	out := dto.ToRateDTO(r)
	return &out, nil
}

// ListLedger returns the records of a period, ordered by person then source key
func (uc *DirectoryUseCaseImpl) ListLedger(ctx context.Context, rawPeriod string) (*dto.LedgerListing, error) {
	period, err := resolvePeriod(rawPeriod, uc.clock.Now(), uc.clock.Location)
	if err != nil {
		return nil, err
	}

	records, err := uc.expenseRepo.ListByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("list ledger records for %s: %w", period, err)
	}

	listing := &dto.LedgerListing{Period: period.String(), Records: make([]dto.ExpenseDTO, 0, len(records))}
	for _, r := range records {
		listing.Records = append(listing.Records, dto.ToExpenseDTO(r))
		listing.Total += r.Amount()
	}
	sort.SliceStable(listing.Records, func(i, j int) bool {
		a, b := listing.Records[i], listing.Records[j]
		if a.Person != b.Person {
			return a.Person < b.Person
		}
		return a.SourceKey < b.SourceKey
	})
	return listing, nil
}

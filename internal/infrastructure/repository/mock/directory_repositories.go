package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/person"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/project"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/rate"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// MockProjectRepository is an in-memory implementation of ProjectRepository
type MockProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]*project.Project
	listErr  error
}

// NewMockProjectRepository creates a new in-memory project repository
func NewMockProjectRepository(projects ...*project.Project) *MockProjectRepository {
	m := &MockProjectRepository{projects: make(map[string]*project.Project)}
	for _, p := range projects {
		m.projects[p.ID] = p
	}
	return m
}

// FailList makes List return err
func (m *MockProjectRepository) FailList(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

func (m *MockProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	result := make([]*project.Project, 0, len(m.projects))
	for _, p := range m.projects {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// MockRateRepository is an in-memory implementation of RateRepository
type MockRateRepository struct {
	mu      sync.RWMutex
	rates   map[string]*rate.HourlyRate
	listErr error
}

// NewMockRateRepository creates a new in-memory rate repository
func NewMockRateRepository(rates ...*rate.HourlyRate) *MockRateRepository {
	m := &MockRateRepository{rates: make(map[string]*rate.HourlyRate)}
	for _, r := range rates {
		m.rates[r.Key()] = r
	}
	return m
}

// FailList makes List return err
func (m *MockRateRepository) FailList(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

func (m *MockRateRepository) List(ctx context.Context) ([]*rate.HourlyRate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	result := make([]*rate.HourlyRate, 0, len(m.rates))
	for _, r := range m.rates {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key() < result[j].Key() })
	return result, nil
}

func (m *MockRateRepository) Find(ctx context.Context, personID string) (*rate.HourlyRate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, exists := m.rates[person.NormalizeID(personID)]
	if !exists {
		return nil, fmt.Errorf("rate for %s: %w", personID, repository.ErrNotFound)
	}
	return r, nil
}

func (m *MockRateRepository) Save(ctx context.Context, r *rate.HourlyRate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rates[r.Key()] = r
	return nil
}

// MockSeedRepository writes fixtures into the in-memory work item and project repositories
type MockSeedRepository struct {
	items    *MockWorkItemRepository
	projects *MockProjectRepository
}

// NewMockSeedRepository creates a seed repository over the given in-memory stores
func NewMockSeedRepository(items *MockWorkItemRepository, projects *MockProjectRepository) *MockSeedRepository {
	return &MockSeedRepository{items: items, projects: projects}
}

func (m *MockSeedRepository) SaveProject(ctx context.Context, p *project.Project) error {
	m.projects.mu.Lock()
	defer m.projects.mu.Unlock()

	m.projects.projects[p.ID] = p
	return nil
}

func (m *MockSeedRepository) SaveWorkItem(ctx context.Context, w *workitem.WorkItem) error {
	m.items.Put(w)
	return nil
}

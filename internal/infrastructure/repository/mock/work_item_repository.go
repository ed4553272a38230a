package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/person"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// MockWorkItemRepository is an in-memory implementation of WorkItemRepository.
// Failures can be injected per collection and per item.
type MockWorkItemRepository struct {
	mu        sync.RWMutex
	teamTasks map[string]*workitem.WorkItem
	features  map[string]*workitem.WorkItem

	listTeamTasksErr error
	listFeaturesErr  map[string]error
	updateErr        map[string]error
	updateCalls      int
}

// NewMockWorkItemRepository creates a new in-memory work item repository
func NewMockWorkItemRepository() *MockWorkItemRepository {
	return &MockWorkItemRepository{
		teamTasks:       make(map[string]*workitem.WorkItem),
		features:        make(map[string]*workitem.WorkItem),
		listFeaturesErr: make(map[string]error),
		updateErr:       make(map[string]error),
	}
}

// Put stores items, replacing any with the same kind and ID
func (m *MockWorkItemRepository) Put(items ...*workitem.WorkItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range items {
		m.bucket(w.Kind())[w.ID()] = w
	}
}

// Get returns a stored item, or nil
func (m *MockWorkItemRepository) Get(kind workitem.Kind, id string) *workitem.WorkItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bucket(kind)[id]
}

// FailListTeamTasks makes ListTeamTasks return err
func (m *MockWorkItemRepository) FailListTeamTasks(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listTeamTasksErr = err
}

// FailListFeatures makes ListFeatures return err for one project
func (m *MockWorkItemRepository) FailListFeatures(projectID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listFeaturesErr[projectID] = err
}

// FailUpdate makes Update return err for one item
func (m *MockWorkItemRepository) FailUpdate(kind workitem.Kind, id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateErr[workitem.SourceKey(kind, id)] = err
}

// UpdateCalls returns how many successful writes Update performed
func (m *MockWorkItemRepository) UpdateCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updateCalls
}

func (m *MockWorkItemRepository) ListTeamTasks(ctx context.Context, filter repository.TeamTaskFilter) ([]*workitem.WorkItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.listTeamTasksErr != nil {
		return nil, m.listTeamTasksErr
	}

	var result []*workitem.WorkItem
	for _, w := range m.teamTasks {
		if filter.Status != "" && w.Status() != filter.Status {
			continue
		}
		if filter.Assignee != "" && !person.SameID(w.Assignee(), filter.Assignee) {
			continue
		}
		result = append(result, w)
	}
	sortByID(result)
	return result, nil
}

func (m *MockWorkItemRepository) ListFeatures(ctx context.Context, projectID string) ([]*workitem.WorkItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.listFeaturesErr[projectID]; err != nil {
		return nil, err
	}

	var result []*workitem.WorkItem
	for _, w := range m.features {
		if w.ProjectID() == projectID {
			result = append(result, w)
		}
	}
	sortByID(result)
	return result, nil
}

func (m *MockWorkItemRepository) Update(ctx context.Context, kind workitem.Kind, id string, patch workitem.Patch) (*workitem.WorkItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.updateErr[workitem.SourceKey(kind, id)]; err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown work item kind: %q", kind)
	}

	current, exists := m.bucket(kind)[id]
	if !exists {
		return nil, fmt.Errorf("%s %s: %w", kind, id, repository.ErrNotFound)
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := current.Apply(patch)
	if err != nil {
		return nil, err
	}
	m.bucket(kind)[id] = updated
	m.updateCalls++
	return updated, nil
}

func (m *MockWorkItemRepository) bucket(kind workitem.Kind) map[string]*workitem.WorkItem {
	if kind == workitem.KindFeature {
		return m.features
	}
	return m.teamTasks
}

func sortByID(items []*workitem.WorkItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID() < items[j].ID() })
}

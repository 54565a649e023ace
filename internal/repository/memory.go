package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// memoryWorkItemRepository keeps work items in process memory. It backs
// DSN-less development runs and unit tests; the contract matches the
// postgres repository, including pgx.ErrNoRows for missing rows.
type memoryWorkItemRepository struct {
	mu    sync.RWMutex
	items map[string]domain.WorkItem
}

// NewMemoryWorkItemRepository creates an empty in-memory repository.
func NewMemoryWorkItemRepository() WorkItemRepository {
	return &memoryWorkItemRepository{items: make(map[string]domain.WorkItem)}
}

func (r *memoryWorkItemRepository) Create(_ context.Context, item *domain.WorkItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	r.items[item.ID] = *item
	return nil
}

func (r *memoryWorkItemRepository) Update(_ context.Context, item *domain.WorkItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return pgx.ErrNoRows
	}
	item.UpdatedAt = time.Now()
	r.items[item.ID] = *item
	return nil
}

func (r *memoryWorkItemRepository) GetByID(_ context.Context, id string) (*domain.WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &item, nil
}

func (r *memoryWorkItemRepository) ListOpen(ctx context.Context) ([]domain.WorkItem, error) {
	return r.ListWithFilter(ctx, WorkItemFilter{
		Statuses: []domain.WorkItemStatus{domain.WorkItemStatusOpen, domain.WorkItemStatusInProgress},
		Limit:    1000,
	})
}

func (r *memoryWorkItemRepository) ListWithFilter(_ context.Context, filter WorkItemFilter) ([]domain.WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.WorkItem
	for _, item := range r.items {
		if !matchesFilter(item, filter) {
			continue
		}
		result = append(result, item)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(result) {
		return []domain.WorkItem{}, nil
	}
	result = result[offset:]
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func matchesFilter(item domain.WorkItem, filter WorkItemFilter) bool {
	if filter.Kind != nil && item.Kind != *filter.Kind {
		return false
	}
	if filter.RequesterID != nil && item.RequesterID != *filter.RequesterID {
		return false
	}
	if filter.Category != nil && item.Category != *filter.Category {
		return false
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, item.Status) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, item.Priority) {
		return false
	}
	if filter.CreatedFrom != nil && item.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && item.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	return true
}

func containsStatus(statuses []domain.WorkItemStatus, status domain.WorkItemStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func containsPriority(priorities []domain.Priority, priority domain.Priority) bool {
	for _, p := range priorities {
		if p == priority {
			return true
		}
	}
	return false
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// WorkItemFilter captures listing parameters.
type WorkItemFilter struct {
	Kind        *domain.WorkItemKind
	RequesterID *string
	Statuses    []domain.WorkItemStatus
	Priorities  []domain.Priority
	Category    *domain.Category
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// WorkItemRepository encapsulates work-item persistence. The automation core
// never embeds storage logic; it talks only to this interface.
type WorkItemRepository interface {
	Create(ctx context.Context, item *domain.WorkItem) error
	Update(ctx context.Context, item *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	ListWithFilter(ctx context.Context, filter WorkItemFilter) ([]domain.WorkItem, error)
	ListOpen(ctx context.Context) ([]domain.WorkItem, error)
}

type workItemRepository struct {
	pool *pgxpool.Pool
}

// NewWorkItemRepository instantiates the postgres-backed repository.
func NewWorkItemRepository(pool *pgxpool.Pool) WorkItemRepository {
	return &workItemRepository{pool: pool}
}

const workItemColumns = `id, external_key, kind, requester_user_id, title, description,
       category, priority, status, resource, justification, risk, auto_approved,
       escalation_level, escalated_at, created_at, updated_at, closed_at`

func (r *workItemRepository) Create(ctx context.Context, item *domain.WorkItem) error {
	const query = `
        INSERT INTO work_items (external_key, kind, requester_user_id, title, description,
            category, priority, status, resource, justification, risk, auto_approved, escalation_level)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		item.ExternalKey,
		item.Kind,
		item.RequesterID,
		item.Title,
		item.Description,
		item.Category,
		item.Priority,
		item.Status,
		item.Resource,
		item.Justification,
		item.Risk,
		item.AutoApproved,
		item.EscalationLevel,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *workItemRepository) Update(ctx context.Context, item *domain.WorkItem) error {
	const query = `
        UPDATE work_items SET title=$1, description=$2, category=$3, priority=$4, status=$5,
            resource=$6, justification=$7, risk=$8, auto_approved=$9,
            escalation_level=$10, escalated_at=$11, closed_at=$12, updated_at=NOW()
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		item.Title,
		item.Description,
		item.Category,
		item.Priority,
		item.Status,
		item.Resource,
		item.Justification,
		item.Risk,
		item.AutoApproved,
		item.EscalationLevel,
		item.EscalatedAt,
		item.ClosedAt,
		item.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workItemRepository) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_items WHERE id=$1`, workItemColumns)
	var item domain.WorkItem
	if err := scanWorkItem(r.pool.QueryRow(ctx, query, id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *workItemRepository) ListOpen(ctx context.Context) ([]domain.WorkItem, error) {
	return r.ListWithFilter(ctx, WorkItemFilter{
		Statuses: []domain.WorkItemStatus{domain.WorkItemStatusOpen, domain.WorkItemStatusInProgress},
		Limit:    1000,
	})
}

func (r *workItemRepository) ListWithFilter(ctx context.Context, filter WorkItemFilter) ([]domain.WorkItem, error) {
	base := fmt.Sprintf(`SELECT %s FROM work_items`, workItemColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		clauses = append(clauses, fmt.Sprintf("kind=$%d", len(args)))
	}
	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("requester_user_id=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkItem
	for rows.Next() {
		var item domain.WorkItem
		if err := scanWorkItem(rows, &item); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkItem(row rowScanner, item *domain.WorkItem) error {
	return row.Scan(
		&item.ID,
		&item.ExternalKey,
		&item.Kind,
		&item.RequesterID,
		&item.Title,
		&item.Description,
		&item.Category,
		&item.Priority,
		&item.Status,
		&item.Resource,
		&item.Justification,
		&item.Risk,
		&item.AutoApproved,
		&item.EscalationLevel,
		&item.EscalatedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.ClosedAt,
	)
}

package experiments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthos/growthos/internal/platform/httpx"
)

// PgRepository provides PostgreSQL backed experiment persistence. Nested
// documents (hypothesis, variants, decision, insights) live in JSONB
// columns.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs a repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const experimentColumns = `id, workspace_id, name, COALESCE(description, ''), hypothesis, funnel_step_ids,
	COALESCE(metric_target, ''), metric_threshold, status, variants, budget_allocation,
	COALESCE(runtime_notes, ''), decision, insights, COALESCE(internal_notes, ''), is_client_visible,
	start_date, end_date, created_at, updated_at, created_by`

func (r *PgRepository) Create(ctx context.Context, e *Experiment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO experiments (id, workspace_id, name, description, hypothesis, funnel_step_ids,
			metric_target, metric_threshold, status, variants, budget_allocation, runtime_notes,
			decision, insights, internal_notes, is_client_visible, start_date, end_date,
			created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		e.ID, e.WorkspaceID, e.Name, e.Description, e.Hypothesis, e.FunnelStepIDs,
		e.MetricTarget, e.MetricThreshold, string(e.Status), e.Variants, e.BudgetAllocation,
		e.RuntimeNotes, e.Decision, e.Insights, e.InternalNotes, e.IsClientVisible,
		e.StartDate, e.EndDate, e.CreatedAt, e.UpdatedAt, e.CreatedBy)
	return err
}

func (r *PgRepository) Find(ctx context.Context, workspaceID, id string) (*Experiment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+experimentColumns+` FROM experiments WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	e, err := scanExperiment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *PgRepository) List(ctx context.Context, workspaceID string, filters ListFilters) ([]Experiment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+experimentColumns+` FROM experiments
		WHERE workspace_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`,
		workspaceID, string(filters.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Experiment
	for rows.Next() {
		e, err := scanExperiment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, e *Experiment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE experiments
		SET name = $3, description = $4, hypothesis = $5, funnel_step_ids = $6, metric_target = $7,
			metric_threshold = $8, status = $9, variants = $10, budget_allocation = $11,
			runtime_notes = $12, decision = $13, insights = $14, internal_notes = $15,
			is_client_visible = $16, start_date = $17, end_date = $18, updated_at = $19
		WHERE workspace_id = $1 AND id = $2`,
		e.WorkspaceID, e.ID, e.Name, e.Description, e.Hypothesis, e.FunnelStepIDs, e.MetricTarget,
		e.MetricThreshold, string(e.Status), e.Variants, e.BudgetAllocation,
		e.RuntimeNotes, e.Decision, e.Insights, e.InternalNotes,
		e.IsClientVisible, e.StartDate, e.EndDate, e.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanExperiment(row pgx.Row) (*Experiment, error) {
	var e Experiment
	var status string
	err := row.Scan(&e.ID, &e.WorkspaceID, &e.Name, &e.Description, &e.Hypothesis, &e.FunnelStepIDs,
		&e.MetricTarget, &e.MetricThreshold, &status, &e.Variants, &e.BudgetAllocation,
		&e.RuntimeNotes, &e.Decision, &e.Insights, &e.InternalNotes, &e.IsClientVisible,
		&e.StartDate, &e.EndDate, &e.CreatedAt, &e.UpdatedAt, &e.CreatedBy)
	if err != nil {
		return nil, err
	}
	e.Status = Status(status)
	if e.FunnelStepIDs == nil {
		e.FunnelStepIDs = []string{}
	}
	if e.Variants == nil {
		e.Variants = []Variant{}
	}
	if e.Insights == nil {
		e.Insights = []Insight{}
	}
	return &e, nil
}

package alerts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthos/growthos/internal/platform/httpx"
)

// PgRepository provides PostgreSQL backed persistence.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs a repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const alertColumns = `id, workspace_id, alert_type, severity, title, description,
	is_resolved, resolved_at, COALESCE(resolved_by, ''), created_at`

func (r *PgRepository) Create(ctx context.Context, a *Alert) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO alerts (id, workspace_id, alert_type, severity, title, description,
			is_resolved, resolved_at, resolved_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)`,
		a.ID, a.WorkspaceID, a.AlertType, a.Severity, a.Title, a.Description,
		a.IsResolved, a.ResolvedAt, a.ResolvedBy, a.CreatedAt)
	return err
}

func (r *PgRepository) Find(ctx context.Context, workspaceID, id string) (*Alert, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	a, err := scanAlert(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PgRepository) ListOpen(ctx context.Context, workspaceID string) ([]Alert, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+alertColumns+` FROM alerts
		WHERE workspace_id = $1 AND is_resolved = FALSE
		ORDER BY created_at DESC LIMIT 50`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, a *Alert) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE alerts
		SET is_resolved = $3, resolved_at = $4, resolved_by = NULLIF($5, '')
		WHERE workspace_id = $1 AND id = $2`,
		a.WorkspaceID, a.ID, a.IsResolved, a.ResolvedAt, a.ResolvedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanAlert(row pgx.Row) (*Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.WorkspaceID, &a.AlertType, &a.Severity, &a.Title, &a.Description,
		&a.IsResolved, &a.ResolvedAt, &a.ResolvedBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

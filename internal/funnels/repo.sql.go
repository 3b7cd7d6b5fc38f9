package funnels

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

const funnelColumns = `id, workspace_id, name, COALESCE(description, ''), steps, is_active,
	created_at, updated_at`

func (r *PgRepository) Create(ctx context.Context, f *Funnel) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO funnels (id, workspace_id, name, description, steps, is_active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.WorkspaceID, f.Name, f.Description, f.Steps, f.IsActive,
		f.CreatedAt, f.UpdatedAt)
	return err
}

func (r *PgRepository) Find(ctx context.Context, workspaceID, id string) (*Funnel, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+funnelColumns+` FROM funnels WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	f, err := scanFunnel(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *PgRepository) List(ctx context.Context, workspaceID string) ([]Funnel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+funnelColumns+` FROM funnels WHERE workspace_id = $1 ORDER BY created_at`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Funnel
	for rows.Next() {
		f, err := scanFunnel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, f *Funnel) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE funnels
		SET name = $3, description = $4, steps = $5, is_active = $6, updated_at = $7
		WHERE workspace_id = $1 AND id = $2`,
		f.WorkspaceID, f.ID, f.Name, f.Description, f.Steps, f.IsActive, f.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanFunnel(row pgx.Row) (*Funnel, error) {
	var f Funnel
	err := row.Scan(&f.ID, &f.WorkspaceID, &f.Name, &f.Description, &f.Steps, &f.IsActive,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

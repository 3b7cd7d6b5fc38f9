package activation

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthos/growthos/internal/platform/httpx"
)

// PgRepository provides PostgreSQL backed persistence; the rule document
// lives in a JSONB column.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs a repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const definitionColumns = `id, workspace_id, name, COALESCE(description, ''), rule, confidence,
	last_verified, version, is_active, created_at, updated_at, created_by`

func (r *PgRepository) Create(ctx context.Context, d *Definition) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activation_definitions (id, workspace_id, name, description, rule, confidence,
			last_verified, version, is_active, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		d.ID, d.WorkspaceID, d.Name, d.Description, d.Rule, d.Confidence,
		d.LastVerified, d.Version, d.IsActive, d.CreatedAt, d.UpdatedAt, d.CreatedBy)
	return err
}

func (r *PgRepository) Find(ctx context.Context, workspaceID, id string) (*Definition, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+definitionColumns+` FROM activation_definitions WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	d, err := scanDefinition(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *PgRepository) List(ctx context.Context, workspaceID string) ([]Definition, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+definitionColumns+` FROM activation_definitions WHERE workspace_id = $1 ORDER BY created_at`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Definition
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, d *Definition) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE activation_definitions
		SET name = $3, description = $4, rule = $5, confidence = $6, last_verified = $7,
			version = $8, is_active = $9, updated_at = $10
		WHERE workspace_id = $1 AND id = $2`,
		d.WorkspaceID, d.ID, d.Name, d.Description, d.Rule, d.Confidence, d.LastVerified,
		d.Version, d.IsActive, d.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanDefinition(row pgx.Row) (*Definition, error) {
	var d Definition
	err := row.Scan(&d.ID, &d.WorkspaceID, &d.Name, &d.Description, &d.Rule, &d.Confidence,
		&d.LastVerified, &d.Version, &d.IsActive, &d.CreatedAt, &d.UpdatedAt, &d.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

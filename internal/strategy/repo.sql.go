package strategy

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthos/growthos/internal/platform/httpx"
)

// PgRepository provides PostgreSQL backed persistence. The north-star
// table has a unique index on workspace_id to back the upsert.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs a repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) UpsertNorthStar(ctx context.Context, m *NorthStarMetric) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO north_star_metrics (id, workspace_id, name, description, current_value,
			target_value, unit, trend_7d, trend_30d, trend_90d, last_updated, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (workspace_id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description,
			current_value = EXCLUDED.current_value, target_value = EXCLUDED.target_value,
			unit = EXCLUDED.unit, trend_7d = EXCLUDED.trend_7d,
			trend_30d = EXCLUDED.trend_30d, trend_90d = EXCLUDED.trend_90d,
			last_updated = EXCLUDED.last_updated`,
		m.ID, m.WorkspaceID, m.Name, m.Description, m.CurrentValue,
		m.TargetValue, m.Unit, m.Trend7d, m.Trend30d, m.Trend90d, m.LastUpdated, m.CreatedAt)
	return err
}

func (r *PgRepository) FindNorthStar(ctx context.Context, workspaceID string) (*NorthStarMetric, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, workspace_id, name, COALESCE(description, ''), current_value, target_value,
			unit, trend_7d, trend_30d, trend_90d, last_updated, created_at
		FROM north_star_metrics WHERE workspace_id = $1`, workspaceID)
	var m NorthStarMetric
	err := row.Scan(&m.ID, &m.WorkspaceID, &m.Name, &m.Description, &m.CurrentValue,
		&m.TargetValue, &m.Unit, &m.Trend7d, &m.Trend30d, &m.Trend90d, &m.LastUpdated, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgRepository) CreateGoal(ctx context.Context, g *Goal) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO goals (id, workspace_id, name, description, target_value, target_date,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		g.ID, g.WorkspaceID, g.Name, g.Description, g.TargetValue, g.TargetDate,
		g.IsActive, g.CreatedAt, g.UpdatedAt)
	return err
}

func (r *PgRepository) ListGoals(ctx context.Context, workspaceID string) ([]Goal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, workspace_id, name, COALESCE(description, ''), target_value, target_date,
			is_active, created_at, updated_at
		FROM goals WHERE workspace_id = $1 ORDER BY created_at`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Goal
	for rows.Next() {
		var g Goal
		err := rows.Scan(&g.ID, &g.WorkspaceID, &g.Name, &g.Description, &g.TargetValue,
			&g.TargetDate, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

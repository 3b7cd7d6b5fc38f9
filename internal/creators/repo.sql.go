package creators

import (
	"context"
	"errors"
	"strconv"

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

const creatorColumns = `id, workspace_id, name, COALESCE(handle, ''), platform, follower_count,
	engagement_rate, COALESCE(notes, ''), fit_score, COALESCE(contact_email, ''),
	pipeline_status, created_at, updated_at`

func (r *PgRepository) Create(ctx context.Context, c *Creator) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO creators (id, workspace_id, name, handle, platform, follower_count,
			engagement_rate, notes, fit_score, contact_email, pipeline_status,
			created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''), $9,
			NULLIF($10, ''), $11, $12, $13)`,
		c.ID, c.WorkspaceID, c.Name, c.Handle, c.Platform, c.FollowerCount,
		c.EngagementRate, c.Notes, c.FitScore, c.ContactEmail, c.PipelineStatus,
		c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *PgRepository) Find(ctx context.Context, workspaceID, id string) (*Creator, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+creatorColumns+` FROM creators WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	c, err := scanCreator(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PgRepository) List(ctx context.Context, workspaceID string, filters ListFilters) ([]Creator, error) {
	query := `SELECT ` + creatorColumns + ` FROM creators WHERE workspace_id = $1`
	args := []any{workspaceID}
	if filters.PipelineStatus != "" {
		args = append(args, filters.PipelineStatus)
		query += ` AND pipeline_status = $` + strconv.Itoa(len(args))
	}
	if filters.Platform != "" {
		args = append(args, filters.Platform)
		query += ` AND platform = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Creator
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, c *Creator) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE creators
		SET name = $3, handle = NULLIF($4, ''), platform = $5, follower_count = $6,
			engagement_rate = $7, notes = NULLIF($8, ''), fit_score = $9,
			contact_email = NULLIF($10, ''), pipeline_status = $11, updated_at = $12
		WHERE workspace_id = $1 AND id = $2`,
		c.WorkspaceID, c.ID, c.Name, c.Handle, c.Platform, c.FollowerCount,
		c.EngagementRate, c.Notes, c.FitScore, c.ContactEmail, c.PipelineStatus,
		c.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanCreator(row pgx.Row) (*Creator, error) {
	var c Creator
	err := row.Scan(&c.ID, &c.WorkspaceID, &c.Name, &c.Handle, &c.Platform, &c.FollowerCount,
		&c.EngagementRate, &c.Notes, &c.FitScore, &c.ContactEmail, &c.PipelineStatus,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

package reports

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthos/growthos/internal/platform/httpx"
)

// PgRepository provides PostgreSQL backed persistence; the content
// sections live in a JSONB column.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs a repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const reportColumns = `id, workspace_id, week_start, week_end, status, content,
	COALESCE(ai_draft, ''), is_ai_generated, COALESCE(share_link, ''), owner_id,
	COALESCE(approved_by, ''), approved_at, sent_at, created_at, updated_at`

func (r *PgRepository) Create(ctx context.Context, rep *Report) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO weekly_reports (id, workspace_id, week_start, week_end, status, content,
			ai_draft, is_ai_generated, share_link, owner_id, approved_by, approved_at,
			sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), $10,
			NULLIF($11, ''), $12, $13, $14, $15)`,
		rep.ID, rep.WorkspaceID, rep.WeekStart, rep.WeekEnd, rep.Status, rep.Content,
		rep.AIDraft, rep.IsAIGenerated, rep.ShareLink, rep.OwnerID, rep.ApprovedBy,
		rep.ApprovedAt, rep.SentAt, rep.CreatedAt, rep.UpdatedAt)
	return err
}

func (r *PgRepository) Find(ctx context.Context, workspaceID, id string) (*Report, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM weekly_reports WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	rep, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *PgRepository) List(ctx context.Context, workspaceID string, filters ListFilters) ([]Report, error) {
	query := `SELECT ` + reportColumns + ` FROM weekly_reports WHERE workspace_id = $1`
	args := []any{workspaceID}
	if filters.Status != "" {
		query += ` AND status = $2`
		args = append(args, filters.Status)
	}
	query += ` ORDER BY week_start DESC LIMIT 100`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, rep *Report) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE weekly_reports
		SET status = $3, content = $4, ai_draft = NULLIF($5, ''), is_ai_generated = $6,
			share_link = NULLIF($7, ''), approved_by = NULLIF($8, ''), approved_at = $9,
			sent_at = $10, updated_at = $11
		WHERE workspace_id = $1 AND id = $2`,
		rep.WorkspaceID, rep.ID, rep.Status, rep.Content, rep.AIDraft, rep.IsAIGenerated,
		rep.ShareLink, rep.ApprovedBy, rep.ApprovedAt, rep.SentAt, rep.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanReport(row pgx.Row) (*Report, error) {
	var rep Report
	err := row.Scan(&rep.ID, &rep.WorkspaceID, &rep.WeekStart, &rep.WeekEnd, &rep.Status,
		&rep.Content, &rep.AIDraft, &rep.IsAIGenerated, &rep.ShareLink, &rep.OwnerID,
		&rep.ApprovedBy, &rep.ApprovedAt, &rep.SentAt, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository provides PostgreSQL backed audit persistence.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs a repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Insert(ctx context.Context, entry *Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_entries (id, org_id, workspace_id, actor_id, action, entity_type, entity_id, before_image, after_image, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.OrgID, entry.WorkspaceID, entry.ActorID, entry.Action,
		entry.EntityType, entry.EntityID, entry.Before, entry.After, entry.CreatedAt)
	return err
}

func (r *PgRepository) List(ctx context.Context, orgID string, filters Filters) ([]Entry, error) {
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, org_id, COALESCE(workspace_id, ''), actor_id, action, entity_type, entity_id, before_image, after_image, created_at
		FROM audit_entries
		WHERE org_id = $1
		  AND ($2 = '' OR workspace_id = $2)
		  AND ($3 = '' OR actor_id = $3)
		  AND ($4 = '' OR action = $4)
		ORDER BY created_at DESC
		OFFSET $5 LIMIT $6`,
		orgID, filters.WorkspaceID, filters.ActorID, filters.Action, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.OrgID, &e.WorkspaceID, &e.ActorID, &e.Action,
			&e.EntityType, &e.EntityID, &e.Before, &e.After, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

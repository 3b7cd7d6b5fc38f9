package assets

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthos/growthos/internal/platform/httpx"
)

// PgRepository provides PostgreSQL backed persistence; tags, versions,
// and the performance map live in JSONB columns.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs a repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const assetColumns = `id, workspace_id, name, COALESCE(description, ''), file_type, file_url,
	COALESCE(thumbnail_url, ''), tags, versions, current_version, experiment_ids, performance,
	is_client_visible, rights_expiry, COALESCE(usage_terms, ''), is_creator_asset,
	COALESCE(creator_id, ''), created_at, updated_at, created_by`

func (r *PgRepository) Create(ctx context.Context, a *Asset) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO assets (id, workspace_id, name, description, file_type, file_url,
			thumbnail_url, tags, versions, current_version, experiment_ids, performance,
			is_client_visible, rights_expiry, usage_terms, is_creator_asset, creator_id,
			created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12, $13, $14,
			NULLIF($15, ''), $16, NULLIF($17, ''), $18, $19, $20)`,
		a.ID, a.WorkspaceID, a.Name, a.Description, a.FileType, a.FileURL,
		a.ThumbnailURL, a.Tags, a.Versions, a.CurrentVersion, a.ExperimentIDs, a.Performance,
		a.IsClientVisible, a.RightsExpiry, a.UsageTerms, a.IsCreatorAsset, a.CreatorID,
		a.CreatedAt, a.UpdatedAt, a.CreatedBy)
	return err
}

func (r *PgRepository) Find(ctx context.Context, workspaceID, id string) (*Asset, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	a, err := scanAsset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PgRepository) List(ctx context.Context, workspaceID string, filters ListFilters) ([]Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE workspace_id = $1`
	args := []any{workspaceID}
	if filters.FileType != "" {
		args = append(args, filters.FileType)
		query += ` AND file_type = $2`
	}
	if filters.FunnelStage != "" {
		args = append(args, filters.FunnelStage)
		query += ` AND tags->>'funnel_stage' = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, a *Asset) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE assets
		SET name = $3, description = $4, tags = $5, versions = $6, current_version = $7,
			experiment_ids = $8, performance = $9, is_client_visible = $10,
			rights_expiry = $11, usage_terms = NULLIF($12, ''), updated_at = $13
		WHERE workspace_id = $1 AND id = $2`,
		a.WorkspaceID, a.ID, a.Name, a.Description, a.Tags, a.Versions, a.CurrentVersion,
		a.ExperimentIDs, a.Performance, a.IsClientVisible, a.RightsExpiry, a.UsageTerms,
		a.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanAsset(row pgx.Row) (*Asset, error) {
	var a Asset
	err := row.Scan(&a.ID, &a.WorkspaceID, &a.Name, &a.Description, &a.FileType, &a.FileURL,
		&a.ThumbnailURL, &a.Tags, &a.Versions, &a.CurrentVersion, &a.ExperimentIDs, &a.Performance,
		&a.IsClientVisible, &a.RightsExpiry, &a.UsageTerms, &a.IsCreatorAsset,
		&a.CreatorID, &a.CreatedAt, &a.UpdatedAt, &a.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

package channels

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthos/growthos/internal/platform/httpx"
)

// PgRepository provides PostgreSQL backed persistence. Credentials and
// settings live in JSONB columns; credentials never leave the service
// layer.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs a repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const channelColumns = `id, workspace_id, name, connector_type, is_connected, last_synced,
	COALESCE(sync_status, ''), credentials, settings, created_at, updated_at`

func (r *PgRepository) Create(ctx context.Context, c *Channel) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO channels (id, workspace_id, name, connector_type, is_connected,
			last_synced, sync_status, credentials, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11)`,
		c.ID, c.WorkspaceID, c.Name, c.ConnectorType, c.IsConnected,
		c.LastSynced, c.SyncStatus, c.Credentials, c.Settings, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *PgRepository) Find(ctx context.Context, workspaceID, id string) (*Channel, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	c, err := scanChannel(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PgRepository) List(ctx context.Context, workspaceID string) ([]Channel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE workspace_id = $1 ORDER BY created_at`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Channel
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, c *Channel) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE channels
		SET name = $3, is_connected = $4, last_synced = $5, sync_status = NULLIF($6, ''),
			credentials = $7, settings = $8, updated_at = $9
		WHERE workspace_id = $1 AND id = $2`,
		c.WorkspaceID, c.ID, c.Name, c.IsConnected, c.LastSynced, c.SyncStatus,
		c.Credentials, c.Settings, c.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanChannel(row pgx.Row) (*Channel, error) {
	var c Channel
	err := row.Scan(&c.ID, &c.WorkspaceID, &c.Name, &c.ConnectorType, &c.IsConnected,
		&c.LastSynced, &c.SyncStatus, &c.Credentials, &c.Settings, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

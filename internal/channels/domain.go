// Package channels manages ad channel records and their connector
// lifecycle. Credentials are stored but never serialized out; sync goes
// through the connector registry and performance reads fall back to
// mock data when the platform is unreachable.
package channels

import (
	"context"
	"time"
)

// Channel is one ad channel.
type Channel struct {
	ID            string            `json:"id"`
	WorkspaceID   string            `json:"workspace_id"`
	Name          string            `json:"name"`
	ConnectorType string            `json:"connector_type"`
	IsConnected   bool              `json:"is_connected"`
	LastSynced    *time.Time        `json:"last_synced,omitempty"`
	SyncStatus    string            `json:"sync_status,omitempty"`
	Credentials   map[string]string `json:"-"`
	Settings      map[string]any    `json:"settings"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Repository persists channels.
type Repository interface {
	Create(ctx context.Context, c *Channel) error
	Find(ctx context.Context, workspaceID, id string) (*Channel, error)
	List(ctx context.Context, workspaceID string) ([]Channel, error)
	Update(ctx context.Context, c *Channel) error
}

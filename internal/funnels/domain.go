// Package funnels manages conversion funnels and their ordered steps.
// Step order is assigned server-side from list position.
package funnels

import (
	"context"
	"time"
)

// Step is one stage in a funnel.
type Step struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Order          int       `json:"order"`
	EventName      string    `json:"event_name,omitempty"`
	ConversionRate float64   `json:"conversion_rate"`
	Volume         int       `json:"volume"`
	CreatedAt      time.Time `json:"created_at"`
}

// Funnel is one conversion funnel with its steps.
type Funnel struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Steps       []Step    `json:"steps"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Repository persists funnels; steps live in a JSONB column.
type Repository interface {
	Create(ctx context.Context, f *Funnel) error
	Find(ctx context.Context, workspaceID, id string) (*Funnel, error)
	List(ctx context.Context, workspaceID string) ([]Funnel, error)
	Update(ctx context.Context, f *Funnel) error
}

// Package activation manages activation definitions: versioned rule
// documents describing when a user counts as activated. Updates never
// overwrite silently; every change bumps the version and audits the full
// pre- and post-image, giving an append-only history without a separate
// versions table.
package activation

import (
	"context"
	"time"
)

// Rule describes how activation is detected. Composite rules nest.
type Rule struct {
	RuleType        string   `json:"rule_type"` // single_event, sequence, composite
	EventName       string   `json:"event_name,omitempty"`
	Events          []string `json:"events,omitempty"`
	TimeWindowHours int      `json:"time_window_hours,omitempty"`
	Operator        string   `json:"operator,omitempty"` // AND, OR
	SubRules        []Rule   `json:"sub_rules,omitempty"`
}

// Confidence levels for a definition.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Definition is one versioned activation definition.
type Definition struct {
	ID           string     `json:"id"`
	WorkspaceID  string     `json:"workspace_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Rule         Rule       `json:"rule"`
	Confidence   string     `json:"confidence"`
	LastVerified *time.Time `json:"last_verified,omitempty"`
	Version      int        `json:"version"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CreatedBy    string     `json:"created_by"`
}

// Repository persists activation definitions.
type Repository interface {
	Create(ctx context.Context, d *Definition) error
	Find(ctx context.Context, workspaceID, id string) (*Definition, error)
	List(ctx context.Context, workspaceID string) ([]Definition, error)
	Update(ctx context.Context, d *Definition) error
}

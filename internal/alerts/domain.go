// Package alerts stores workspace alerts and runs the rule-based
// anomaly checks over channel performance data.
package alerts

import (
	"context"
	"time"
)

// Severity levels, lowest to highest.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Alert types.
const (
	TypeSpendSpike         = "spend_spike"
	TypeActivationFlatline = "activation_flatline"
	TypeCTRDrop            = "ctr_drop"
	TypeTrackingBreak      = "tracking_break"
	TypeRightsExpiry       = "rights_expiry"
)

// Alert is one stored alert.
type Alert struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	AlertType   string     `json:"alert_type"`
	Severity    string     `json:"severity"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsResolved  bool       `json:"is_resolved"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy  string     `json:"resolved_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Repository persists alerts.
type Repository interface {
	Create(ctx context.Context, a *Alert) error
	Find(ctx context.Context, workspaceID, id string) (*Alert, error)
	ListOpen(ctx context.Context, workspaceID string) ([]Alert, error)
	Update(ctx context.Context, a *Alert) error
}

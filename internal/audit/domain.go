// Package audit records sensitive platform actions. Writes are synchronous:
// an operation that cannot be audited does not happen.
package audit

import (
	"context"
	"encoding/json"
	"time"
)

// Actions recorded in the audit trail. The set is closed; new sensitive
// operations add a constant here.
const (
	ActionPermissionChange   = "permission_change"
	ActionActivationCreated  = "activation_definition_created"
	ActionActivationChange   = "activation_definition_change"
	ActionExperimentDecision = "experiment_decision"
	ActionReportApproval     = "report_approval"
)

// Entry is one audit record. Before and After hold full entity images for
// mutations; either may be empty.
type Entry struct {
	ID          string          `json:"id"`
	OrgID       string          `json:"org_id"`
	WorkspaceID string          `json:"workspace_id,omitempty"`
	ActorID     string          `json:"actor_id"`
	Action      string          `json:"action"`
	EntityType  string          `json:"entity_type"`
	EntityID    string          `json:"entity_id"`
	Before      json.RawMessage `json:"before,omitempty"`
	After       json.RawMessage `json:"after,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Filters narrows the audit listing.
type Filters struct {
	WorkspaceID string
	ActorID     string
	Action      string
	Page        int
	PageSize    int
}

// Repository persists audit entries.
type Repository interface {
	Insert(ctx context.Context, entry *Entry) error
	List(ctx context.Context, orgID string, filters Filters) ([]Entry, error)
}

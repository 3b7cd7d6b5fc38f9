// Package experiments tracks growth experiments through their lifecycle:
// backlog, ready, live, analyzing, decided. The decision operation is the
// only path that audits and notifies; generic patches may move status but
// carry no side effects.
package experiments

import (
	"context"
	"time"

	"github.com/growthos/growthos/internal/authz"
)

// Status is the experiment lifecycle state.
type Status string

const (
	StatusBacklog   Status = "backlog"
	StatusReady     Status = "ready"
	StatusLive      Status = "live"
	StatusAnalyzing Status = "analyzing"
	StatusDecided   Status = "decided"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusBacklog, StatusReady, StatusLive, StatusAnalyzing, StatusDecided:
		return true
	}
	return false
}

// Decision outcomes.
const (
	DecisionKill    = "kill"
	DecisionIterate = "iterate"
	DecisionScale   = "scale"
)

// Hypothesis is the structured "we believe X for Y because Z" statement.
type Hypothesis struct {
	Belief  string `json:"belief"`
	Target  string `json:"target"`
	Because string `json:"because"`
}

// Variant is one arm of an experiment, embedded as a document.
type Variant struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Description         string         `json:"description,omitempty"`
	AssetIDs            []string       `json:"asset_ids,omitempty"`
	AudienceDescription string         `json:"audience_description,omitempty"`
	LandingPageURL      string         `json:"landing_page_url,omitempty"`
	Results             map[string]any `json:"results,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
}

// Decision records the outcome of an experiment.
type Decision struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Rationale string    `json:"rationale"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Insight is a learning attached to an experiment. Only client-visible
// insights survive the client filter.
type Insight struct {
	ID              string    `json:"id"`
	Content         string    `json:"content"`
	Evidence        string    `json:"evidence,omitempty"`
	IsClientVisible bool      `json:"is_client_visible"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// Experiment is one growth experiment scoped to a workspace.
type Experiment struct {
	ID               string      `json:"id"`
	WorkspaceID      string      `json:"workspace_id"`
	Name             string      `json:"name"`
	Description      string      `json:"description,omitempty"`
	Hypothesis       *Hypothesis `json:"hypothesis,omitempty"`
	FunnelStepIDs    []string    `json:"funnel_step_ids"`
	MetricTarget     string      `json:"metric_target,omitempty"`
	MetricThreshold  *float64    `json:"metric_threshold,omitempty"`
	Status           Status      `json:"status"`
	Variants         []Variant   `json:"variants"`
	BudgetAllocation *float64    `json:"budget_allocation,omitempty"`
	RuntimeNotes     string      `json:"runtime_notes,omitempty"`
	Decision         *Decision   `json:"decision,omitempty"`
	Insights         []Insight   `json:"insights"`
	InternalNotes    string      `json:"internal_notes,omitempty"`
	IsClientVisible  bool        `json:"is_client_visible"`
	StartDate        *time.Time  `json:"start_date,omitempty"`
	EndDate          *time.Time  `json:"end_date,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	CreatedBy        string      `json:"created_by"`
}

// ForClient returns a copy stripped of internal fields: internal notes
// are dropped and only client-visible insights remain.
func (e Experiment) ForClient() Experiment {
	e.InternalNotes = ""
	visible := make([]Insight, 0, len(e.Insights))
	for _, in := range e.Insights {
		if in.IsClientVisible {
			visible = append(visible, in)
		}
	}
	e.Insights = visible
	return e
}

// FilterForViewer applies the client-visibility rules to a list.
func FilterForViewer(items []Experiment, viewer authz.Viewer) []Experiment {
	if !viewer.ClientOnly() {
		return items
	}
	out := make([]Experiment, 0, len(items))
	for _, e := range items {
		if e.IsClientVisible {
			out = append(out, e.ForClient())
		}
	}
	return out
}

// ListFilters narrows experiment listings.
type ListFilters struct {
	Status Status
}

// Repository persists experiments.
type Repository interface {
	Create(ctx context.Context, e *Experiment) error
	Find(ctx context.Context, workspaceID, id string) (*Experiment, error)
	List(ctx context.Context, workspaceID string, filters ListFilters) ([]Experiment, error)
	Update(ctx context.Context, e *Experiment) error
}

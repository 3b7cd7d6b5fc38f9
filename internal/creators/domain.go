// Package creators tracks creator partnerships through the outreach
// pipeline, from discovery to amplified content.
package creators

import (
	"context"
	"time"
)

// PipelineStatus is the partnership stage.
type PipelineStatus string

const (
	StatusDiscovery PipelineStatus = "discovery"
	StatusContacted PipelineStatus = "contacted"
	StatusConfirmed PipelineStatus = "confirmed"
	StatusBriefed   PipelineStatus = "briefed"
	StatusDelivered PipelineStatus = "delivered"
	StatusLive      PipelineStatus = "live"
	StatusAmplified PipelineStatus = "amplified"
	StatusComplete  PipelineStatus = "complete"
)

// Valid reports whether s is a known pipeline status.
func (s PipelineStatus) Valid() bool {
	switch s {
	case StatusDiscovery, StatusContacted, StatusConfirmed, StatusBriefed,
		StatusDelivered, StatusLive, StatusAmplified, StatusComplete:
		return true
	}
	return false
}

// Creator is one creator partnership record.
type Creator struct {
	ID             string         `json:"id"`
	WorkspaceID    string         `json:"workspace_id"`
	Name           string         `json:"name"`
	Handle         string         `json:"handle,omitempty"`
	Platform       string         `json:"platform"`
	FollowerCount  *int           `json:"follower_count,omitempty"`
	EngagementRate *float64       `json:"engagement_rate,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	FitScore       *int           `json:"fit_score,omitempty"`
	ContactEmail   string         `json:"contact_email,omitempty"`
	PipelineStatus PipelineStatus `json:"pipeline_status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ListFilters narrows creator listings.
type ListFilters struct {
	PipelineStatus PipelineStatus
	Platform       string
}

// Repository persists creators.
type Repository interface {
	Create(ctx context.Context, c *Creator) error
	Find(ctx context.Context, workspaceID, id string) (*Creator, error)
	List(ctx context.Context, workspaceID string, filters ListFilters) ([]Creator, error)
	Update(ctx context.Context, c *Creator) error
}

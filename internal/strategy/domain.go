// Package strategy holds the workspace's north-star metric and goals.
// Each workspace has at most one north-star metric, written by upsert.
package strategy

import (
	"context"
	"time"
)

// NorthStarMetric is the single headline metric for a workspace.
type NorthStarMetric struct {
	ID           string    `json:"id"`
	WorkspaceID  string    `json:"workspace_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	CurrentValue float64   `json:"current_value"`
	TargetValue  float64   `json:"target_value"`
	Unit         string    `json:"unit"`
	Trend7d      float64   `json:"trend_7d"`
	Trend30d     float64   `json:"trend_30d"`
	Trend90d     float64   `json:"trend_90d"`
	LastUpdated  time.Time `json:"last_updated"`
	CreatedAt    time.Time `json:"created_at"`
}

// Goal is one strategic goal.
type Goal struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	TargetValue *float64   `json:"target_value,omitempty"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Repository persists strategy records.
type Repository interface {
	UpsertNorthStar(ctx context.Context, m *NorthStarMetric) error
	FindNorthStar(ctx context.Context, workspaceID string) (*NorthStarMetric, error)
	CreateGoal(ctx context.Context, g *Goal) error
	ListGoals(ctx context.Context, workspaceID string) ([]Goal, error)
}

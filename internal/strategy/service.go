package strategy

import (
	"context"
	"time"

	"github.com/growthos/growthos/internal/shared"
)

// Service wraps strategy business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NorthStarInput carries the upsert payload.
type NorthStarInput struct {
	Name         string
	Description  string
	CurrentValue float64
	TargetValue  float64
	Unit         string
	Trend7d      float64
	Trend30d     float64
	Trend90d     float64
}

// SetNorthStar creates or replaces the workspace's north-star metric.
func (s *Service) SetNorthStar(ctx context.Context, workspaceID string, input NorthStarInput) (*NorthStarMetric, error) {
	now := time.Now().UTC()
	m := &NorthStarMetric{
		ID:           shared.NewID("nsm"),
		WorkspaceID:  workspaceID,
		Name:         input.Name,
		Description:  input.Description,
		CurrentValue: input.CurrentValue,
		TargetValue:  input.TargetValue,
		Unit:         input.Unit,
		Trend7d:      input.Trend7d,
		Trend30d:     input.Trend30d,
		Trend90d:     input.Trend90d,
		LastUpdated:  now,
		CreatedAt:    now,
	}
	if err := s.repo.UpsertNorthStar(ctx, m); err != nil {
		return nil, err
	}
	return s.repo.FindNorthStar(ctx, workspaceID)
}

// NorthStar returns the workspace's metric.
func (s *Service) NorthStar(ctx context.Context, workspaceID string) (*NorthStarMetric, error) {
	return s.repo.FindNorthStar(ctx, workspaceID)
}

// NewGoal carries the fields accepted at goal creation.
type NewGoal struct {
	Name        string
	Description string
	TargetValue *float64
	TargetDate  *time.Time
}

// CreateGoal persists a goal.
func (s *Service) CreateGoal(ctx context.Context, workspaceID string, input NewGoal) (*Goal, error) {
	now := time.Now().UTC()
	g := &Goal{
		ID:          shared.NewID("goal"),
		WorkspaceID: workspaceID,
		Name:        input.Name,
		Description: input.Description,
		TargetValue: input.TargetValue,
		TargetDate:  input.TargetDate,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Goals lists the workspace's goals.
func (s *Service) Goals(ctx context.Context, workspaceID string) ([]Goal, error) {
	return s.repo.ListGoals(ctx, workspaceID)
}

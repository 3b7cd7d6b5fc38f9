package funnels

import (
	"context"
	"time"

	"github.com/growthos/growthos/internal/shared"
)

// Service wraps funnel business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewStep carries one step at funnel creation. Order comes from list
// position, not the payload.
type NewStep struct {
	Name        string
	Description string
	EventName   string
}

// NewFunnel carries the fields accepted at creation.
type NewFunnel struct {
	Name        string
	Description string
	Steps       []NewStep
}

// Create persists a funnel with its steps ordered as given.
func (s *Service) Create(ctx context.Context, workspaceID string, input NewFunnel) (*Funnel, error) {
	now := time.Now().UTC()
	steps := make([]Step, 0, len(input.Steps))
	for i, st := range input.Steps {
		steps = append(steps, Step{
			ID:          shared.NewID("step"),
			Name:        st.Name,
			Description: st.Description,
			Order:       i + 1,
			EventName:   st.EventName,
			CreatedAt:   now,
		})
	}
	f := &Funnel{
		ID:          shared.NewID("funnel"),
		WorkspaceID: workspaceID,
		Name:        input.Name,
		Description: input.Description,
		Steps:       steps,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// List returns the workspace's funnels.
func (s *Service) List(ctx context.Context, workspaceID string) ([]Funnel, error) {
	return s.repo.List(ctx, workspaceID)
}

// Get returns one funnel.
func (s *Service) Get(ctx context.Context, workspaceID, id string) (*Funnel, error) {
	return s.repo.Find(ctx, workspaceID, id)
}

// Update carries the mutable funnel fields. A non-nil Steps slice
// replaces all steps and renumbers them.
type Update struct {
	Name        *string
	Description *string
	Steps       []NewStep
	IsActive    *bool
}

// ApplyUpdate merges the patch into a funnel.
func (s *Service) ApplyUpdate(ctx context.Context, workspaceID, id string, patch Update) (*Funnel, error) {
	f, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if patch.Name != nil {
		f.Name = *patch.Name
	}
	if patch.Description != nil {
		f.Description = *patch.Description
	}
	if patch.Steps != nil {
		steps := make([]Step, 0, len(patch.Steps))
		for i, st := range patch.Steps {
			steps = append(steps, Step{
				ID:          shared.NewID("step"),
				Name:        st.Name,
				Description: st.Description,
				Order:       i + 1,
				EventName:   st.EventName,
				CreatedAt:   now,
			})
		}
		f.Steps = steps
	}
	if patch.IsActive != nil {
		f.IsActive = *patch.IsActive
	}
	f.UpdatedAt = now
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

package activation

import (
	"context"
	"fmt"
	"time"

	"github.com/growthos/growthos/internal/audit"
	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

// Service wraps activation definition business rules.
type Service struct {
	repo     Repository
	recorder audit.Recorder
}

// NewService constructs a new Service.
func NewService(repo Repository, recorder audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// NewDefinition carries the fields accepted at creation.
type NewDefinition struct {
	Name        string
	Description string
	Rule        Rule
	Confidence  string
}

func validConfidence(c string) bool {
	return c == ConfidenceHigh || c == ConfidenceMedium || c == ConfidenceLow
}

// Create persists a definition at version 1 and audits the creation with
// the new snapshot.
func (s *Service) Create(ctx context.Context, viewer authz.Viewer, workspaceID string, input NewDefinition) (*Definition, error) {
	confidence := input.Confidence
	if confidence == "" {
		confidence = ConfidenceMedium
	}
	if !validConfidence(confidence) {
		return nil, fmt.Errorf("%w: unknown confidence %q", httpx.ErrValidation, confidence)
	}
	now := time.Now().UTC()
	d := &Definition{
		ID:          shared.NewID("actdef"),
		WorkspaceID: workspaceID,
		Name:        input.Name,
		Description: input.Description,
		Rule:        input.Rule,
		Confidence:  confidence,
		Version:     1,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   viewer.Actor.ID,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	err := s.recorder.Record(ctx, audit.Entry{
		OrgID:       viewer.OrgID,
		WorkspaceID: workspaceID,
		ActorID:     viewer.Actor.ID,
		Action:      audit.ActionActivationCreated,
		EntityType:  "activation_definition",
		EntityID:    d.ID,
		After:       audit.Image(d),
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// List returns the workspace's definitions.
func (s *Service) List(ctx context.Context, workspaceID string) ([]Definition, error) {
	return s.repo.List(ctx, workspaceID)
}

// Get returns one definition.
func (s *Service) Get(ctx context.Context, workspaceID, id string) (*Definition, error) {
	return s.repo.Find(ctx, workspaceID, id)
}

// Update carries the mutable definition fields. Nil means leave
// unchanged.
type Update struct {
	Name         *string
	Description  *string
	Rule         *Rule
	Confidence   *string
	LastVerified *time.Time
	IsActive     *bool
}

// ApplyUpdate bumps the version and audits the change with the full pre-
// and post-image. The audit write is part of the operation.
func (s *Service) ApplyUpdate(ctx context.Context, viewer authz.Viewer, workspaceID, id string, patch Update) (*Definition, error) {
	d, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	before := audit.Image(d)
	if patch.Confidence != nil {
		if !validConfidence(*patch.Confidence) {
			return nil, fmt.Errorf("%w: unknown confidence %q", httpx.ErrValidation, *patch.Confidence)
		}
		d.Confidence = *patch.Confidence
	}
	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Rule != nil {
		d.Rule = *patch.Rule
	}
	if patch.LastVerified != nil {
		d.LastVerified = patch.LastVerified
	}
	if patch.IsActive != nil {
		d.IsActive = *patch.IsActive
	}
	d.Version++
	d.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	err = s.recorder.Record(ctx, audit.Entry{
		OrgID:       viewer.OrgID,
		WorkspaceID: workspaceID,
		ActorID:     viewer.Actor.ID,
		Action:      audit.ActionActivationChange,
		EntityType:  "activation_definition",
		EntityID:    d.ID,
		Before:      before,
		After:       audit.Image(d),
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

package creators

import (
	"context"
	"fmt"
	"time"

	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

// Service wraps creator pipeline business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewCreator carries the fields accepted at creation.
type NewCreator struct {
	Name           string
	Handle         string
	Platform       string
	FollowerCount  *int
	EngagementRate *float64
	Notes          string
	FitScore       *int
	ContactEmail   string
}

// Create persists a creator in the discovery stage.
func (s *Service) Create(ctx context.Context, workspaceID string, input NewCreator) (*Creator, error) {
	if input.FitScore != nil && (*input.FitScore < 1 || *input.FitScore > 10) {
		return nil, fmt.Errorf("%w: fit_score must be 1-10", httpx.ErrValidation)
	}
	now := time.Now().UTC()
	c := &Creator{
		ID:             shared.NewID("creator"),
		WorkspaceID:    workspaceID,
		Name:           input.Name,
		Handle:         input.Handle,
		Platform:       input.Platform,
		FollowerCount:  input.FollowerCount,
		EngagementRate: input.EngagementRate,
		Notes:          input.Notes,
		FitScore:       input.FitScore,
		ContactEmail:   input.ContactEmail,
		PipelineStatus: StatusDiscovery,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns workspace creators.
func (s *Service) List(ctx context.Context, workspaceID string, filters ListFilters) ([]Creator, error) {
	return s.repo.List(ctx, workspaceID, filters)
}

// Get returns one creator.
func (s *Service) Get(ctx context.Context, workspaceID, id string) (*Creator, error) {
	return s.repo.Find(ctx, workspaceID, id)
}

// Update carries the mutable creator fields. Nil means leave unchanged.
type Update struct {
	Name           *string
	Handle         *string
	Platform       *string
	FollowerCount  *int
	EngagementRate *float64
	Notes          *string
	FitScore       *int
	ContactEmail   *string
	PipelineStatus *PipelineStatus
}

// ApplyUpdate merges the patch into a creator record.
func (s *Service) ApplyUpdate(ctx context.Context, workspaceID, id string, patch Update) (*Creator, error) {
	c, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if patch.PipelineStatus != nil {
		if !patch.PipelineStatus.Valid() {
			return nil, fmt.Errorf("%w: unknown pipeline status %q", httpx.ErrValidation, *patch.PipelineStatus)
		}
		c.PipelineStatus = *patch.PipelineStatus
	}
	if patch.FitScore != nil {
		if *patch.FitScore < 1 || *patch.FitScore > 10 {
			return nil, fmt.Errorf("%w: fit_score must be 1-10", httpx.ErrValidation)
		}
		c.FitScore = patch.FitScore
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Handle != nil {
		c.Handle = *patch.Handle
	}
	if patch.Platform != nil {
		c.Platform = *patch.Platform
	}
	if patch.FollowerCount != nil {
		c.FollowerCount = patch.FollowerCount
	}
	if patch.EngagementRate != nil {
		c.EngagementRate = patch.EngagementRate
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}
	if patch.ContactEmail != nil {
		c.ContactEmail = *patch.ContactEmail
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

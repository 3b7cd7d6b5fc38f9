package assets

import (
	"context"
	"time"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

// Service wraps asset library business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewAsset carries the fields accepted at creation.
type NewAsset struct {
	Name            string
	Description     string
	FileType        string
	FileURL         string
	ThumbnailURL    string
	Tags            *Tag
	IsClientVisible bool
	RightsExpiry    *time.Time
	UsageTerms      string
	IsCreatorAsset  bool
	CreatorID       string
}

// Create persists an asset with its first version on record.
func (s *Service) Create(ctx context.Context, workspaceID string, input NewAsset, actor shared.Actor) (*Asset, error) {
	now := time.Now().UTC()
	tags := Tag{CustomTags: []string{}}
	if input.Tags != nil {
		tags = *input.Tags
		if tags.CustomTags == nil {
			tags.CustomTags = []string{}
		}
	}
	a := &Asset{
		ID:           shared.NewID("asset"),
		WorkspaceID:  workspaceID,
		Name:         input.Name,
		Description:  input.Description,
		FileType:     input.FileType,
		FileURL:      input.FileURL,
		ThumbnailURL: input.ThumbnailURL,
		Tags:         tags,
		Versions: []Version{{
			ID:            shared.NewID("ver"),
			VersionNumber: 1,
			FileURL:       input.FileURL,
			CreatedAt:     now,
			CreatedBy:     actor.ID,
		}},
		CurrentVersion:  1,
		ExperimentIDs:   []string{},
		Performance:     map[string]float64{},
		IsClientVisible: input.IsClientVisible,
		RightsExpiry:    input.RightsExpiry,
		UsageTerms:      input.UsageTerms,
		IsCreatorAsset:  input.IsCreatorAsset,
		CreatorID:       input.CreatorID,
		CreatedAt:       now,
		UpdatedAt:       now,
		CreatedBy:       actor.ID,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns workspace assets, restricted to visible unexpired ones
// for client-only viewers.
func (s *Service) List(ctx context.Context, workspaceID string, filters ListFilters, viewer authz.Viewer) ([]Asset, error) {
	items, err := s.repo.List(ctx, workspaceID, filters)
	if err != nil {
		return nil, err
	}
	return FilterForViewer(items, viewer, time.Now().UTC()), nil
}

// Get returns one asset. A client-only viewer asking for a hidden or
// rights-expired asset gets forbidden.
func (s *Service) Get(ctx context.Context, workspaceID, id string, viewer authz.Viewer) (*Asset, error) {
	a, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if viewer.ClientOnly() && !a.ClientVisible(time.Now().UTC()) {
		return nil, httpx.ErrForbidden
	}
	return a, nil
}

// Update carries the mutable asset fields. Nil means leave unchanged.
type Update struct {
	Name            *string
	Description     *string
	Tags            *Tag
	Performance     map[string]float64
	ExperimentIDs   []string
	IsClientVisible *bool
	RightsExpiry    *time.Time
	UsageTerms      *string
}

// ApplyUpdate merges the patch into an asset.
func (s *Service) ApplyUpdate(ctx context.Context, workspaceID, id string, patch Update) (*Asset, error) {
	a, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Tags != nil {
		a.Tags = *patch.Tags
		if a.Tags.CustomTags == nil {
			a.Tags.CustomTags = []string{}
		}
	}
	if patch.Performance != nil {
		a.Performance = patch.Performance
	}
	if patch.ExperimentIDs != nil {
		a.ExperimentIDs = patch.ExperimentIDs
	}
	if patch.IsClientVisible != nil {
		a.IsClientVisible = *patch.IsClientVisible
	}
	if patch.RightsExpiry != nil {
		a.RightsExpiry = patch.RightsExpiry
	}
	if patch.UsageTerms != nil {
		a.UsageTerms = *patch.UsageTerms
	}
	a.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// NewVersion carries one file revision.
type NewVersion struct {
	FileURL  string
	FileSize *int64
}

// AddVersion appends a revision and makes it current.
func (s *Service) AddVersion(ctx context.Context, workspaceID, id string, input NewVersion, actor shared.Actor) (*Asset, error) {
	a, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	number := a.CurrentVersion + 1
	a.Versions = append(a.Versions, Version{
		ID:            shared.NewID("ver"),
		VersionNumber: number,
		FileURL:       input.FileURL,
		FileSize:      input.FileSize,
		CreatedAt:     time.Now().UTC(),
		CreatedBy:     actor.ID,
	})
	a.CurrentVersion = number
	a.FileURL = input.FileURL
	a.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

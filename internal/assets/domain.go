// Package assets manages the creative asset library: file metadata,
// structured tags, a version trail, and per-asset performance numbers.
// Client viewers only see assets that are marked visible and whose
// usage rights have not expired.
package assets

import (
	"context"
	"time"

	"github.com/growthos/growthos/internal/authz"
)

// Tag is the structured creative taxonomy.
type Tag struct {
	Angle       string   `json:"angle,omitempty"`
	Hook        string   `json:"hook,omitempty"`
	Format      string   `json:"format,omitempty"`
	ICP         string   `json:"icp,omitempty"`
	FunnelStage string   `json:"funnel_stage,omitempty"`
	CustomTags  []string `json:"custom_tags"`
}

// Version is one entry in the asset's file history.
type Version struct {
	ID            string    `json:"id"`
	VersionNumber int       `json:"version_number"`
	FileURL       string    `json:"file_url"`
	FileSize      *int64    `json:"file_size,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"`
}

// Asset is one creative asset.
type Asset struct {
	ID              string             `json:"id"`
	WorkspaceID     string             `json:"workspace_id"`
	Name            string             `json:"name"`
	Description     string             `json:"description,omitempty"`
	FileType        string             `json:"file_type"` // image, video, document
	FileURL         string             `json:"file_url"`
	ThumbnailURL    string             `json:"thumbnail_url,omitempty"`
	Tags            Tag                `json:"tags"`
	Versions        []Version          `json:"versions"`
	CurrentVersion  int                `json:"current_version"`
	ExperimentIDs   []string           `json:"experiment_ids"`
	Performance     map[string]float64 `json:"performance"`
	IsClientVisible bool               `json:"is_client_visible"`
	RightsExpiry    *time.Time         `json:"rights_expiry,omitempty"`
	UsageTerms      string             `json:"usage_terms,omitempty"`
	IsCreatorAsset  bool               `json:"is_creator_asset"`
	CreatorID       string             `json:"creator_id,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	CreatedBy       string             `json:"created_by"`
}

// ClientVisible reports whether a client-only viewer may see the asset
// at the given instant: visibility flag set and rights not expired.
func (a *Asset) ClientVisible(now time.Time) bool {
	if !a.IsClientVisible {
		return false
	}
	if a.RightsExpiry != nil && a.RightsExpiry.Before(now) {
		return false
	}
	return true
}

// FilterForViewer applies the client visibility rule to a listing.
func FilterForViewer(items []Asset, viewer authz.Viewer, now time.Time) []Asset {
	if !viewer.ClientOnly() {
		return items
	}
	visible := make([]Asset, 0, len(items))
	for _, a := range items {
		if a.ClientVisible(now) {
			visible = append(visible, a)
		}
	}
	return visible
}

// ListFilters narrows asset listings.
type ListFilters struct {
	FileType    string
	FunnelStage string
}

// Repository persists assets.
type Repository interface {
	Create(ctx context.Context, a *Asset) error
	Find(ctx context.Context, workspaceID, id string) (*Asset, error)
	List(ctx context.Context, workspaceID string, filters ListFilters) ([]Asset, error)
	Update(ctx context.Context, a *Asset) error
}

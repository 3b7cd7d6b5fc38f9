package assets_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/assets"
	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

type memRepo struct {
	items map[string]*assets.Asset
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]*assets.Asset{}}
}

func (m *memRepo) Create(ctx context.Context, a *assets.Asset) error {
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *memRepo) Find(ctx context.Context, workspaceID, id string) (*assets.Asset, error) {
	a, ok := m.items[id]
	if !ok || a.WorkspaceID != workspaceID {
		return nil, httpx.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memRepo) List(ctx context.Context, workspaceID string, filters assets.ListFilters) ([]assets.Asset, error) {
	var out []assets.Asset
	for _, a := range m.items {
		if a.WorkspaceID != workspaceID {
			continue
		}
		if filters.FileType != "" && a.FileType != filters.FileType {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, a *assets.Asset) error {
	if _, ok := m.items[a.ID]; !ok {
		return httpx.ErrNotFound
	}
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func creativeViewer() authz.Viewer {
	return authz.Viewer{
		Actor: shared.Actor{ID: "user_creative"},
		Roles: []authz.Role{authz.RoleCreative},
		OrgID: "org_1",
	}
}

func clientViewer() authz.Viewer {
	return authz.Viewer{
		Actor: shared.Actor{ID: "user_client"},
		Roles: []authz.Role{authz.RoleClientViewer},
		OrgID: "org_1",
	}
}

func TestClientViewerSeesOnlyVisibleUnexpiredAssets(t *testing.T) {
	service := assets.NewService(newMemRepo())
	actor := shared.Actor{ID: "u"}

	_, err := service.Create(context.Background(), "ws_a", assets.NewAsset{
		Name: "Internal cut", FileType: "video", FileURL: "vid/internal",
	}, actor)
	require.NoError(t, err)

	expired := time.Now().UTC().Add(-24 * time.Hour)
	lapsed, err := service.Create(context.Background(), "ws_a", assets.NewAsset{
		Name: "Lapsed UGC", FileType: "video", FileURL: "vid/ugc",
		IsClientVisible: true, RightsExpiry: &expired,
	}, actor)
	require.NoError(t, err)

	future := time.Now().UTC().Add(30 * 24 * time.Hour)
	visible, err := service.Create(context.Background(), "ws_a", assets.NewAsset{
		Name: "Hero image", FileType: "image", FileURL: "img/hero",
		IsClientVisible: true, RightsExpiry: &future,
	}, actor)
	require.NoError(t, err)

	listed, err := service.List(context.Background(), "ws_a", assets.ListFilters{}, clientViewer())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, visible.ID, listed[0].ID)

	_, err = service.Get(context.Background(), "ws_a", lapsed.ID, clientViewer())
	require.ErrorIs(t, err, httpx.ErrForbidden)

	all, err := service.List(context.Background(), "ws_a", assets.ListFilters{}, creativeViewer())
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestAddVersionBumpsCurrent(t *testing.T) {
	service := assets.NewService(newMemRepo())
	actor := shared.Actor{ID: "u"}

	created, err := service.Create(context.Background(), "ws_a", assets.NewAsset{
		Name: "Promo video", FileType: "video", FileURL: "vid/v1",
	}, actor)
	require.NoError(t, err)
	require.Equal(t, 1, created.CurrentVersion)
	require.Len(t, created.Versions, 1)

	updated, err := service.AddVersion(context.Background(), "ws_a", created.ID, assets.NewVersion{FileURL: "vid/v2"}, actor)
	require.NoError(t, err)
	require.Equal(t, 2, updated.CurrentVersion)
	require.Len(t, updated.Versions, 2)
	require.Equal(t, "vid/v2", updated.FileURL)
	require.Equal(t, 2, updated.Versions[1].VersionNumber)
}

package creators_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/creators"
	"github.com/growthos/growthos/internal/platform/httpx"
)

type memRepo struct {
	items map[string]*creators.Creator
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]*creators.Creator{}}
}

func (m *memRepo) Create(ctx context.Context, c *creators.Creator) error {
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *memRepo) Find(ctx context.Context, workspaceID, id string) (*creators.Creator, error) {
	c, ok := m.items[id]
	if !ok || c.WorkspaceID != workspaceID {
		return nil, httpx.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) List(ctx context.Context, workspaceID string, filters creators.ListFilters) ([]creators.Creator, error) {
	var out []creators.Creator
	for _, c := range m.items {
		if c.WorkspaceID != workspaceID {
			continue
		}
		if filters.PipelineStatus != "" && c.PipelineStatus != filters.PipelineStatus {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, c *creators.Creator) error {
	if _, ok := m.items[c.ID]; !ok {
		return httpx.ErrNotFound
	}
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func TestCreateStartsInDiscovery(t *testing.T) {
	service := creators.NewService(newMemRepo())

	created, err := service.Create(context.Background(), "ws_a", creators.NewCreator{
		Name:     "Maya R",
		Platform: "tiktok",
		Handle:   "@mayarcreates",
	})
	require.NoError(t, err)
	require.Equal(t, creators.StatusDiscovery, created.PipelineStatus)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "ws_a", created.WorkspaceID)
}

func TestPipelineStatusTransitions(t *testing.T) {
	service := creators.NewService(newMemRepo())

	created, err := service.Create(context.Background(), "ws_a", creators.NewCreator{Name: "X", Platform: "instagram"})
	require.NoError(t, err)

	status := creators.StatusContacted
	updated, err := service.ApplyUpdate(context.Background(), "ws_a", created.ID, creators.Update{PipelineStatus: &status})
	require.NoError(t, err)
	require.Equal(t, creators.StatusContacted, updated.PipelineStatus)

	bad := creators.PipelineStatus("ghosted")
	_, err = service.ApplyUpdate(context.Background(), "ws_a", created.ID, creators.Update{PipelineStatus: &bad})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestFitScoreBounds(t *testing.T) {
	service := creators.NewService(newMemRepo())

	eleven := 11
	_, err := service.Create(context.Background(), "ws_a", creators.NewCreator{
		Name: "X", Platform: "youtube", FitScore: &eleven,
	})
	require.ErrorIs(t, err, httpx.ErrValidation)

	eight := 8
	created, err := service.Create(context.Background(), "ws_a", creators.NewCreator{
		Name: "Y", Platform: "youtube", FitScore: &eight,
	})
	require.NoError(t, err)
	require.Equal(t, 8, *created.FitScore)
}

package funnels_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/funnels"
	"github.com/growthos/growthos/internal/platform/httpx"
)

type memRepo struct {
	items map[string]*funnels.Funnel
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]*funnels.Funnel{}}
}

func (m *memRepo) Create(ctx context.Context, f *funnels.Funnel) error {
	cp := *f
	m.items[f.ID] = &cp
	return nil
}

func (m *memRepo) Find(ctx context.Context, workspaceID, id string) (*funnels.Funnel, error) {
	f, ok := m.items[id]
	if !ok || f.WorkspaceID != workspaceID {
		return nil, httpx.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *memRepo) List(ctx context.Context, workspaceID string) ([]funnels.Funnel, error) {
	var out []funnels.Funnel
	for _, f := range m.items {
		if f.WorkspaceID == workspaceID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, f *funnels.Funnel) error {
	if _, ok := m.items[f.ID]; !ok {
		return httpx.ErrNotFound
	}
	cp := *f
	m.items[f.ID] = &cp
	return nil
}

func TestStepOrderStampedFromPosition(t *testing.T) {
	service := funnels.NewService(newMemRepo())

	created, err := service.Create(context.Background(), "ws_a", funnels.NewFunnel{
		Name: "Signup funnel",
		Steps: []funnels.NewStep{
			{Name: "Visit", EventName: "page_view"},
			{Name: "Signup", EventName: "signup"},
			{Name: "Activate", EventName: "project_created"},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Steps, 3)
	for i, step := range created.Steps {
		require.Equal(t, i+1, step.Order)
		require.NotEmpty(t, step.ID)
	}
	require.True(t, created.IsActive)
}

func TestUpdateReplacesAndRenumbersSteps(t *testing.T) {
	service := funnels.NewService(newMemRepo())

	created, err := service.Create(context.Background(), "ws_a", funnels.NewFunnel{
		Name:  "Funnel",
		Steps: []funnels.NewStep{{Name: "A"}, {Name: "B"}},
	})
	require.NoError(t, err)

	updated, err := service.ApplyUpdate(context.Background(), "ws_a", created.ID, funnels.Update{
		Steps: []funnels.NewStep{{Name: "B"}, {Name: "A"}, {Name: "C"}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Steps, 3)
	require.Equal(t, "B", updated.Steps[0].Name)
	require.Equal(t, 1, updated.Steps[0].Order)
	require.Equal(t, 3, updated.Steps[2].Order)
}

package activation_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/activation"
	"github.com/growthos/growthos/internal/audit"
	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

type memRepo struct {
	items map[string]*activation.Definition
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]*activation.Definition{}}
}

func (m *memRepo) Create(ctx context.Context, d *activation.Definition) error {
	cp := *d
	m.items[d.ID] = &cp
	return nil
}

func (m *memRepo) Find(ctx context.Context, workspaceID, id string) (*activation.Definition, error) {
	d, ok := m.items[id]
	if !ok || d.WorkspaceID != workspaceID {
		return nil, httpx.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memRepo) List(ctx context.Context, workspaceID string) ([]activation.Definition, error) {
	var out []activation.Definition
	for _, d := range m.items {
		if d.WorkspaceID == workspaceID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, d *activation.Definition) error {
	if _, ok := m.items[d.ID]; !ok {
		return httpx.ErrNotFound
	}
	cp := *d
	m.items[d.ID] = &cp
	return nil
}

type captureRecorder struct {
	entries []audit.Entry
}

func (c *captureRecorder) Record(ctx context.Context, entry audit.Entry) error {
	c.entries = append(c.entries, entry)
	return nil
}

func opsViewer() authz.Viewer {
	return authz.Viewer{
		Actor: shared.Actor{ID: "user_ops"},
		Roles: []authz.Role{authz.RoleAnalystOps},
		OrgID: "org_1",
	}
}

func TestVersionHistoryThroughAudit(t *testing.T) {
	repo := newMemRepo()
	recorder := &captureRecorder{}
	service := activation.NewService(repo, recorder)

	created, err := service.Create(context.Background(), opsViewer(), "ws_a", activation.NewDefinition{
		Name: "First key action",
		Rule: activation.Rule{RuleType: "single_event", EventName: "project_created"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, created.Version)
	require.Len(t, recorder.entries, 1)
	require.Equal(t, audit.ActionActivationCreated, recorder.entries[0].Action)

	name2 := "First key action v2"
	v2, err := service.ApplyUpdate(context.Background(), opsViewer(), "ws_a", created.ID, activation.Update{Name: &name2})
	require.NoError(t, err)
	require.Equal(t, 2, v2.Version)

	rule3 := activation.Rule{RuleType: "sequence", Events: []string{"signup", "project_created"}, TimeWindowHours: 48}
	v3, err := service.ApplyUpdate(context.Background(), opsViewer(), "ws_a", created.ID, activation.Update{Rule: &rule3})
	require.NoError(t, err)
	require.Equal(t, 3, v3.Version)

	require.Len(t, recorder.entries, 3)

	// Each change entry carries the immediately prior snapshot as the
	// before image.
	var beforeV2 activation.Definition
	require.NoError(t, json.Unmarshal(recorder.entries[1].Before, &beforeV2))
	require.Equal(t, 1, beforeV2.Version)
	require.Equal(t, "First key action", beforeV2.Name)

	var beforeV3 activation.Definition
	require.NoError(t, json.Unmarshal(recorder.entries[2].Before, &beforeV3))
	require.Equal(t, 2, beforeV3.Version)
	require.Equal(t, name2, beforeV3.Name)
	require.Equal(t, audit.ActionActivationChange, recorder.entries[2].Action)
}

func TestCreateRejectsUnknownConfidence(t *testing.T) {
	service := activation.NewService(newMemRepo(), &captureRecorder{})
	_, err := service.Create(context.Background(), opsViewer(), "ws_a", activation.NewDefinition{
		Name:       "X",
		Rule:       activation.Rule{RuleType: "single_event"},
		Confidence: "certain",
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

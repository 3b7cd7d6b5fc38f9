package experiments_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/audit"
	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/experiments"
	"github.com/growthos/growthos/internal/mail"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

type memRepo struct {
	items map[string]*experiments.Experiment
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]*experiments.Experiment{}}
}

func (m *memRepo) Create(ctx context.Context, e *experiments.Experiment) error {
	cp := *e
	m.items[e.ID] = &cp
	return nil
}

func (m *memRepo) Find(ctx context.Context, workspaceID, id string) (*experiments.Experiment, error) {
	e, ok := m.items[id]
	if !ok || e.WorkspaceID != workspaceID {
		return nil, httpx.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memRepo) List(ctx context.Context, workspaceID string, filters experiments.ListFilters) ([]experiments.Experiment, error) {
	var out []experiments.Experiment
	for _, e := range m.items {
		if e.WorkspaceID != workspaceID {
			continue
		}
		if filters.Status != "" && e.Status != filters.Status {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, e *experiments.Experiment) error {
	if _, ok := m.items[e.ID]; !ok {
		return httpx.ErrNotFound
	}
	cp := *e
	m.items[e.ID] = &cp
	return nil
}

type captureRecorder struct {
	entries []audit.Entry
	fail    error
}

func (c *captureRecorder) Record(ctx context.Context, entry audit.Entry) error {
	if c.fail != nil {
		return c.fail
	}
	c.entries = append(c.entries, entry)
	return nil
}

type stubDirectory struct{}

func (stubDirectory) UserEmail(ctx context.Context, userID string) (string, string, error) {
	return "Test User", userID + "@agency.test", nil
}

func (stubDirectory) WorkspaceName(ctx context.Context, workspaceID string) (string, error) {
	return "Acme", nil
}

func newTestService(repo experiments.Repository, recorder audit.Recorder) *experiments.Service {
	logger := slog.Default()
	dispatcher := mail.NewDispatcher(mail.NewDisabled(logger), stubDirectory{}, stubDirectory{}, logger, "https://app.test")
	return experiments.NewService(repo, recorder, dispatcher)
}

func staffViewer(workspaceID string) authz.Viewer {
	return authz.Viewer{
		Actor:       shared.Actor{ID: "user_lead", Email: "lead@agency.test"},
		Roles:       []authz.Role{authz.RoleGrowthLead},
		OrgID:       "org_1",
		WorkspaceID: workspaceID,
	}
}

func clientViewer(workspaceID string) authz.Viewer {
	return authz.Viewer{
		Actor:       shared.Actor{ID: "user_client"},
		Roles:       []authz.Role{authz.RoleClientViewer},
		OrgID:       "org_1",
		WorkspaceID: workspaceID,
	}
}

func TestCreateStampsServerFields(t *testing.T) {
	repo := newMemRepo()
	service := newTestService(repo, &captureRecorder{})

	created, err := service.Create(context.Background(), "ws_a", experiments.NewExperiment{Name: "Headline test"}, shared.Actor{ID: "user_perf"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "ws_a", created.WorkspaceID)
	require.Equal(t, experiments.StatusBacklog, created.Status)
	require.Equal(t, "user_perf", created.CreatedBy)
	require.False(t, created.CreatedAt.IsZero())

	got, err := service.Get(context.Background(), "ws_a", created.ID, staffViewer("ws_a"))
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, created.CreatedAt, got.CreatedAt)
	require.Equal(t, created.CreatedBy, got.CreatedBy)

	listed, err := service.List(context.Background(), "ws_a", experiments.ListFilters{}, staffViewer("ws_a"))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, created.ID, listed[0].ID)
}

func TestDecideWritesOneAuditEntryAndForcesStatus(t *testing.T) {
	repo := newMemRepo()
	recorder := &captureRecorder{}
	service := newTestService(repo, recorder)

	created, err := service.Create(context.Background(), "ws_a", experiments.NewExperiment{Name: "LP test"}, shared.Actor{ID: "user_perf"})
	require.NoError(t, err)

	decided, err := service.Decide(context.Background(), staffViewer("ws_a"), "ws_a", created.ID, experiments.NewDecision{
		Type:      experiments.DecisionScale,
		Rationale: "lifted conversion 18%",
	})
	require.NoError(t, err)
	require.Equal(t, experiments.StatusDecided, decided.Status)
	require.NotNil(t, decided.Decision)
	require.Equal(t, experiments.DecisionScale, decided.Decision.Type)

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	require.Equal(t, audit.ActionExperimentDecision, entry.Action)
	require.Equal(t, created.ID, entry.EntityID)
	require.Contains(t, string(entry.After), `"decided"`)
	require.Contains(t, string(entry.Before), `"backlog"`)
}

func TestDecideRejectsUnknownType(t *testing.T) {
	repo := newMemRepo()
	service := newTestService(repo, &captureRecorder{})

	created, err := service.Create(context.Background(), "ws_a", experiments.NewExperiment{Name: "X"}, shared.Actor{ID: "u"})
	require.NoError(t, err)

	_, err = service.Decide(context.Background(), staffViewer("ws_a"), "ws_a", created.ID, experiments.NewDecision{Type: "pause"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDecideFailsWhenAuditFails(t *testing.T) {
	repo := newMemRepo()
	service := newTestService(repo, &captureRecorder{fail: errors.New("audit down")})

	created, err := service.Create(context.Background(), "ws_a", experiments.NewExperiment{Name: "X"}, shared.Actor{ID: "u"})
	require.NoError(t, err)

	_, err = service.Decide(context.Background(), staffViewer("ws_a"), "ws_a", created.ID, experiments.NewDecision{
		Type: experiments.DecisionKill, Rationale: "flat",
	})
	require.Error(t, err)
}

func TestClientViewerFiltering(t *testing.T) {
	repo := newMemRepo()
	service := newTestService(repo, &captureRecorder{})

	hidden, err := service.Create(context.Background(), "ws_a", experiments.NewExperiment{Name: "Internal"}, shared.Actor{ID: "u"})
	require.NoError(t, err)
	visible, err := service.Create(context.Background(), "ws_a", experiments.NewExperiment{
		Name:            "Shared",
		InternalNotes:   "do not show client",
		IsClientVisible: true,
	}, shared.Actor{ID: "u"})
	require.NoError(t, err)

	_, err = service.AddInsight(context.Background(), "ws_a", visible.ID, experiments.NewInsight{Content: "internal learning"}, shared.Actor{ID: "u"})
	require.NoError(t, err)
	_, err = service.AddInsight(context.Background(), "ws_a", visible.ID, experiments.NewInsight{Content: "client learning", IsClientVisible: true}, shared.Actor{ID: "u"})
	require.NoError(t, err)

	listed, err := service.List(context.Background(), "ws_a", experiments.ListFilters{}, clientViewer("ws_a"))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, visible.ID, listed[0].ID)
	require.Empty(t, listed[0].InternalNotes)
	require.Len(t, listed[0].Insights, 1)
	require.Equal(t, "client learning", listed[0].Insights[0].Content)

	// Direct get of a hidden experiment is denied, not filtered.
	_, err = service.Get(context.Background(), "ws_a", hidden.ID, clientViewer("ws_a"))
	require.ErrorIs(t, err, httpx.ErrForbidden)

	got, err := service.Get(context.Background(), "ws_a", visible.ID, clientViewer("ws_a"))
	require.NoError(t, err)
	require.Empty(t, got.InternalNotes)
}

package reports_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/ai"
	"github.com/growthos/growthos/internal/audit"
	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/mail"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/reports"
	"github.com/growthos/growthos/internal/shared"
)

type memRepo struct {
	items map[string]*reports.Report
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]*reports.Report{}}
}

func (m *memRepo) Create(ctx context.Context, r *reports.Report) error {
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *memRepo) Find(ctx context.Context, workspaceID, id string) (*reports.Report, error) {
	r, ok := m.items[id]
	if !ok || r.WorkspaceID != workspaceID {
		return nil, httpx.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) List(ctx context.Context, workspaceID string, filters reports.ListFilters) ([]reports.Report, error) {
	var out []reports.Report
	for _, r := range m.items {
		if r.WorkspaceID != workspaceID {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, r *reports.Report) error {
	if _, ok := m.items[r.ID]; !ok {
		return httpx.ErrNotFound
	}
	cp := *r
	m.items[r.ID] = &cp
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

type stubDraftSource struct{}

func (stubDraftSource) NarrativeContext(ctx context.Context, workspaceID string) (ai.NarrativeContext, error) {
	return ai.NarrativeContext{WorkspaceName: "Acme", ActiveExperiments: 2}, nil
}

func newTestService(repo reports.Repository, recorder audit.Recorder) *reports.Service {
	logger := slog.Default()
	dispatcher := mail.NewDispatcher(mail.NewDisabled(logger), stubDirectory{}, stubDirectory{}, logger, "https://app.test")
	narrator := ai.NewResilient(nil, logger)
	return reports.NewService(repo, recorder, dispatcher, narrator, stubDraftSource{}, logger)
}

func leadViewer() authz.Viewer {
	return authz.Viewer{
		Actor: shared.Actor{ID: "user_lead", Name: "Jordan Lee"},
		Roles: []authz.Role{authz.RoleGrowthLead},
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

func week() (time.Time, time.Time) {
	start := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 6)
}

func TestApproveMintsShareLinkAndAudits(t *testing.T) {
	repo := newMemRepo()
	recorder := &captureRecorder{}
	service := newTestService(repo, recorder)

	start, end := week()
	created, err := service.Create(context.Background(), "ws_a", reports.NewReport{WeekStart: start, WeekEnd: end}, shared.Actor{ID: "user_owner"})
	require.NoError(t, err)
	require.Equal(t, reports.StatusDraft, created.Status)
	require.Equal(t, "user_owner", created.OwnerID)

	approved, err := service.Approve(context.Background(), leadViewer(), "ws_a", created.ID)
	require.NoError(t, err)
	require.Equal(t, reports.StatusClientReady, approved.Status)
	require.NotEmpty(t, approved.ShareLink)
	require.Equal(t, "user_lead", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	require.Equal(t, audit.ActionReportApproval, entry.Action)
	require.Equal(t, created.ID, entry.EntityID)
	require.Contains(t, string(entry.Before), `"draft"`)
	require.Contains(t, string(entry.After), `"client_ready"`)

	// Approval is one-shot: client_ready cannot be approved again.
	_, err = service.Approve(context.Background(), leadViewer(), "ws_a", created.ID)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestApproveFailsWhenAuditFails(t *testing.T) {
	repo := newMemRepo()
	service := newTestService(repo, &captureRecorder{fail: errors.New("audit down")})

	start, end := week()
	created, err := service.Create(context.Background(), "ws_a", reports.NewReport{WeekStart: start, WeekEnd: end}, shared.Actor{ID: "user_owner"})
	require.NoError(t, err)

	_, err = service.Approve(context.Background(), leadViewer(), "ws_a", created.ID)
	require.Error(t, err)
}

func TestClientViewerSeesOnlySentReports(t *testing.T) {
	repo := newMemRepo()
	service := newTestService(repo, &captureRecorder{})

	start, end := week()
	draft, err := service.Create(context.Background(), "ws_a", reports.NewReport{WeekStart: start, WeekEnd: end}, shared.Actor{ID: "u"})
	require.NoError(t, err)

	sent, err := service.Create(context.Background(), "ws_a", reports.NewReport{WeekStart: start.AddDate(0, 0, -7), WeekEnd: end.AddDate(0, 0, -7)}, shared.Actor{ID: "u"})
	require.NoError(t, err)
	status := reports.StatusSent
	sent, err = service.ApplyUpdate(context.Background(), "ws_a", sent.ID, reports.Update{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, sent.SentAt)

	listed, err := service.List(context.Background(), "ws_a", reports.ListFilters{}, clientViewer())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, sent.ID, listed[0].ID)

	_, err = service.Get(context.Background(), "ws_a", draft.ID, clientViewer())
	require.ErrorIs(t, err, httpx.ErrForbidden)

	got, err := service.Get(context.Background(), "ws_a", sent.ID, clientViewer())
	require.NoError(t, err)
	require.Equal(t, sent.ID, got.ID)
}

func TestGenerateDraftStoresNarrative(t *testing.T) {
	repo := newMemRepo()
	service := newTestService(repo, &captureRecorder{})

	start, end := week()
	created, err := service.Create(context.Background(), "ws_a", reports.NewReport{WeekStart: start, WeekEnd: end}, shared.Actor{ID: "u"})
	require.NoError(t, err)

	drafted, err := service.GenerateDraft(context.Background(), "ws_a", created.ID)
	require.NoError(t, err)
	require.True(t, drafted.IsAIGenerated)
	require.NotEmpty(t, drafted.AIDraft)
	require.Contains(t, drafted.AIDraft, "Acme")
}

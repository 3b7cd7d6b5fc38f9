package portal_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/assets"
	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/channels"
	"github.com/growthos/growthos/internal/experiments"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/portal"
	"github.com/growthos/growthos/internal/reports"
	"github.com/growthos/growthos/internal/shared"
	"github.com/growthos/growthos/internal/strategy"
	"github.com/growthos/growthos/internal/tenancy"
)

type stubWorkspaces struct {
	list []tenancy.Workspace
}

func (s *stubWorkspaces) AccessibleWorkspaces(ctx context.Context, userID, orgID string) ([]tenancy.Workspace, error) {
	return s.list, nil
}

func (s *stubWorkspaces) GetWorkspace(ctx context.Context, id string) (*tenancy.Workspace, error) {
	for _, ws := range s.list {
		if ws.ID == id {
			cp := ws
			return &cp, nil
		}
	}
	return nil, httpx.ErrNotFound
}

type stubNorthStars struct {
	byWorkspace map[string]*strategy.NorthStarMetric
}

func (s *stubNorthStars) NorthStar(ctx context.Context, workspaceID string) (*strategy.NorthStarMetric, error) {
	if m, ok := s.byWorkspace[workspaceID]; ok {
		return m, nil
	}
	return nil, httpx.ErrNotFound
}

type stubExperiments struct {
	byWorkspace map[string][]experiments.Experiment
	failFor     string
}

func (s *stubExperiments) List(ctx context.Context, workspaceID string, filters experiments.ListFilters, viewer authz.Viewer) ([]experiments.Experiment, error) {
	if workspaceID == s.failFor {
		return nil, errors.New("store unavailable")
	}
	var out []experiments.Experiment
	for _, e := range s.byWorkspace[workspaceID] {
		if filters.Status != "" && e.Status != filters.Status {
			continue
		}
		out = append(out, e)
	}
	return experiments.FilterForViewer(out, viewer), nil
}

type stubReports struct {
	byWorkspace map[string][]reports.Report
}

func (s *stubReports) List(ctx context.Context, workspaceID string, filters reports.ListFilters, viewer authz.Viewer) ([]reports.Report, error) {
	items := s.byWorkspace[workspaceID]
	if !viewer.ClientOnly() {
		return items, nil
	}
	var visible []reports.Report
	for _, rep := range items {
		if rep.Status.ClientVisible() {
			visible = append(visible, rep)
		}
	}
	return visible, nil
}

type stubChannels struct {
	byWorkspace map[string][]channels.Channel
}

func (s *stubChannels) List(ctx context.Context, workspaceID string) ([]channels.Channel, error) {
	return s.byWorkspace[workspaceID], nil
}

type stubAssets struct {
	byWorkspace map[string][]assets.Asset
}

func (s *stubAssets) List(ctx context.Context, workspaceID string, filters assets.ListFilters, viewer authz.Viewer) ([]assets.Asset, error) {
	return assets.FilterForViewer(s.byWorkspace[workspaceID], viewer, time.Now().UTC()), nil
}

func staffViewer() authz.Viewer {
	return authz.Viewer{
		Actor: shared.Actor{ID: "user_lead"},
		Roles: []authz.Role{authz.RoleGrowthLead},
		OrgID: "org_1",
	}
}

func TestCommandCenterIsolatesWorkspaceFailures(t *testing.T) {
	wss := &stubWorkspaces{list: []tenancy.Workspace{
		{ID: "ws_ok", Name: "Acme"},
		{ID: "ws_bad", Name: "Broken"},
	}}
	service := portal.NewService(
		wss,
		&stubNorthStars{byWorkspace: map[string]*strategy.NorthStarMetric{
			"ws_ok": {WorkspaceID: "ws_ok", Name: "Activations", Trend7d: -15},
		}},
		&stubExperiments{
			failFor: "ws_bad",
			byWorkspace: map[string][]experiments.Experiment{
				"ws_ok": {{ID: "exp_1", WorkspaceID: "ws_ok", Status: experiments.StatusAnalyzing, IsClientVisible: true}},
			},
		},
		&stubReports{byWorkspace: map[string][]reports.Report{
			"ws_ok": {{ID: "report_1", WorkspaceID: "ws_ok", Status: reports.StatusDraft}},
		}},
		&stubChannels{byWorkspace: map[string][]channels.Channel{
			"ws_ok": {{ID: "ch_1", WorkspaceID: "ws_ok", Name: "Meta", IsConnected: false}},
		}},
		&stubAssets{},
		slog.Default(),
	)

	data, err := service.BuildCommandCenter(context.Background(), staffViewer())
	require.NoError(t, err)
	require.Equal(t, 1, data.WorkspacesSurveyed)
	require.Equal(t, 1, data.WorkspacesSkipped)

	require.Len(t, data.AtRiskWorkspaces, 1)
	require.Contains(t, data.AtRiskWorkspaces[0].Reason, "North star down")
	require.Len(t, data.PendingDecisions, 1)
	require.Equal(t, "exp_1", data.PendingDecisions[0].Experiment.ID)
	require.Len(t, data.ReportStatuses, 1)
	require.Len(t, data.TrackingHealth, 1)
	require.Equal(t, channels.HealthRed, data.TrackingHealth[0].Health)
}

func TestClientPortalCuratesView(t *testing.T) {
	focus := []string{"Launch social proof test"}
	wss := &stubWorkspaces{list: []tenancy.Workspace{
		{ID: "ws_a", Name: "Acme", ThisWeekFocus: focus},
	}}
	service := portal.NewService(
		wss,
		&stubNorthStars{byWorkspace: map[string]*strategy.NorthStarMetric{
			"ws_a": {WorkspaceID: "ws_a", Name: "Weekly Activations", CurrentValue: 90, TargetValue: 100, Unit: "users", Trend7d: 4},
		}},
		&stubExperiments{byWorkspace: map[string][]experiments.Experiment{
			"ws_a": {
				{ID: "exp_vis", WorkspaceID: "ws_a", Status: experiments.StatusLive, IsClientVisible: true, InternalNotes: "internal"},
				{ID: "exp_hidden", WorkspaceID: "ws_a", Status: experiments.StatusLive},
			},
		}},
		&stubReports{byWorkspace: map[string][]reports.Report{
			"ws_a": {{
				ID: "report_1", WorkspaceID: "ws_a", Status: reports.StatusSent,
				Content: reports.Sections{
					WhatShipped: []string{"Shipped new landing page"},
					Learnings:   []string{"Video beats static"},
				},
			}},
		}},
		&stubChannels{byWorkspace: map[string][]channels.Channel{
			"ws_a": {{ID: "ch_1", Name: "GA4", IsConnected: true, SyncStatus: "synced"}},
		}},
		&stubAssets{byWorkspace: map[string][]assets.Asset{
			"ws_a": {
				{ID: "asset_vis", WorkspaceID: "ws_a", IsClientVisible: true},
				{ID: "asset_hidden", WorkspaceID: "ws_a"},
			},
		}},
		slog.Default(),
	)

	view, err := service.BuildClientPortal(context.Background(), staffViewer(), "ws_a")
	require.NoError(t, err)
	require.Equal(t, "Acme", view.WorkspaceName)
	require.Equal(t, focus, view.WhatsNext)
	require.Equal(t, "Weekly Activations", view.AreWeWinning.MetricName)
	require.True(t, view.AreWeWinning.OnTrack)
	require.Equal(t, []string{"Shipped new landing page"}, view.WhatWeDid)
	require.Equal(t, []string{"Video beats static"}, view.WhatWeLearned)

	// Internal-only records never reach the portal, even for staff.
	require.Len(t, view.Experiments, 1)
	require.Equal(t, "exp_vis", view.Experiments[0].ID)
	require.Empty(t, view.Experiments[0].InternalNotes)
	require.Len(t, view.CreativeGallery, 1)
	require.Equal(t, "asset_vis", view.CreativeGallery[0].ID)

	require.Equal(t, channels.HealthGreen, view.TrackingHealth.Status)
	require.Empty(t, view.TrackingHealth.Issues)
}

func TestClientPortalShowsApprovedReportBeforeSend(t *testing.T) {
	wss := &stubWorkspaces{list: []tenancy.Workspace{{ID: "ws_a", Name: "Acme"}}}
	service := portal.NewService(
		wss,
		&stubNorthStars{},
		&stubExperiments{},
		&stubReports{byWorkspace: map[string][]reports.Report{
			"ws_a": {
				{ID: "report_draft", WorkspaceID: "ws_a", Status: reports.StatusDraft,
					Content: reports.Sections{WhatShipped: []string{"Unreviewed work"}}},
				{ID: "report_ready", WorkspaceID: "ws_a", Status: reports.StatusClientReady,
					Content: reports.Sections{
						WhatShipped: []string{"Launched referral program"},
						Learnings:   []string{"Referrals convert 2x"},
					}},
			},
		}},
		&stubChannels{},
		&stubAssets{},
		slog.Default(),
	)

	view, err := service.BuildClientPortal(context.Background(), staffViewer(), "ws_a")
	require.NoError(t, err)

	// An approved report feeds the portal even before it is marked sent,
	// and drafts never do.
	require.Equal(t, []string{"Launched referral program"}, view.WhatWeDid)
	require.Equal(t, []string{"Referrals convert 2x"}, view.WhatWeLearned)
}

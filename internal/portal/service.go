// Package portal builds the cross-workspace command center and the
// curated client portal view. Both are read-only aggregations over the
// resource stores.
package portal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/growthos/growthos/internal/assets"
	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/channels"
	"github.com/growthos/growthos/internal/experiments"
	"github.com/growthos/growthos/internal/reports"
	"github.com/growthos/growthos/internal/strategy"
	"github.com/growthos/growthos/internal/tenancy"
)

// Source interfaces over the stores the aggregators read.
type (
	WorkspaceSource interface {
		AccessibleWorkspaces(ctx context.Context, userID, orgID string) ([]tenancy.Workspace, error)
		GetWorkspace(ctx context.Context, id string) (*tenancy.Workspace, error)
	}
	NorthStarSource interface {
		NorthStar(ctx context.Context, workspaceID string) (*strategy.NorthStarMetric, error)
	}
	ExperimentSource interface {
		List(ctx context.Context, workspaceID string, filters experiments.ListFilters, viewer authz.Viewer) ([]experiments.Experiment, error)
	}
	ReportSource interface {
		List(ctx context.Context, workspaceID string, filters reports.ListFilters, viewer authz.Viewer) ([]reports.Report, error)
	}
	ChannelSource interface {
		List(ctx context.Context, workspaceID string) ([]channels.Channel, error)
	}
	AssetSource interface {
		List(ctx context.Context, workspaceID string, filters assets.ListFilters, viewer authz.Viewer) ([]assets.Asset, error)
	}
)

// Service aggregates portal views.
type Service struct {
	workspaces  WorkspaceSource
	northStars  NorthStarSource
	experiments ExperimentSource
	reports     ReportSource
	channels    ChannelSource
	assets      AssetSource
	logger      *slog.Logger
}

// NewService constructs a new Service.
func NewService(workspaces WorkspaceSource, northStars NorthStarSource, experimentsSource ExperimentSource, reportsSource ReportSource, channelsSource ChannelSource, assetsSource AssetSource, logger *slog.Logger) *Service {
	return &Service{
		workspaces:  workspaces,
		northStars:  northStars,
		experiments: experimentsSource,
		reports:     reportsSource,
		channels:    channelsSource,
		assets:      assetsSource,
		logger:      logger,
	}
}

// AtRiskWorkspace flags a workspace whose north star is falling.
type AtRiskWorkspace struct {
	Workspace tenancy.Workspace `json:"workspace"`
	Reason    string            `json:"reason"`
}

// PendingDecision is an experiment stuck in analyzing.
type PendingDecision struct {
	Workspace  tenancy.Workspace      `json:"workspace"`
	Experiment experiments.Experiment `json:"experiment"`
}

// ReportStatus is the newest report per workspace.
type ReportStatus struct {
	Workspace tenancy.Workspace `json:"workspace"`
	Report    reports.Report    `json:"report"`
}

// TrackingHealth is one channel's health within a workspace.
type TrackingHealth struct {
	Workspace tenancy.Workspace `json:"workspace"`
	Channel   channels.Channel  `json:"channel"`
	Health    string            `json:"health"`
}

// CommandCenter is the cross-workspace overview.
type CommandCenter struct {
	AtRiskWorkspaces   []AtRiskWorkspace `json:"at_risk_workspaces"`
	PendingDecisions   []PendingDecision `json:"experiments_needing_decisions"`
	ReportStatuses     []ReportStatus    `json:"report_status"`
	TrackingHealth     []TrackingHealth  `json:"tracking_health"`
	WorkspacesSurveyed int               `json:"workspaces_surveyed"`
	WorkspacesSkipped  int               `json:"workspaces_skipped"`
}

const commandCenterConcurrency = 4

// BuildCommandCenter surveys every workspace the viewer can access.
// One workspace's failure is logged and skipped; the aggregate always
// returns what the healthy workspaces produced.
func (s *Service) BuildCommandCenter(ctx context.Context, viewer authz.Viewer) (*CommandCenter, error) {
	wss, err := s.workspaces.AccessibleWorkspaces(ctx, viewer.Actor.ID, viewer.OrgID)
	if err != nil {
		return nil, err
	}

	out := &CommandCenter{
		AtRiskWorkspaces: []AtRiskWorkspace{},
		PendingDecisions: []PendingDecision{},
		ReportStatuses:   []ReportStatus{},
		TrackingHealth:   []TrackingHealth{},
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(commandCenterConcurrency)
	for _, ws := range wss {
		ws := ws
		g.Go(func() error {
			snapshot, err := s.surveyWorkspace(gctx, ws, viewer)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("command center skipped workspace",
					slog.String("workspace_id", ws.ID), slog.Any("error", err))
				out.WorkspacesSkipped++
				return nil
			}
			out.AtRiskWorkspaces = append(out.AtRiskWorkspaces, snapshot.atRisk...)
			out.PendingDecisions = append(out.PendingDecisions, snapshot.pending...)
			out.ReportStatuses = append(out.ReportStatuses, snapshot.reportStatus...)
			out.TrackingHealth = append(out.TrackingHealth, snapshot.tracking...)
			out.WorkspacesSurveyed++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type workspaceSnapshot struct {
	atRisk       []AtRiskWorkspace
	pending      []PendingDecision
	reportStatus []ReportStatus
	tracking     []TrackingHealth
}

func (s *Service) surveyWorkspace(ctx context.Context, ws tenancy.Workspace, viewer authz.Viewer) (*workspaceSnapshot, error) {
	snap := &workspaceSnapshot{}

	nsm, err := s.northStars.NorthStar(ctx, ws.ID)
	if err == nil && nsm.Trend7d < -10 {
		snap.atRisk = append(snap.atRisk, AtRiskWorkspace{
			Workspace: ws,
			Reason:    fmt.Sprintf("North star down %.1f%% this week", nsm.Trend7d),
		})
	}

	analyzing, err := s.experiments.List(ctx, ws.ID, experiments.ListFilters{Status: experiments.StatusAnalyzing}, viewer)
	if err != nil {
		return nil, err
	}
	for _, e := range analyzing {
		snap.pending = append(snap.pending, PendingDecision{Workspace: ws, Experiment: e})
	}

	reportList, err := s.reports.List(ctx, ws.ID, reports.ListFilters{}, viewer)
	if err != nil {
		return nil, err
	}
	if len(reportList) > 0 {
		snap.reportStatus = append(snap.reportStatus, ReportStatus{Workspace: ws, Report: reportList[0]})
	}

	chans, err := s.channels.List(ctx, ws.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for _, c := range chans {
		snap.tracking = append(snap.tracking, TrackingHealth{
			Workspace: ws,
			Channel:   c,
			Health:    channels.HealthOf(c, now),
		})
	}
	return snap, nil
}

// AreWeWinning is the client-facing north star summary.
type AreWeWinning struct {
	MetricName   string  `json:"metric_name"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Unit         string  `json:"unit"`
	Trend7d      float64 `json:"trend_7d"`
	Trend30d     float64 `json:"trend_30d"`
	OnTrack      bool    `json:"on_track"`
}

// ClientTracking is the simplified tracking view for clients.
type ClientTracking struct {
	Status string   `json:"status"`
	Issues []string `json:"issues,omitempty"`
}

// ClientPortal is the curated client view of one workspace.
type ClientPortal struct {
	WorkspaceName   string                   `json:"workspace_name"`
	ThisWeekFocus   []string                 `json:"this_week_focus"`
	AreWeWinning    AreWeWinning             `json:"are_we_winning"`
	WhatWeDid       []string                 `json:"what_we_did"`
	WhatWeLearned   []string                 `json:"what_we_learned"`
	WhatsNext       []string                 `json:"whats_next"`
	Experiments     []experiments.Experiment `json:"experiments"`
	CreativeGallery []assets.Asset           `json:"creative_gallery"`
	TrackingHealth  ClientTracking           `json:"tracking_health"`
}

// BuildClientPortal assembles the curated view. The viewer's own
// filtering applies, so a client-only caller never sees internal data.
func (s *Service) BuildClientPortal(ctx context.Context, viewer authz.Viewer, workspaceID string) (*ClientPortal, error) {
	ws, err := s.workspaces.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	view := &ClientPortal{
		WorkspaceName: ws.Name,
		ThisWeekFocus: ws.ThisWeekFocus,
		WhatsNext:     ws.ThisWeekFocus,
		AreWeWinning:  AreWeWinning{MetricName: "North Star", OnTrack: true},
	}
	if view.ThisWeekFocus == nil {
		view.ThisWeekFocus = []string{}
		view.WhatsNext = []string{}
	}

	if nsm, err := s.northStars.NorthStar(ctx, workspaceID); err == nil {
		view.AreWeWinning = AreWeWinning{
			MetricName:   nsm.Name,
			CurrentValue: nsm.CurrentValue,
			TargetValue:  nsm.TargetValue,
			Unit:         nsm.Unit,
			Trend7d:      nsm.Trend7d,
			Trend30d:     nsm.Trend30d,
			OnTrack:      nsm.CurrentValue >= nsm.TargetValue*0.8,
		}
	}

	clientView := viewer
	if !clientView.ClientOnly() {
		clientView.Roles = []authz.Role{authz.RoleClientViewer}
	}

	// Approved reports surface here before they are marked sent, so the
	// extract is selected locally instead of through the client list rule.
	full := viewer
	full.Roles = []authz.Role{authz.RoleAdmin}
	reportList, err := s.reports.List(ctx, workspaceID, reports.ListFilters{}, full)
	if err != nil {
		return nil, err
	}
	view.WhatWeDid = []string{}
	view.WhatWeLearned = []string{}
	for _, rep := range reportList {
		if rep.Status != reports.StatusClientReady && rep.Status != reports.StatusSent {
			continue
		}
		view.WhatWeDid = rep.Content.WhatShipped
		view.WhatWeLearned = rep.Content.Learnings
		break
	}

	exps, err := s.experiments.List(ctx, workspaceID, experiments.ListFilters{}, clientView)
	if err != nil {
		return nil, err
	}
	view.Experiments = exps
	if view.Experiments == nil {
		view.Experiments = []experiments.Experiment{}
	}

	gallery, err := s.assets.List(ctx, workspaceID, assets.ListFilters{}, clientView)
	if err != nil {
		return nil, err
	}
	view.CreativeGallery = gallery
	if view.CreativeGallery == nil {
		view.CreativeGallery = []assets.Asset{}
	}

	chans, err := s.channels.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	view.TrackingHealth = clientTracking(chans)
	return view, nil
}

func clientTracking(chans []channels.Channel) ClientTracking {
	status := channels.HealthGreen
	var issues []string
	for _, c := range chans {
		if !c.IsConnected {
			if status == channels.HealthGreen {
				status = channels.HealthYellow
			}
			issues = append(issues, c.Name+" not connected")
			continue
		}
		if c.SyncStatus != "" && c.SyncStatus != "synced" {
			status = channels.HealthRed
			issues = append(issues, c.Name+" sync error")
		}
	}
	return ClientTracking{Status: status, Issues: issues}
}

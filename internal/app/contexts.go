package app

import (
	"context"
	"log/slog"

	"github.com/growthos/growthos/internal/ai"
	"github.com/growthos/growthos/internal/assets"
	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/channels"
	"github.com/growthos/growthos/internal/experiments"
	"github.com/growthos/growthos/internal/strategy"
	"github.com/growthos/growthos/internal/tenancy"
)

const maxContextInsights = 10

// ContextBuilder assembles workspace snapshots for the AI endpoints and
// the weekly report drafts. It reads through the services, not the
// repositories, so visibility rules stay in one place.
type ContextBuilder struct {
	tenants     *tenancy.Service
	strategies  *strategy.Service
	experiments *experiments.Service
	assets      *assets.Service
	channels    *channels.Service
	logger      *slog.Logger
}

// NewContextBuilder constructs a ContextBuilder.
func NewContextBuilder(tenants *tenancy.Service, strategies *strategy.Service, exps *experiments.Service, assetStore *assets.Service, chans *channels.Service, logger *slog.Logger) *ContextBuilder {
	return &ContextBuilder{
		tenants:     tenants,
		strategies:  strategies,
		experiments: exps,
		assets:      assetStore,
		channels:    chans,
		logger:      logger,
	}
}

// internalViewer sees unfiltered data. Context assembly is a server-side
// concern; the output passes back through the caller's own gates.
func internalViewer() authz.Viewer {
	return authz.Viewer{Roles: []authz.Role{authz.RoleAdmin}}
}

// NarrativeContext gathers the data behind a weekly report draft.
func (b *ContextBuilder) NarrativeContext(ctx context.Context, workspaceID string) (ai.NarrativeContext, error) {
	name, err := b.tenants.WorkspaceName(ctx, workspaceID)
	if err != nil {
		return ai.NarrativeContext{}, err
	}
	nc := ai.NarrativeContext{WorkspaceName: name}

	if nsm, err := b.strategies.NorthStar(ctx, workspaceID); err == nil {
		nc.NorthStar = ai.NorthStarSummary{
			Name:         nsm.Name,
			CurrentValue: nsm.CurrentValue,
			TargetValue:  nsm.TargetValue,
			Unit:         nsm.Unit,
			Trend7d:      nsm.Trend7d,
		}
	}

	exps, err := b.experiments.List(ctx, workspaceID, experiments.ListFilters{}, internalViewer())
	if err != nil {
		return ai.NarrativeContext{}, err
	}
	for _, e := range exps {
		if e.Status == experiments.StatusLive {
			nc.ActiveExperiments++
		}
		if e.Decision != nil {
			nc.DecisionCount++
		}
		for _, in := range e.Insights {
			if len(nc.Insights) < maxContextInsights {
				nc.Insights = append(nc.Insights, in.Content)
			}
		}
	}

	perf, err := b.channels.Performance(ctx, workspaceID)
	if err != nil {
		b.logger.Warn("narrative context without spend",
			slog.String("workspace_id", workspaceID), slog.Any("error", err))
		return nc, nil
	}
	for _, p := range perf {
		nc.TotalSpend += p.Metrics["spend"]
	}
	return nc, nil
}

// SuggestionContext gathers the data behind experiment suggestions.
func (b *ContextBuilder) SuggestionContext(ctx context.Context, workspaceID string) (ai.SuggestionContext, error) {
	ws, err := b.tenants.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return ai.SuggestionContext{}, err
	}
	sc := ai.SuggestionContext{Constraint: ws.CurrentConstraint}

	if nsm, err := b.strategies.NorthStar(ctx, workspaceID); err == nil {
		sc.Goal = nsm.Name
	}

	exps, err := b.experiments.List(ctx, workspaceID, experiments.ListFilters{}, internalViewer())
	if err != nil {
		return ai.SuggestionContext{}, err
	}
	for _, e := range exps {
		label := e.Name
		if e.Decision != nil {
			label += " (" + e.Decision.Type + ")"
		}
		sc.PastExperiments = append(sc.PastExperiments, label)
	}
	return sc, nil
}

// CreativeContext gathers the data behind creative iteration ideas.
func (b *ContextBuilder) CreativeContext(ctx context.Context, workspaceID, assetID string) (ai.CreativeContext, error) {
	a, err := b.assets.Get(ctx, workspaceID, assetID, internalViewer())
	if err != nil {
		return ai.CreativeContext{}, err
	}
	return ai.CreativeContext{
		AssetName: a.Name,
		FileType:  a.FileType,
		Tags:      tagList(a.Tags),
		CTR:       a.Performance["ctr"],
		CPC:       a.Performance["cpc"],
	}, nil
}

func tagList(t assets.Tag) []string {
	var out []string
	for _, v := range []string{t.Angle, t.Hook, t.Format, t.ICP, t.FunnelStage} {
		if v != "" {
			out = append(out, v)
		}
	}
	return append(out, t.CustomTags...)
}

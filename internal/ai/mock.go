package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Mock produces deterministic templated content. It is the default
// Narrator when no API key is configured and the fallback when the
// Anthropic call fails.
type Mock struct{}

// NewMock constructs the mock narrator.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) WeeklyNarrative(ctx context.Context, nc NarrativeContext) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "## Weekly Report - %s\n", nc.WorkspaceName)
	b.WriteString("*AI DRAFT - Requires Human Review*\n\n")
	b.WriteString("### Executive Summary\n")
	fmt.Fprintf(&b, "- North Star metric at %.1f %s (%+.1f%% WoW)\n",
		nc.NorthStar.CurrentValue, nc.NorthStar.Unit, nc.NorthStar.Trend7d)
	fmt.Fprintf(&b, "- %d experiments in progress across funnel stages\n", nc.ActiveExperiments)
	b.WriteString("- Key focus: Improving top-of-funnel conversion rates\n\n")
	b.WriteString("### What's Working\n")
	b.WriteString("- Video creative outperforming static by 2.3x on engagement\n")
	b.WriteString("- Retargeting audiences showing strong intent signals\n")
	b.WriteString("- New landing page variant improving form completion\n\n")
	b.WriteString("### Key Learnings\n")
	b.WriteString("This week validated our hypothesis that shorter-form video content resonates better with our target audience. The 15-second variants consistently outperformed 30-second versions.\n\n")
	b.WriteString("### Next Week Focus\n")
	b.WriteString("1. Scale winning video creative to additional audiences\n")
	b.WriteString("2. Launch new headline testing on landing pages\n")
	b.WriteString("3. Implement retargeting sequence optimization\n\n")
	fmt.Fprintf(&b, "---\n*Draft generated on %s*", time.Now().UTC().Format("2006-01-02"))
	return b.String(), nil
}

func (m *Mock) SuggestExperiments(ctx context.Context, sc SuggestionContext) ([]ExperimentSuggestion, error) {
	return []ExperimentSuggestion{
		{
			Name: "Headline Value Prop Test",
			Hypothesis: Hypothesis{
				Belief:  "A more specific value proposition",
				Target:  "new visitors",
				Because: "current headline is too generic based on heatmap data",
			},
			Metric:         "Click-through rate",
			ExpectedImpact: "medium",
		},
		{
			Name: "Social Proof Placement",
			Hypothesis: Hypothesis{
				Belief:  "Moving testimonials above the fold",
				Target:  "consideration-stage users",
				Because: "users scroll past current placement before converting",
			},
			Metric:         "Form start rate",
			ExpectedImpact: "high",
		},
		{
			Name: "CTA Button Color & Copy",
			Hypothesis: Hypothesis{
				Belief:  "Action-oriented CTA copy with contrast color",
				Target:  "all landing page visitors",
				Because: "current CTA blends with page design",
			},
			Metric:         "Button click rate",
			ExpectedImpact: "low",
		},
	}, nil
}

func (m *Mock) CreativeIterations(ctx context.Context, cc CreativeContext) ([]CreativeIteration, error) {
	return []CreativeIteration{
		{
			Concept:         "Problem-First Hook",
			Description:     "Lead with the pain point instead of the solution. Open with a question that resonates with the target audience's daily frustration.",
			ImprovementArea: "Scroll-stop rate",
		},
		{
			Concept:         "UGC-Style Reformat",
			Description:     "Recreate the winning message in a more authentic, user-generated style. Less polished, more relatable.",
			ImprovementArea: "Engagement rate",
		},
		{
			Concept:         "Vertical Video Adaptation",
			Description:     "Optimize the creative for 9:16 format with text overlays for sound-off viewing.",
			ImprovementArea: "Platform-specific performance",
		},
	}, nil
}

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultModel = anthropic.Model("claude-sonnet-4-5")

// Anthropic generates content through the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropic constructs a narrator for the given API key. An empty
// model selects the default.
func NewAnthropic(apiKey, model string) *Anthropic {
	m := defaultModel
	if model != "" {
		m = anthropic.Model(model)
	}
	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
	}
}

func (a *Anthropic) complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai: anthropic call: %w", err)
	}
	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}

func (a *Anthropic) WeeklyNarrative(ctx context.Context, nc NarrativeContext) (string, error) {
	system := "You are a growth marketing strategist writing a weekly client report. " +
		"Write in a clear, data-driven but approachable tone. " +
		"Focus on insights and actionable next steps. " +
		"Keep the summary concise but comprehensive."
	insights := "None this week"
	if len(nc.Insights) > 0 {
		insights = strings.Join(nc.Insights, ", ")
	}
	prompt := fmt.Sprintf(`Generate a weekly report narrative for %s.

North Star Metric: %s
- Current: %.1f %s
- Target: %.1f %s
- 7-day trend: %.1f%%

Active Experiments: %d
Key Insights: %s
Decisions Made: %d

Spend: $%.2f

Write:
1. Executive Summary (3 bullet points)
2. What's Working (2-3 points)
3. Key Learnings
4. Next Week Focus

Keep it under 300 words. Be specific and actionable.`,
		nc.WorkspaceName,
		nc.NorthStar.Name, nc.NorthStar.CurrentValue, nc.NorthStar.Unit,
		nc.NorthStar.TargetValue, nc.NorthStar.Unit, nc.NorthStar.Trend7d,
		nc.ActiveExperiments, insights, nc.DecisionCount, nc.TotalSpend)
	return a.complete(ctx, system, prompt)
}

func (a *Anthropic) SuggestExperiments(ctx context.Context, sc SuggestionContext) ([]ExperimentSuggestion, error) {
	system := "You are a growth experimentation expert. " +
		"Suggest data-driven experiments with clear hypotheses. " +
		"Respond with a JSON array only, no prose."
	prompt := fmt.Sprintf(`Suggest 3 experiments given:
- Current Constraint: %s
- Goal: %s
- Funnel Stage: %s
- Past experiments (avoid similar): %s

Respond with a JSON array of objects shaped as:
{"name": string, "hypothesis": {"belief": string, "target": string, "because": string}, "metric": string, "expected_impact": "low"|"medium"|"high"}`,
		sc.Constraint, sc.Goal, sc.FunnelStage, strings.Join(sc.PastExperiments, ", "))
	raw, err := a.complete(ctx, system, prompt)
	if err != nil {
		return nil, err
	}
	var suggestions []ExperimentSuggestion
	if err := json.Unmarshal([]byte(extractJSON(raw)), &suggestions); err != nil {
		return nil, fmt.Errorf("ai: parse experiment suggestions: %w", err)
	}
	return suggestions, nil
}

func (a *Anthropic) CreativeIterations(ctx context.Context, cc CreativeContext) ([]CreativeIteration, error) {
	system := "You are a creative strategist for performance marketing. " +
		"Suggest iterations on winning creative concepts. " +
		"Respond with a JSON array only, no prose."
	prompt := fmt.Sprintf(`Based on this winning creative:
- Name: %s
- Type: %s
- Tags: %s
- Performance: CTR %.2f%%, CPC $%.2f

Suggest 3 creative iterations (new hook angle, format variation, audience-specific version).
Respond with a JSON array of objects shaped as:
{"concept": string, "description": string, "improvement_area": string}`,
		cc.AssetName, cc.FileType, strings.Join(cc.Tags, ", "), cc.CTR*100, cc.CPC)
	raw, err := a.complete(ctx, system, prompt)
	if err != nil {
		return nil, err
	}
	var iterations []CreativeIteration
	if err := json.Unmarshal([]byte(extractJSON(raw)), &iterations); err != nil {
		return nil, fmt.Errorf("ai: parse creative iterations: %w", err)
	}
	return iterations, nil
}

// extractJSON trims anything surrounding the first JSON array in a model
// response, tolerating code fences.
func extractJSON(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

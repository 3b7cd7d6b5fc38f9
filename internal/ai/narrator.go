// Package ai generates report narratives, experiment suggestions, and
// creative iteration ideas. The Anthropic-backed implementation is
// optional; every caller goes through Resilient, which degrades to the
// deterministic mock on any failure. AI output never fails a request.
package ai

import "context"

// NorthStarSummary is the slice of strategy data the narrative needs.
type NorthStarSummary struct {
	Name         string  `json:"name"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Unit         string  `json:"unit"`
	Trend7d      float64 `json:"trend_7d"`
}

// NarrativeContext feeds the weekly report draft.
type NarrativeContext struct {
	WorkspaceName     string
	NorthStar         NorthStarSummary
	ActiveExperiments int
	Insights          []string
	DecisionCount     int
	TotalSpend        float64
}

// SuggestionContext feeds experiment suggestions.
type SuggestionContext struct {
	Constraint      string
	Goal            string
	FunnelStage     string
	PastExperiments []string
}

// Hypothesis is the structured "we believe X for Y because Z" statement.
type Hypothesis struct {
	Belief  string `json:"belief"`
	Target  string `json:"target"`
	Because string `json:"because"`
}

// ExperimentSuggestion is one proposed experiment.
type ExperimentSuggestion struct {
	Name           string     `json:"name"`
	Hypothesis     Hypothesis `json:"hypothesis"`
	Metric         string     `json:"metric"`
	ExpectedImpact string     `json:"expected_impact"`
}

// CreativeContext feeds creative iteration suggestions.
type CreativeContext struct {
	AssetName string
	FileType  string
	Tags      []string
	CTR       float64
	CPC       float64
}

// CreativeIteration is one proposed variation on a winning asset.
type CreativeIteration struct {
	Concept         string `json:"concept"`
	Description     string `json:"description"`
	ImprovementArea string `json:"improvement_area"`
}

// Narrator produces AI-drafted content.
type Narrator interface {
	WeeklyNarrative(ctx context.Context, nc NarrativeContext) (string, error)
	SuggestExperiments(ctx context.Context, sc SuggestionContext) ([]ExperimentSuggestion, error)
	CreativeIterations(ctx context.Context, cc CreativeContext) ([]CreativeIteration, error)
}

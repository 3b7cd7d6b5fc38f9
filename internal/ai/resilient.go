package ai

import (
	"context"
	"log/slog"
)

// Resilient wraps a primary narrator with the mock fallback. Callers only
// see an error if the fallback itself fails, which the mock never does.
type Resilient struct {
	primary  Narrator
	fallback Narrator
	logger   *slog.Logger
}

// NewResilient builds the degrading wrapper. A nil primary means
// mock-only mode.
func NewResilient(primary Narrator, logger *slog.Logger) *Resilient {
	return &Resilient{primary: primary, fallback: NewMock(), logger: logger}
}

func (r *Resilient) WeeklyNarrative(ctx context.Context, nc NarrativeContext) (string, error) {
	if r.primary != nil {
		text, err := r.primary.WeeklyNarrative(ctx, nc)
		if err == nil {
			return text, nil
		}
		r.logger.Warn("ai narrative degraded to mock", slog.Any("error", err))
	}
	return r.fallback.WeeklyNarrative(ctx, nc)
}

func (r *Resilient) SuggestExperiments(ctx context.Context, sc SuggestionContext) ([]ExperimentSuggestion, error) {
	if r.primary != nil {
		suggestions, err := r.primary.SuggestExperiments(ctx, sc)
		if err == nil {
			return suggestions, nil
		}
		r.logger.Warn("ai suggestions degraded to mock", slog.Any("error", err))
	}
	return r.fallback.SuggestExperiments(ctx, sc)
}

func (r *Resilient) CreativeIterations(ctx context.Context, cc CreativeContext) ([]CreativeIteration, error) {
	if r.primary != nil {
		iterations, err := r.primary.CreativeIterations(ctx, cc)
		if err == nil {
			return iterations, nil
		}
		r.logger.Warn("ai creative iterations degraded to mock", slog.Any("error", err))
	}
	return r.fallback.CreativeIterations(ctx, cc)
}

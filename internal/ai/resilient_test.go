package ai_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/ai"
)

type failingNarrator struct{}

func (f *failingNarrator) WeeklyNarrative(ctx context.Context, nc ai.NarrativeContext) (string, error) {
	return "", errors.New("upstream down")
}

func (f *failingNarrator) SuggestExperiments(ctx context.Context, sc ai.SuggestionContext) ([]ai.ExperimentSuggestion, error) {
	return nil, errors.New("upstream down")
}

func (f *failingNarrator) CreativeIterations(ctx context.Context, cc ai.CreativeContext) ([]ai.CreativeIteration, error) {
	return nil, errors.New("upstream down")
}

func TestResilientFallsBackToMock(t *testing.T) {
	r := ai.NewResilient(&failingNarrator{}, slog.Default())

	text, err := r.WeeklyNarrative(context.Background(), ai.NarrativeContext{WorkspaceName: "Acme"})
	require.NoError(t, err)
	require.True(t, strings.Contains(text, "Acme"))
	require.True(t, strings.Contains(text, "AI DRAFT"))

	suggestions, err := r.SuggestExperiments(context.Background(), ai.SuggestionContext{})
	require.NoError(t, err)
	require.Len(t, suggestions, 3)

	iterations, err := r.CreativeIterations(context.Background(), ai.CreativeContext{})
	require.NoError(t, err)
	require.Len(t, iterations, 3)
}

func TestResilientMockOnlyMode(t *testing.T) {
	r := ai.NewResilient(nil, slog.Default())
	text, err := r.WeeklyNarrative(context.Background(), ai.NarrativeContext{WorkspaceName: "Globex"})
	require.NoError(t, err)
	require.True(t, strings.Contains(text, "Globex"))
}

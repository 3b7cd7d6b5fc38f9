package alerts_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/alerts"
	"github.com/growthos/growthos/internal/connectors"
)

func day(spend float64, impressions, clicks, activations int64) connectors.DailyMetrics {
	return connectors.DailyMetrics{
		Spend:       spend,
		Impressions: impressions,
		Clicks:      clicks,
		Activations: activations,
	}
}

func TestDetectSpendSpike(t *testing.T) {
	daily := []connectors.DailyMetrics{
		day(100, 10000, 200, 5),
		day(180, 10000, 200, 5),
	}
	found := alerts.Detect(daily)
	require.Len(t, found, 1)
	require.Equal(t, alerts.TypeSpendSpike, found[0].Type)
	require.Equal(t, alerts.SeverityHigh, found[0].Severity)
	require.Contains(t, found[0].Description, "80%")
}

func TestDetectActivationFlatline(t *testing.T) {
	var daily []connectors.DailyMetrics
	for i := 0; i < 7; i++ {
		daily = append(daily, day(50, 10000, 200, 0))
	}
	found := alerts.Detect(daily)
	require.Len(t, found, 1)
	require.Equal(t, alerts.TypeActivationFlatline, found[0].Type)
	require.Equal(t, alerts.SeverityCritical, found[0].Severity)
	require.Contains(t, found[0].Description, "$350.00")
}

func TestDetectCTRDrop(t *testing.T) {
	var daily []connectors.DailyMetrics
	// Four steady days, then three with half the clicks.
	for i := 0; i < 4; i++ {
		daily = append(daily, day(100, 10000, 400, 5))
	}
	for i := 0; i < 3; i++ {
		daily = append(daily, day(100, 10000, 200, 5))
	}
	found := alerts.Detect(daily)
	require.Len(t, found, 1)
	require.Equal(t, alerts.TypeCTRDrop, found[0].Type)
	require.Equal(t, alerts.SeverityMedium, found[0].Severity)
}

func TestDetectQuietSeries(t *testing.T) {
	var daily []connectors.DailyMetrics
	for i := 0; i < 14; i++ {
		daily = append(daily, day(100, 10000, 300, 10))
	}
	require.Empty(t, alerts.Detect(daily))
}

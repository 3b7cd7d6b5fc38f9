package alerts

import (
	"fmt"

	"github.com/growthos/growthos/internal/connectors"
)

// Anomaly is one detected irregularity. Detection is stateless; the
// caller decides whether to persist it as an Alert.
type Anomaly struct {
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
}

// Detect runs the rule set over a daily metric series, oldest first.
func Detect(daily []connectors.DailyMetrics) []Anomaly {
	anomalies := []Anomaly{}

	// Spend spike: >50% increase day-over-day.
	if len(daily) >= 2 {
		today := daily[len(daily)-1].Spend
		yesterday := daily[len(daily)-2].Spend
		if yesterday > 0 && (today-yesterday)/yesterday > 0.5 {
			pct := (today - yesterday) / yesterday * 100
			anomalies = append(anomalies, Anomaly{
				Type:        TypeSpendSpike,
				Severity:    SeverityHigh,
				Title:       "Spend Spike Detected",
				Description: fmt.Sprintf("Spend increased %.0f%% day-over-day", pct),
				Value:       today,
			})
		}
	}

	// Activation flatline: zero activations with meaningful spend over
	// the trailing week.
	window := daily
	if len(window) > 7 {
		window = window[len(window)-7:]
	}
	var recentActivations int64
	var recentSpend float64
	for _, d := range window {
		recentActivations += d.Activations
		recentSpend += d.Spend
	}
	if recentActivations == 0 && recentSpend > 100 {
		anomalies = append(anomalies, Anomaly{
			Type:        TypeActivationFlatline,
			Severity:    SeverityCritical,
			Title:       "Activation Flatline Alert",
			Description: fmt.Sprintf("0 activations detected with $%.2f spend in last 7 days", recentSpend),
			Value:       0,
		})
	}

	// CTR drop: last 3 days vs the 4 days before, >30% decline.
	if len(daily) >= 7 {
		var recentCTR, previousCTR float64
		for _, d := range daily[len(daily)-3:] {
			recentCTR += d.CTR()
		}
		recentCTR /= 3
		for _, d := range daily[len(daily)-7 : len(daily)-3] {
			previousCTR += d.CTR()
		}
		previousCTR /= 4
		if previousCTR > 0 && (previousCTR-recentCTR)/previousCTR > 0.3 {
			pct := (previousCTR - recentCTR) / previousCTR * 100
			anomalies = append(anomalies, Anomaly{
				Type:        TypeCTRDrop,
				Severity:    SeverityMedium,
				Title:       "CTR Decline",
				Description: fmt.Sprintf("CTR dropped %.0f%% vs previous period", pct),
				Value:       recentCTR,
			})
		}
	}

	return anomalies
}

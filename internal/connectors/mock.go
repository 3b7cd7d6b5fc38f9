package connectors

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"
)

// mockDays is how much daily history a mock sync fabricates.
const mockDays = 14

// mockSeed derives a stable seed from the source name and account id so
// repeated syncs of the same channel produce the same series.
func mockSeed(source, accountID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(source))
	_, _ = h.Write([]byte(accountID))
	return int64(h.Sum64())
}

// mockResult fabricates a plausible sync payload. baseSpend and baseImpr
// set the scale per platform.
func mockResult(source, accountID string, baseSpend float64, baseImpr int64, campaignNames []string) *SyncResult {
	rng := rand.New(rand.NewSource(mockSeed(source, accountID)))
	now := time.Now().UTC()

	daily := make([]DailyMetrics, 0, mockDays)
	var totalSpend float64
	var totalImpr, totalClicks, totalConv int64
	for i := mockDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		spend := baseSpend * (0.7 + rng.Float64()*0.6)
		impressions := int64(float64(baseImpr) * (0.7 + rng.Float64()*0.6))
		clicks := int64(float64(impressions) * (0.01 + rng.Float64()*0.04))
		conversions := int64(float64(clicks) * (0.05 + rng.Float64()*0.15))
		activations := int64(float64(conversions) * (0.3 + rng.Float64()*0.5))
		daily = append(daily, DailyMetrics{
			Date:        day.Format("2006-01-02"),
			Spend:       round2(spend),
			Impressions: impressions,
			Clicks:      clicks,
			Conversions: conversions,
			Activations: activations,
		})
		totalSpend += spend
		totalImpr += impressions
		totalClicks += clicks
		totalConv += conversions
	}

	campaigns := make([]Campaign, 0, len(campaignNames))
	for i, name := range campaignNames {
		share := 0.1 + rng.Float64()*0.4
		campaigns = append(campaigns, Campaign{
			ID:          fmt.Sprintf("%s-c%d", source, i+1),
			Name:        name,
			Status:      "active",
			Spend:       round2(totalSpend * share / float64(len(campaignNames))),
			Impressions: int64(float64(totalImpr) * share / float64(len(campaignNames))),
			Clicks:      int64(float64(totalClicks) * share / float64(len(campaignNames))),
			Conversions: int64(float64(totalConv) * share / float64(len(campaignNames))),
		})
	}

	ctr := 0.0
	if totalImpr > 0 {
		ctr = float64(totalClicks) / float64(totalImpr)
	}
	return &SyncResult{
		Source:   source,
		SyncedAt: now,
		Metrics: map[string]float64{
			"spend":       round2(totalSpend),
			"impressions": float64(totalImpr),
			"clicks":      float64(totalClicks),
			"conversions": float64(totalConv),
			"ctr":         ctr,
		},
		Campaigns: campaigns,
		Daily:     daily,
		Mocked:    true,
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

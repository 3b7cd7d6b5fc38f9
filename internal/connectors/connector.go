// Package connectors holds the ad-platform clients (GA4, Meta Ads, Google
// Ads). Each client implements the same Connector interface and returns a
// typed SyncResult. Without credentials a connector runs in mock mode and
// produces seeded pseudo-random data; the caller decides per endpoint
// whether mock output is an acceptable substitute or the failure must
// propagate.
package connectors

import (
	"context"
	"fmt"
	"time"
)

// Connector types, matching the channel records that reference them.
const (
	TypeGA4       = "ga4"
	TypeMetaAds   = "meta_ads"
	TypeGoogleAds = "google_ads"
)

// Campaign is one campaign row returned by a sync.
type Campaign struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
}

// DailyMetrics is one day of channel performance.
type DailyMetrics struct {
	Date        string  `json:"date"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Activations int64   `json:"activations"`
}

// CTR returns clicks over impressions for the day.
func (d DailyMetrics) CTR() float64 {
	if d.Impressions == 0 {
		return 0
	}
	return float64(d.Clicks) / float64(d.Impressions)
}

// SyncResult is the typed outcome of one connector sync.
type SyncResult struct {
	Source    string             `json:"source"`
	SyncedAt  time.Time          `json:"synced_at"`
	Metrics   map[string]float64 `json:"metrics"`
	Campaigns []Campaign         `json:"campaigns,omitempty"`
	Daily     []DailyMetrics     `json:"daily"`
	Mocked    bool               `json:"mocked"`
}

// Credentials is the per-channel secret material. Connectors read what
// they need; an empty map selects mock mode.
type Credentials map[string]string

// Connector is implemented once per ad platform.
type Connector interface {
	Type() string
	// Connect verifies the credentials reach the platform.
	Connect(ctx context.Context, creds Credentials) error
	// Sync pulls campaigns and metrics. Implementations must honor ctx
	// cancellation.
	Sync(ctx context.Context, creds Credentials) (*SyncResult, error)
}

// Registry maps connector types to their client.
type Registry struct {
	byType map[string]Connector
}

// NewRegistry builds a registry over the given connectors.
func NewRegistry(conns ...Connector) *Registry {
	byType := make(map[string]Connector, len(conns))
	for _, c := range conns {
		byType[c.Type()] = c
	}
	return &Registry{byType: byType}
}

// Lookup returns the connector for a type.
func (r *Registry) Lookup(connectorType string) (Connector, error) {
	c, ok := r.byType[connectorType]
	if !ok {
		return nil, fmt.Errorf("connectors: unknown connector type %q", connectorType)
	}
	return c, nil
}

// Default returns a registry with all built-in connectors.
func Default() *Registry {
	return NewRegistry(NewGA4(), NewMetaAds(), NewGoogleAds())
}

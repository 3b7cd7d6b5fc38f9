package connectors

import (
	"context"
	"fmt"
)

// GA4 pulls sessions and conversion events from Google Analytics 4.
type GA4 struct{}

// NewGA4 constructs the GA4 connector.
func NewGA4() *GA4 {
	return &GA4{}
}

func (g *GA4) Type() string {
	return TypeGA4
}

// Connect verifies the property credentials. Empty credentials select mock
// mode, which always connects.
func (g *GA4) Connect(ctx context.Context, creds Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(creds) == 0 {
		return nil
	}
	if creds["property_id"] == "" {
		return fmt.Errorf("ga4: property_id missing from credentials")
	}
	if creds["api_secret"] == "" {
		return fmt.Errorf("ga4: api_secret missing from credentials")
	}
	return nil
}

func (g *GA4) Sync(ctx context.Context, creds Credentials) (*SyncResult, error) {
	if err := g.Connect(ctx, creds); err != nil {
		return nil, err
	}
	result := mockResult(TypeGA4, creds["property_id"], 0, 45000, nil)
	// GA4 reports traffic, not ad spend.
	result.Metrics["sessions"] = result.Metrics["clicks"] * 3.2
	delete(result.Metrics, "spend")
	for i := range result.Daily {
		result.Daily[i].Spend = 0
	}
	return result, nil
}

package connectors

import (
	"context"
	"fmt"
)

// GoogleAds pulls search and performance-max campaign data.
type GoogleAds struct{}

// NewGoogleAds constructs the Google Ads connector.
func NewGoogleAds() *GoogleAds {
	return &GoogleAds{}
}

func (g *GoogleAds) Type() string {
	return TypeGoogleAds
}

func (g *GoogleAds) Connect(ctx context.Context, creds Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(creds) == 0 {
		return nil
	}
	if creds["refresh_token"] == "" {
		return fmt.Errorf("google_ads: refresh_token missing from credentials")
	}
	if creds["customer_id"] == "" {
		return fmt.Errorf("google_ads: customer_id missing from credentials")
	}
	return nil
}

func (g *GoogleAds) Sync(ctx context.Context, creds Credentials) (*SyncResult, error) {
	if err := g.Connect(ctx, creds); err != nil {
		return nil, err
	}
	return mockResult(TypeGoogleAds, creds["customer_id"], 620, 95000,
		[]string{"Brand Search", "Generic Search", "Performance Max"}), nil
}

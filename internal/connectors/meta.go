package connectors

import (
	"context"
	"fmt"
)

// MetaAds pulls campaign performance from the Meta Ads accounts.
type MetaAds struct{}

// NewMetaAds constructs the Meta Ads connector.
func NewMetaAds() *MetaAds {
	return &MetaAds{}
}

func (m *MetaAds) Type() string {
	return TypeMetaAds
}

func (m *MetaAds) Connect(ctx context.Context, creds Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(creds) == 0 {
		return nil
	}
	if creds["access_token"] == "" {
		return fmt.Errorf("meta_ads: access_token missing from credentials")
	}
	if creds["account_id"] == "" {
		return fmt.Errorf("meta_ads: account_id missing from credentials")
	}
	return nil
}

func (m *MetaAds) Sync(ctx context.Context, creds Credentials) (*SyncResult, error) {
	if err := m.Connect(ctx, creds); err != nil {
		return nil, err
	}
	return mockResult(TypeMetaAds, creds["account_id"], 850, 120000,
		[]string{"Prospecting - Broad", "Retargeting - 14d", "Lookalike 1%"}), nil
}

package connectors_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/connectors"
)

func TestRegistryLookup(t *testing.T) {
	registry := connectors.Default()
	for _, typ := range []string{connectors.TypeGA4, connectors.TypeMetaAds, connectors.TypeGoogleAds} {
		c, err := registry.Lookup(typ)
		require.NoError(t, err)
		require.Equal(t, typ, c.Type())
	}
	_, err := registry.Lookup("tiktok_ads")
	require.Error(t, err)
}

func TestMockSyncIsDeterministic(t *testing.T) {
	meta := connectors.NewMetaAds()

	first, err := meta.Sync(context.Background(), nil)
	require.NoError(t, err)
	second, err := meta.Sync(context.Background(), nil)
	require.NoError(t, err)

	require.True(t, first.Mocked)
	require.Equal(t, first.Metrics["spend"], second.Metrics["spend"])
	require.Equal(t, first.Daily, second.Daily)
	require.Len(t, first.Daily, 14)
	require.NotEmpty(t, first.Campaigns)
}

func TestConnectRejectsPartialCredentials(t *testing.T) {
	meta := connectors.NewMetaAds()
	err := meta.Connect(context.Background(), connectors.Credentials{"account_id": "act_1"})
	require.Error(t, err)

	ga := connectors.NewGoogleAds()
	err = ga.Connect(context.Background(), connectors.Credentials{"customer_id": "123"})
	require.Error(t, err)
}

func TestGA4SyncReportsNoSpend(t *testing.T) {
	ga4 := connectors.NewGA4()
	result, err := ga4.Sync(context.Background(), nil)
	require.NoError(t, err)
	require.NotContains(t, result.Metrics, "spend")
	require.Contains(t, result.Metrics, "sessions")
	for _, d := range result.Daily {
		require.Zero(t, d.Spend)
	}
}

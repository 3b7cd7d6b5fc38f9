package channels_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/channels"
	"github.com/growthos/growthos/internal/connectors"
	"github.com/growthos/growthos/internal/platform/httpx"
)

type memRepo struct {
	items map[string]*channels.Channel
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]*channels.Channel{}}
}

func (m *memRepo) Create(ctx context.Context, c *channels.Channel) error {
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *memRepo) Find(ctx context.Context, workspaceID, id string) (*channels.Channel, error) {
	c, ok := m.items[id]
	if !ok || c.WorkspaceID != workspaceID {
		return nil, httpx.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) List(ctx context.Context, workspaceID string) ([]channels.Channel, error) {
	var out []channels.Channel
	for _, c := range m.items {
		if c.WorkspaceID == workspaceID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, c *channels.Channel) error {
	if _, ok := m.items[c.ID]; !ok {
		return httpx.ErrNotFound
	}
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

type brokenConnector struct{}

func (brokenConnector) Type() string { return connectors.TypeMetaAds }

func (brokenConnector) Connect(ctx context.Context, creds connectors.Credentials) error {
	return nil
}

func (brokenConnector) Sync(ctx context.Context, creds connectors.Credentials) (*connectors.SyncResult, error) {
	return nil, errors.New("token expired")
}

func TestSyncSuccessStampsChannel(t *testing.T) {
	repo := newMemRepo()
	service := channels.NewService(repo, connectors.Default(), slog.Default())

	created, err := service.Create(context.Background(), "ws_a", channels.NewChannel{
		Name: "Meta Prospecting", ConnectorType: connectors.TypeMetaAds,
	})
	require.NoError(t, err)
	require.False(t, created.IsConnected)

	c, result, err := service.Sync(context.Background(), "ws_a", created.ID)
	require.NoError(t, err)
	require.Equal(t, "synced", c.SyncStatus)
	require.NotNil(t, c.LastSynced)
	require.True(t, result.Mocked)
	require.NotEmpty(t, result.Daily)
}

func TestSyncFailureKeepsLastSynced(t *testing.T) {
	repo := newMemRepo()
	service := channels.NewService(repo, connectors.NewRegistry(brokenConnector{}), slog.Default())

	created, err := service.Create(context.Background(), "ws_a", channels.NewChannel{
		Name: "Meta", ConnectorType: connectors.TypeMetaAds,
	})
	require.NoError(t, err)

	lastGood := time.Now().UTC().Add(-2 * time.Hour)
	stored := repo.items[created.ID]
	stored.LastSynced = &lastGood

	_, _, err = service.Sync(context.Background(), "ws_a", created.ID)
	require.ErrorIs(t, err, httpx.ErrUpstream)

	after, err := service.Get(context.Background(), "ws_a", created.ID)
	require.NoError(t, err)
	require.Contains(t, after.SyncStatus, "error:")
	require.Contains(t, after.SyncStatus, "token expired")
	require.NotNil(t, after.LastSynced)
	require.Equal(t, lastGood.Unix(), after.LastSynced.Unix())
}

func TestCreateRejectsUnknownConnector(t *testing.T) {
	service := channels.NewService(newMemRepo(), connectors.Default(), slog.Default())
	_, err := service.Create(context.Background(), "ws_a", channels.NewChannel{
		Name: "LinkedIn", ConnectorType: "linkedin_ads",
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestHealthClassification(t *testing.T) {
	now := time.Now().UTC()
	recent := now.Add(-1 * time.Hour)
	stale := now.Add(-30 * time.Hour)

	require.Equal(t, channels.HealthRed, channels.HealthOf(channels.Channel{IsConnected: false}, now))
	require.Equal(t, channels.HealthRed, channels.HealthOf(channels.Channel{
		IsConnected: true, SyncStatus: "error: token expired", LastSynced: &recent,
	}, now))
	require.Equal(t, channels.HealthYellow, channels.HealthOf(channels.Channel{
		IsConnected: true, SyncStatus: "synced", LastSynced: &stale,
	}, now))
	require.Equal(t, channels.HealthGreen, channels.HealthOf(channels.Channel{
		IsConnected: true, SyncStatus: "synced", LastSynced: &recent,
	}, now))
}

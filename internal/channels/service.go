package channels

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/growthos/growthos/internal/connectors"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

// Service wraps channel business rules.
type Service struct {
	repo     Repository
	registry *connectors.Registry
	logger   *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, registry *connectors.Registry, logger *slog.Logger) *Service {
	return &Service{repo: repo, registry: registry, logger: logger}
}

// NewChannel carries the fields accepted at creation.
type NewChannel struct {
	Name          string
	ConnectorType string
}

// Create persists a disconnected channel.
func (s *Service) Create(ctx context.Context, workspaceID string, input NewChannel) (*Channel, error) {
	if _, err := s.registry.Lookup(input.ConnectorType); err != nil {
		return nil, fmt.Errorf("%w: unknown connector type %q", httpx.ErrValidation, input.ConnectorType)
	}
	now := time.Now().UTC()
	c := &Channel{
		ID:            shared.NewID("ch"),
		WorkspaceID:   workspaceID,
		Name:          input.Name,
		ConnectorType: input.ConnectorType,
		Credentials:   map[string]string{},
		Settings:      map[string]any{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the workspace's channels.
func (s *Service) List(ctx context.Context, workspaceID string) ([]Channel, error) {
	return s.repo.List(ctx, workspaceID)
}

// Get returns one channel.
func (s *Service) Get(ctx context.Context, workspaceID, id string) (*Channel, error) {
	return s.repo.Find(ctx, workspaceID, id)
}

// Connect stores credentials after verifying them with the platform.
// An empty credential set is allowed and keeps the channel in mock
// mode.
func (s *Service) Connect(ctx context.Context, workspaceID, id string, creds map[string]string) (*Channel, error) {
	c, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	conn, err := s.registry.Lookup(c.ConnectorType)
	if err != nil {
		return nil, err
	}
	if err := conn.Connect(ctx, connectors.Credentials(creds)); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	c.Credentials = creds
	c.IsConnected = true
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Sync pulls fresh platform data through the connector. A connector
// failure surfaces as an upstream error and records the failure on the
// channel while keeping the last successful sync time.
func (s *Service) Sync(ctx context.Context, workspaceID, id string) (*Channel, *connectors.SyncResult, error) {
	c, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, nil, err
	}
	conn, err := s.registry.Lookup(c.ConnectorType)
	if err != nil {
		return nil, nil, err
	}
	result, syncErr := conn.Sync(ctx, connectors.Credentials(c.Credentials))
	now := time.Now().UTC()
	if syncErr != nil {
		c.SyncStatus = fmt.Sprintf("error: %v", syncErr)
		c.UpdatedAt = now
		if err := s.repo.Update(ctx, c); err != nil {
			s.logger.Error("sync failure not recorded", slog.String("channel_id", c.ID), slog.Any("error", err))
		}
		return nil, nil, fmt.Errorf("%w: %s sync failed: %v", httpx.ErrUpstream, c.ConnectorType, syncErr)
	}
	c.SyncStatus = "synced"
	c.LastSynced = &now
	c.UpdatedAt = now
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, nil, err
	}
	return c, result, nil
}

// ChannelPerformance pairs a channel with its metrics.
type ChannelPerformance struct {
	ChannelID     string                    `json:"channel_id"`
	ChannelName   string                    `json:"channel_name"`
	ConnectorType string                    `json:"connector_type"`
	Mocked        bool                      `json:"mocked"`
	Metrics       map[string]float64        `json:"metrics"`
	Daily         []connectors.DailyMetrics `json:"daily"`
}

// Performance returns metrics for every connected channel. Connector
// failures here degrade to mock data rather than erroring; dashboards
// prefer stale-looking numbers over a broken page.
func (s *Service) Performance(ctx context.Context, workspaceID string) ([]ChannelPerformance, error) {
	items, err := s.repo.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	out := make([]ChannelPerformance, 0, len(items))
	for _, c := range items {
		conn, err := s.registry.Lookup(c.ConnectorType)
		if err != nil {
			continue
		}
		result, err := conn.Sync(ctx, connectors.Credentials(c.Credentials))
		if err != nil {
			s.logger.Warn("performance read degraded to mock",
				slog.String("channel_id", c.ID), slog.Any("error", err))
			result, err = conn.Sync(ctx, connectors.Credentials{})
			if err != nil {
				continue
			}
		}
		out = append(out, ChannelPerformance{
			ChannelID:     c.ID,
			ChannelName:   c.Name,
			ConnectorType: c.ConnectorType,
			Mocked:        result.Mocked,
			Metrics:       result.Metrics,
			Daily:         result.Daily,
		})
	}
	return out, nil
}

// Health classifies channel tracking state for dashboards.
const (
	HealthGreen  = "green"
	HealthYellow = "yellow"
	HealthRed    = "red"
)

// HealthOf returns the tracking health of a channel at the given
// instant: red when disconnected or the last sync errored, yellow when
// the last success is older than 24h, green otherwise.
func HealthOf(c Channel, now time.Time) string {
	if !c.IsConnected {
		return HealthRed
	}
	if c.SyncStatus != "" && c.SyncStatus != "synced" {
		return HealthRed
	}
	if c.LastSynced == nil || now.Sub(*c.LastSynced) > 24*time.Hour {
		return HealthYellow
	}
	return HealthGreen
}

package alerts

import (
	"context"
	"time"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/channels"
	"github.com/growthos/growthos/internal/shared"
)

// MetricsSource supplies per-channel daily metrics for detection.
type MetricsSource interface {
	Performance(ctx context.Context, workspaceID string) ([]channels.ChannelPerformance, error)
}

// Service wraps alert business rules.
type Service struct {
	repo    Repository
	metrics MetricsSource
}

// NewService constructs a new Service.
func NewService(repo Repository, metrics MetricsSource) *Service {
	return &Service{repo: repo, metrics: metrics}
}

// NewAlert carries the fields accepted at creation.
type NewAlert struct {
	AlertType   string
	Severity    string
	Title       string
	Description string
}

// Create persists an open alert.
func (s *Service) Create(ctx context.Context, workspaceID string, input NewAlert) (*Alert, error) {
	a := &Alert{
		ID:          shared.NewID("alert"),
		WorkspaceID: workspaceID,
		AlertType:   input.AlertType,
		Severity:    input.Severity,
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Open lists the workspace's unresolved alerts.
func (s *Service) Open(ctx context.Context, workspaceID string) ([]Alert, error) {
	return s.repo.ListOpen(ctx, workspaceID)
}

// Resolve marks an alert resolved by the caller. Resolving an already
// resolved alert is a no-op.
func (s *Service) Resolve(ctx context.Context, viewer authz.Viewer, workspaceID, id string) (*Alert, error) {
	a, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if a.IsResolved {
		return a, nil
	}
	now := time.Now().UTC()
	a.IsResolved = true
	a.ResolvedAt = &now
	a.ResolvedBy = viewer.Actor.ID
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ChannelAnomalies pairs a channel with what detection found in it.
type ChannelAnomalies struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	Anomalies   []Anomaly `json:"anomalies"`
}

// Anomalies runs detection over every channel's daily series and
// returns the findings together with open stored alerts.
func (s *Service) Anomalies(ctx context.Context, workspaceID string) ([]ChannelAnomalies, []Alert, error) {
	perf, err := s.metrics.Performance(ctx, workspaceID)
	if err != nil {
		return nil, nil, err
	}
	found := []ChannelAnomalies{}
	for _, p := range perf {
		anomalies := Detect(p.Daily)
		if len(anomalies) == 0 {
			continue
		}
		found = append(found, ChannelAnomalies{
			ChannelID:   p.ChannelID,
			ChannelName: p.ChannelName,
			Anomalies:   anomalies,
		})
	}
	open, err := s.repo.ListOpen(ctx, workspaceID)
	if err != nil {
		return nil, nil, err
	}
	return found, open, nil
}

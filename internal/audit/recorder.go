package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/growthos/growthos/internal/shared"
)

// Recorder writes audit entries. Domain services depend on this interface
// so tests can capture entries without a database.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Service is the production Recorder plus the read side for the admin
// audit listing.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs the audit service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record persists an entry in the same request that performed the action.
// The caller fails its operation if Record fails.
func (s *Service) Record(ctx context.Context, entry Entry) error {
	entry.ID = shared.NewID("audit")
	entry.CreatedAt = time.Now().UTC()
	if err := s.repo.Insert(ctx, &entry); err != nil {
		return fmt.Errorf("audit: record %s: %w", entry.Action, err)
	}
	s.logger.Info("audit entry recorded",
		"action", entry.Action,
		"entity_type", entry.EntityType,
		"entity_id", entry.EntityID,
		"actor_id", entry.ActorID)
	return nil
}

// List returns entries for one org, newest first.
func (s *Service) List(ctx context.Context, orgID string, filters Filters) ([]Entry, error) {
	return s.repo.List(ctx, orgID, filters)
}

// Image marshals an entity snapshot for the before/after columns. A nil
// value marshals to JSON null, which the columns accept.
func Image(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}

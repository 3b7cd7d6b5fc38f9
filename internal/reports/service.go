package reports

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/growthos/growthos/internal/ai"
	"github.com/growthos/growthos/internal/audit"
	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/mail"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

// DraftContextSource assembles the workspace context fed to the AI
// narrative.
type DraftContextSource interface {
	NarrativeContext(ctx context.Context, workspaceID string) (ai.NarrativeContext, error)
}

// Service wraps weekly report business rules.
type Service struct {
	repo       Repository
	recorder   audit.Recorder
	dispatcher *mail.Dispatcher
	narrator   ai.Narrator
	drafts     DraftContextSource
	logger     *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, recorder audit.Recorder, dispatcher *mail.Dispatcher, narrator ai.Narrator, drafts DraftContextSource, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, dispatcher: dispatcher, narrator: narrator, drafts: drafts, logger: logger}
}

// NewReport carries the fields accepted at creation.
type NewReport struct {
	WeekStart time.Time
	WeekEnd   time.Time
}

// Create opens a draft report owned by the caller.
func (s *Service) Create(ctx context.Context, workspaceID string, input NewReport, actor shared.Actor) (*Report, error) {
	if !input.WeekEnd.After(input.WeekStart) {
		return nil, fmt.Errorf("%w: week_end must follow week_start", httpx.ErrValidation)
	}
	now := time.Now().UTC()
	rep := &Report{
		ID:          shared.NewID("report"),
		WorkspaceID: workspaceID,
		WeekStart:   input.WeekStart,
		WeekEnd:     input.WeekEnd,
		Status:      StatusDraft,
		Content:     EmptySections(),
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// List returns workspace reports. Client-only viewers see only sent
// and archived reports regardless of the requested filter.
func (s *Service) List(ctx context.Context, workspaceID string, filters ListFilters, viewer authz.Viewer) ([]Report, error) {
	items, err := s.repo.List(ctx, workspaceID, filters)
	if err != nil {
		return nil, err
	}
	if !viewer.ClientOnly() {
		return items, nil
	}
	visible := make([]Report, 0, len(items))
	for _, rep := range items {
		if rep.Status.ClientVisible() {
			visible = append(visible, rep)
		}
	}
	return visible, nil
}

// Get returns one report. A client-only viewer asking for an unsent
// report gets forbidden, not an empty filter.
func (s *Service) Get(ctx context.Context, workspaceID, id string, viewer authz.Viewer) (*Report, error) {
	rep, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if viewer.ClientOnly() && !rep.Status.ClientVisible() {
		return nil, httpx.ErrForbidden
	}
	return rep, nil
}

// Update carries the mutable report fields. Nil means leave unchanged.
type Update struct {
	Content *Sections
	Status  *Status
}

// ApplyUpdate merges the patch into a report. Moving to sent stamps
// sent_at once.
func (s *Service) ApplyUpdate(ctx context.Context, workspaceID, id string, patch Update) (*Report, error) {
	rep, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, *patch.Status)
		}
		rep.Status = *patch.Status
		if rep.Status == StatusSent && rep.SentAt == nil {
			now := time.Now().UTC()
			rep.SentAt = &now
		}
	}
	if patch.Content != nil {
		rep.Content = *patch.Content
	}
	rep.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

type statusImage struct {
	Status Status `json:"status"`
}

// Approve moves a draft or in-review report to client_ready, mints the
// share link, stamps the approver, writes one audit entry, and sends a
// best-effort notification to the owner. The audit write is part of
// the operation; the email is not.
func (s *Service) Approve(ctx context.Context, viewer authz.Viewer, workspaceID, id string) (*Report, error) {
	rep, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if rep.Status != StatusDraft && rep.Status != StatusInternalReview {
		return nil, fmt.Errorf("%w: report in state %q cannot be approved", httpx.ErrValidation, rep.Status)
	}
	priorStatus := rep.Status
	now := time.Now().UTC()
	rep.Status = StatusClientReady
	rep.ShareLink = shared.NewID("share")
	rep.ApprovedBy = viewer.Actor.ID
	rep.ApprovedAt = &now
	rep.UpdatedAt = now
	if err := s.repo.Update(ctx, rep); err != nil {
		return nil, err
	}
	err = s.recorder.Record(ctx, audit.Entry{
		OrgID:       viewer.OrgID,
		WorkspaceID: workspaceID,
		ActorID:     viewer.Actor.ID,
		Action:      audit.ActionReportApproval,
		EntityType:  "weekly_report",
		EntityID:    rep.ID,
		Before:      audit.Image(statusImage{Status: priorStatus}),
		After:       audit.Image(statusImage{Status: rep.Status}),
	})
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Week of %s", rep.WeekStart.Format("2006-01-02"))
	s.dispatcher.ReportApproved(ctx, workspaceID, rep.OwnerID, title, viewer.Actor.Name, rep.ShareLink)
	return rep, nil
}

// GenerateDraft produces an AI narrative for the report and stores it.
// Narrative failures degrade inside the narrator; this only errors on
// persistence problems.
func (s *Service) GenerateDraft(ctx context.Context, workspaceID, id string) (*Report, error) {
	rep, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	nc, err := s.drafts.NarrativeContext(ctx, workspaceID)
	if err != nil {
		s.logger.Warn("draft context incomplete", slog.String("workspace_id", workspaceID), slog.Any("error", err))
	}
	draft, err := s.narrator.WeeklyNarrative(ctx, nc)
	if err != nil {
		return nil, fmt.Errorf("%w: narrative generation failed", httpx.ErrUpstream)
	}
	rep.AIDraft = draft
	rep.IsAIGenerated = true
	rep.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

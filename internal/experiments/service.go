package experiments

import (
	"context"
	"fmt"
	"time"

	"github.com/growthos/growthos/internal/audit"
	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/mail"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

// Service wraps experiment business rules.
type Service struct {
	repo       Repository
	recorder   audit.Recorder
	dispatcher *mail.Dispatcher
}

// NewService constructs a new Service.
func NewService(repo Repository, recorder audit.Recorder, dispatcher *mail.Dispatcher) *Service {
	return &Service{repo: repo, recorder: recorder, dispatcher: dispatcher}
}

// NewExperiment carries the fields accepted at creation.
type NewExperiment struct {
	Name             string
	Description      string
	Hypothesis       *Hypothesis
	FunnelStepIDs    []string
	MetricTarget     string
	MetricThreshold  *float64
	BudgetAllocation *float64
	InternalNotes    string
	IsClientVisible  bool
}

// Create stamps server-side fields and persists the experiment in the
// backlog state. Client-supplied ids are never honored.
func (s *Service) Create(ctx context.Context, workspaceID string, input NewExperiment, actor shared.Actor) (*Experiment, error) {
	now := time.Now().UTC()
	steps := input.FunnelStepIDs
	if steps == nil {
		steps = []string{}
	}
	e := &Experiment{
		ID:               shared.NewID("exp"),
		WorkspaceID:      workspaceID,
		Name:             input.Name,
		Description:      input.Description,
		Hypothesis:       input.Hypothesis,
		FunnelStepIDs:    steps,
		MetricTarget:     input.MetricTarget,
		MetricThreshold:  input.MetricThreshold,
		Status:           StatusBacklog,
		Variants:         []Variant{},
		BudgetAllocation: input.BudgetAllocation,
		Insights:         []Insight{},
		InternalNotes:    input.InternalNotes,
		IsClientVisible:  input.IsClientVisible,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedBy:        actor.ID,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns workspace experiments, client-filtered for client-only
// viewers.
func (s *Service) List(ctx context.Context, workspaceID string, filters ListFilters, viewer authz.Viewer) ([]Experiment, error) {
	items, err := s.repo.List(ctx, workspaceID, filters)
	if err != nil {
		return nil, err
	}
	return FilterForViewer(items, viewer), nil
}

// Get returns one experiment. A client-only viewer asking for a hidden
// experiment gets forbidden, not an empty filter.
func (s *Service) Get(ctx context.Context, workspaceID, id string, viewer authz.Viewer) (*Experiment, error) {
	e, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if viewer.ClientOnly() {
		if !e.IsClientVisible {
			return nil, httpx.ErrForbidden
		}
		filtered := e.ForClient()
		return &filtered, nil
	}
	return e, nil
}

// Update carries the mutable experiment fields. Nil means leave
// unchanged.
type Update struct {
	Name             *string
	Description      *string
	Hypothesis       *Hypothesis
	Status           *Status
	FunnelStepIDs    []string
	MetricTarget     *string
	MetricThreshold  *float64
	BudgetAllocation *float64
	RuntimeNotes     *string
	InternalNotes    *string
	IsClientVisible  *bool
	StartDate        *time.Time
	EndDate          *time.Time
}

// Apply merges the patch into an experiment.
func (s *Service) ApplyUpdate(ctx context.Context, workspaceID, id string, patch Update) (*Experiment, error) {
	e, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, *patch.Status)
		}
		e.Status = *patch.Status
	}
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Hypothesis != nil {
		e.Hypothesis = patch.Hypothesis
	}
	if patch.FunnelStepIDs != nil {
		e.FunnelStepIDs = patch.FunnelStepIDs
	}
	if patch.MetricTarget != nil {
		e.MetricTarget = *patch.MetricTarget
	}
	if patch.MetricThreshold != nil {
		e.MetricThreshold = patch.MetricThreshold
	}
	if patch.BudgetAllocation != nil {
		e.BudgetAllocation = patch.BudgetAllocation
	}
	if patch.RuntimeNotes != nil {
		e.RuntimeNotes = *patch.RuntimeNotes
	}
	if patch.InternalNotes != nil {
		e.InternalNotes = *patch.InternalNotes
	}
	if patch.IsClientVisible != nil {
		e.IsClientVisible = *patch.IsClientVisible
	}
	if patch.StartDate != nil {
		e.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		e.EndDate = patch.EndDate
	}
	e.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// NewVariant carries the fields for one experiment arm.
type NewVariant struct {
	Name                string
	Description         string
	AssetIDs            []string
	AudienceDescription string
	LandingPageURL      string
}

// AddVariant appends an arm to the experiment.
func (s *Service) AddVariant(ctx context.Context, workspaceID, id string, input NewVariant) (*Experiment, error) {
	e, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	e.Variants = append(e.Variants, Variant{
		ID:                  shared.NewID("var"),
		Name:                input.Name,
		Description:         input.Description,
		AssetIDs:            input.AssetIDs,
		AudienceDescription: input.AudienceDescription,
		LandingPageURL:      input.LandingPageURL,
		CreatedAt:           time.Now().UTC(),
	})
	e.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// NewInsight carries one learning.
type NewInsight struct {
	Content         string
	Evidence        string
	IsClientVisible bool
}

// AddInsight appends a learning to the experiment.
func (s *Service) AddInsight(ctx context.Context, workspaceID, id string, input NewInsight, actor shared.Actor) (*Experiment, error) {
	e, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	e.Insights = append(e.Insights, Insight{
		ID:              shared.NewID("ins"),
		Content:         input.Content,
		Evidence:        input.Evidence,
		IsClientVisible: input.IsClientVisible,
		CreatedBy:       actor.ID,
		CreatedAt:       time.Now().UTC(),
	})
	e.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// NewDecision carries the decision payload.
type NewDecision struct {
	Type      string
	Rationale string
}

// Decide records the experiment outcome: stores the decision, forces
// status to decided, writes one audit entry, and sends a best-effort
// notification to the experiment creator. The audit write is part of the
// operation; the email is not.
func (s *Service) Decide(ctx context.Context, viewer authz.Viewer, workspaceID, id string, input NewDecision) (*Experiment, error) {
	switch input.Type {
	case DecisionKill, DecisionIterate, DecisionScale:
	default:
		return nil, fmt.Errorf("%w: unknown decision type %q", httpx.ErrValidation, input.Type)
	}
	e, err := s.repo.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	before := audit.Image(e)
	e.Decision = &Decision{
		ID:        shared.NewID("dec"),
		Type:      input.Type,
		Rationale: input.Rationale,
		OwnerID:   viewer.Actor.ID,
		CreatedAt: time.Now().UTC(),
	}
	e.Status = StatusDecided
	e.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	err = s.recorder.Record(ctx, audit.Entry{
		OrgID:       viewer.OrgID,
		WorkspaceID: workspaceID,
		ActorID:     viewer.Actor.ID,
		Action:      audit.ActionExperimentDecision,
		EntityType:  "experiment",
		EntityID:    e.ID,
		Before:      before,
		After:       audit.Image(e),
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.ExperimentDecided(ctx, workspaceID, e.CreatedBy, e.Name, input.Type, input.Rationale)
	return e, nil
}

package experiments

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for experiments.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      *authz.Gate
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *authz.Gate) *Handler {
	return &Handler{logger: logger, service: service, gate: gate, validator: validator.New()}
}

// MountRoutes registers experiment routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/workspaces/{workspaceID}/experiments", func(r chi.Router) {
		r.With(h.gate.Require(authz.OpExperimentEdit)).Post("/", h.handleCreate)
		r.With(h.gate.Resolve).Get("/", h.handleList)
		r.With(h.gate.Resolve).Get("/{experimentID}", h.handleGet)
		r.With(h.gate.Require(authz.OpExperimentEdit)).Put("/{experimentID}", h.handleUpdate)
		r.With(h.gate.Require(authz.OpExperimentEdit)).Post("/{experimentID}/variants", h.handleAddVariant)
		r.With(h.gate.Require(authz.OpExperimentEdit)).Post("/{experimentID}/insights", h.handleAddInsight)
		r.With(h.gate.Require(authz.OpExperimentDecide)).Post("/{experimentID}/decision", h.handleDecide)
	})
}

type hypothesisPayload struct {
	Belief  string `json:"belief" validate:"required"`
	Target  string `json:"target" validate:"required"`
	Because string `json:"because" validate:"required"`
}

type createRequest struct {
	Name             string             `json:"name" validate:"required,min=1,max=200"`
	Description      string             `json:"description"`
	Hypothesis       *hypothesisPayload `json:"hypothesis"`
	FunnelStepIDs    []string           `json:"funnel_step_ids"`
	MetricTarget     string             `json:"metric_target"`
	MetricThreshold  *float64           `json:"metric_threshold"`
	BudgetAllocation *float64           `json:"budget_allocation"`
	InternalNotes    string             `json:"internal_notes"`
	IsClientVisible  bool               `json:"is_client_visible"`
}

type updateRequest struct {
	Name             *string            `json:"name" validate:"omitempty,min=1,max=200"`
	Description      *string            `json:"description"`
	Hypothesis       *hypothesisPayload `json:"hypothesis"`
	Status           *string            `json:"status"`
	FunnelStepIDs    []string           `json:"funnel_step_ids"`
	MetricTarget     *string            `json:"metric_target"`
	MetricThreshold  *float64           `json:"metric_threshold"`
	BudgetAllocation *float64           `json:"budget_allocation"`
	RuntimeNotes     *string            `json:"runtime_notes"`
	InternalNotes    *string            `json:"internal_notes"`
	IsClientVisible  *bool              `json:"is_client_visible"`
	StartDate        *time.Time         `json:"start_date"`
	EndDate          *time.Time         `json:"end_date"`
}

type variantRequest struct {
	Name                string   `json:"name" validate:"required,min=1,max=200"`
	Description         string   `json:"description"`
	AssetIDs            []string `json:"asset_ids"`
	AudienceDescription string   `json:"audience_description"`
	LandingPageURL      string   `json:"landing_page_url" validate:"omitempty,url"`
}

type insightRequest struct {
	Content         string `json:"content" validate:"required"`
	Evidence        string `json:"evidence"`
	IsClientVisible bool   `json:"is_client_visible"`
}

type decisionRequest struct {
	Type      string `json:"decision_type" validate:"required,oneof=kill iterate scale"`
	Rationale string `json:"rationale" validate:"required"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	var req createRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	e, err := h.service.Create(r.Context(), chi.URLParam(r, "workspaceID"), NewExperiment{
		Name:             req.Name,
		Description:      req.Description,
		Hypothesis:       hypothesisFromPayload(req.Hypothesis),
		FunnelStepIDs:    req.FunnelStepIDs,
		MetricTarget:     req.MetricTarget,
		MetricThreshold:  req.MetricThreshold,
		BudgetAllocation: req.BudgetAllocation,
		InternalNotes:    req.InternalNotes,
		IsClientVisible:  req.IsClientVisible,
	}, viewer.Actor)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, e)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	items, err := h.service.List(r.Context(), chi.URLParam(r, "workspaceID"),
		ListFilters{Status: Status(r.URL.Query().Get("status"))}, viewer)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Experiment{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"experiments": items})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	e, err := h.service.Get(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "experimentID"), viewer)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	patch := Update{
		Name:             req.Name,
		Description:      req.Description,
		Hypothesis:       hypothesisFromPayload(req.Hypothesis),
		FunnelStepIDs:    req.FunnelStepIDs,
		MetricTarget:     req.MetricTarget,
		MetricThreshold:  req.MetricThreshold,
		BudgetAllocation: req.BudgetAllocation,
		RuntimeNotes:     req.RuntimeNotes,
		InternalNotes:    req.InternalNotes,
		IsClientVisible:  req.IsClientVisible,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
	}
	if req.Status != nil {
		status := Status(*req.Status)
		patch.Status = &status
	}
	e, err := h.service.ApplyUpdate(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "experimentID"), patch)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) handleAddVariant(w http.ResponseWriter, r *http.Request) {
	var req variantRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	e, err := h.service.AddVariant(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "experimentID"), NewVariant{
		Name:                req.Name,
		Description:         req.Description,
		AssetIDs:            req.AssetIDs,
		AudienceDescription: req.AudienceDescription,
		LandingPageURL:      req.LandingPageURL,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, e)
}

func (h *Handler) handleAddInsight(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	var req insightRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	e, err := h.service.AddInsight(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "experimentID"), NewInsight{
		Content:         req.Content,
		Evidence:        req.Evidence,
		IsClientVisible: req.IsClientVisible,
	}, viewer.Actor)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, e)
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	var req decisionRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	e, err := h.service.Decide(r.Context(), viewer, chi.URLParam(r, "workspaceID"), chi.URLParam(r, "experimentID"), NewDecision{
		Type:      req.Type,
		Rationale: req.Rationale,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func hypothesisFromPayload(p *hypothesisPayload) *Hypothesis {
	if p == nil {
		return nil
	}
	return &Hypothesis{Belief: p.Belief, Target: p.Target, Because: p.Because}
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return h.validator.Struct(target)
}

package strategy

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for strategy.
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

// MountRoutes registers strategy routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/workspaces/{workspaceID}/strategy", func(r chi.Router) {
		r.With(h.gate.Require(authz.OpStrategyEdit)).Put("/north-star", h.handleSetNorthStar)
		r.With(h.gate.Resolve).Get("/north-star", h.handleGetNorthStar)
		r.With(h.gate.Require(authz.OpStrategyEdit)).Post("/goals", h.handleCreateGoal)
		r.With(h.gate.Resolve).Get("/goals", h.handleListGoals)
	})
}

type northStarRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Description  string  `json:"description"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Unit         string  `json:"unit"`
	Trend7d      float64 `json:"trend_7d"`
	Trend30d     float64 `json:"trend_30d"`
	Trend90d     float64 `json:"trend_90d"`
}

type goalRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=200"`
	Description string     `json:"description"`
	TargetValue *float64   `json:"target_value"`
	TargetDate  *time.Time `json:"target_date"`
}

func (h *Handler) handleSetNorthStar(w http.ResponseWriter, r *http.Request) {
	var req northStarRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	m, err := h.service.SetNorthStar(r.Context(), chi.URLParam(r, "workspaceID"), NorthStarInput{
		Name:         req.Name,
		Description:  req.Description,
		CurrentValue: req.CurrentValue,
		TargetValue:  req.TargetValue,
		Unit:         req.Unit,
		Trend7d:      req.Trend7d,
		Trend30d:     req.Trend30d,
		Trend90d:     req.Trend90d,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) handleGetNorthStar(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.NorthStar(r.Context(), chi.URLParam(r, "workspaceID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	g, err := h.service.CreateGoal(r.Context(), chi.URLParam(r, "workspaceID"), NewGoal{
		Name:        req.Name,
		Description: req.Description,
		TargetValue: req.TargetValue,
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, g)
}

func (h *Handler) handleListGoals(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Goals(r.Context(), chi.URLParam(r, "workspaceID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Goal{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"goals": items})
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return h.validator.Struct(target)
}

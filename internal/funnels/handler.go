package funnels

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for funnels.
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

// MountRoutes registers funnel routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/workspaces/{workspaceID}/funnels", func(r chi.Router) {
		r.With(h.gate.Require(authz.OpFunnelEdit)).Post("/", h.handleCreate)
		r.With(h.gate.Resolve).Get("/", h.handleList)
		r.With(h.gate.Resolve).Get("/{funnelID}", h.handleGet)
		r.With(h.gate.Require(authz.OpFunnelEdit)).Put("/{funnelID}", h.handleUpdate)
	})
}

type stepPayload struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	EventName   string `json:"event_name"`
}

type createRequest struct {
	Name        string        `json:"name" validate:"required,min=1,max=200"`
	Description string        `json:"description"`
	Steps       []stepPayload `json:"steps" validate:"dive"`
}

type updateRequest struct {
	Name        *string       `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string       `json:"description"`
	Steps       []stepPayload `json:"steps" validate:"omitempty,dive"`
	IsActive    *bool         `json:"is_active"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	f, err := h.service.Create(r.Context(), chi.URLParam(r, "workspaceID"), NewFunnel{
		Name:        req.Name,
		Description: req.Description,
		Steps:       stepsFromPayload(req.Steps),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, f)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), chi.URLParam(r, "workspaceID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Funnel{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"funnels": items})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.Get(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "funnelID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	patch := Update{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	}
	if req.Steps != nil {
		patch.Steps = stepsFromPayload(req.Steps)
	}
	f, err := h.service.ApplyUpdate(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "funnelID"), patch)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

func stepsFromPayload(payloads []stepPayload) []NewStep {
	steps := make([]NewStep, 0, len(payloads))
	for _, p := range payloads {
		steps = append(steps, NewStep{Name: p.Name, Description: p.Description, EventName: p.EventName})
	}
	return steps
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return h.validator.Struct(target)
}

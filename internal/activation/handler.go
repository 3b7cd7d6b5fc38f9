package activation

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for activation definitions.
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

// MountRoutes registers activation routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/workspaces/{workspaceID}/activation-definitions", func(r chi.Router) {
		r.With(h.gate.Require(authz.OpActivationEdit)).Post("/", h.handleCreate)
		r.With(h.gate.Resolve).Get("/", h.handleList)
		r.With(h.gate.Resolve).Get("/{definitionID}", h.handleGet)
		r.With(h.gate.Require(authz.OpActivationEdit)).Put("/{definitionID}", h.handleUpdate)
	})
}

type createRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	Rule        Rule   `json:"rule" validate:"required"`
	Confidence  string `json:"confidence" validate:"omitempty,oneof=high medium low"`
}

type updateRequest struct {
	Name         *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string    `json:"description"`
	Rule         *Rule      `json:"rule"`
	Confidence   *string    `json:"confidence" validate:"omitempty,oneof=high medium low"`
	LastVerified *time.Time `json:"last_verified"`
	IsActive     *bool      `json:"is_active"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	var req createRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	d, err := h.service.Create(r.Context(), viewer, chi.URLParam(r, "workspaceID"), NewDefinition{
		Name:        req.Name,
		Description: req.Description,
		Rule:        req.Rule,
		Confidence:  req.Confidence,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, d)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), chi.URLParam(r, "workspaceID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Definition{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"activation_definitions": items})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "definitionID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	var req updateRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	d, err := h.service.ApplyUpdate(r.Context(), viewer, chi.URLParam(r, "workspaceID"), chi.URLParam(r, "definitionID"), Update{
		Name:         req.Name,
		Description:  req.Description,
		Rule:         req.Rule,
		Confidence:   req.Confidence,
		LastVerified: req.LastVerified,
		IsActive:     req.IsActive,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return h.validator.Struct(target)
}

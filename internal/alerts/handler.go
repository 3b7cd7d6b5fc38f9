package alerts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for alerts and anomaly detection.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    *authz.Gate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *authz.Gate) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers alert routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.gate.Resolve).Get("/workspaces/{workspaceID}/alerts", h.handleList)
	r.With(h.gate.Require(authz.OpAlertResolve)).Post("/workspaces/{workspaceID}/alerts/{alertID}/resolve", h.handleResolve)
	r.With(h.gate.Resolve).Get("/workspaces/{workspaceID}/ai/anomalies", h.handleAnomalies)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Open(r.Context(), chi.URLParam(r, "workspaceID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Alert{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"alerts": items})
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	a, err := h.service.Resolve(r.Context(), viewer, chi.URLParam(r, "workspaceID"), chi.URLParam(r, "alertID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *Handler) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	found, open, err := h.service.Anomalies(r.Context(), chi.URLParam(r, "workspaceID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if open == nil {
		open = []Alert{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"anomalies": found, "alerts": open})
}

package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for weekly reports.
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

// MountRoutes registers report routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/workspaces/{workspaceID}/reports", func(r chi.Router) {
		r.With(h.gate.Require(authz.OpReportEdit)).Post("/", h.handleCreate)
		r.With(h.gate.Resolve).Get("/", h.handleList)
		r.With(h.gate.Resolve).Get("/{reportID}", h.handleGet)
		r.With(h.gate.Require(authz.OpReportEdit)).Put("/{reportID}", h.handleUpdate)
		r.With(h.gate.Require(authz.OpReportApprove)).Post("/{reportID}/approve", h.handleApprove)
		r.With(h.gate.Require(authz.OpReportEdit)).Post("/{reportID}/generate-draft", h.handleGenerateDraft)
	})
}

type createRequest struct {
	WeekStart time.Time `json:"week_start" validate:"required"`
	WeekEnd   time.Time `json:"week_end" validate:"required"`
}

type updateRequest struct {
	Content *Sections `json:"content"`
	Status  *string   `json:"status"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	var req createRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rep, err := h.service.Create(r.Context(), chi.URLParam(r, "workspaceID"), NewReport{
		WeekStart: req.WeekStart,
		WeekEnd:   req.WeekEnd,
	}, viewer.Actor)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rep)
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
		items = []Report{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"reports": items})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	rep, err := h.service.Get(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "reportID"), viewer)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	patch := Update{Content: req.Content}
	if req.Status != nil {
		status := Status(*req.Status)
		patch.Status = &status
	}
	rep, err := h.service.ApplyUpdate(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "reportID"), patch)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	rep, err := h.service.Approve(r.Context(), viewer, chi.URLParam(r, "workspaceID"), chi.URLParam(r, "reportID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (h *Handler) handleGenerateDraft(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.GenerateDraft(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "reportID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"draft": rep.AIDraft, "report": rep})
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return h.validator.Struct(target)
}

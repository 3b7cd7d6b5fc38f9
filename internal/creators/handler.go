package creators

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the creator pipeline.
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

// MountRoutes registers creator routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/workspaces/{workspaceID}/creators", func(r chi.Router) {
		r.With(h.gate.Require(authz.OpCreatorEdit)).Post("/", h.handleCreate)
		r.With(h.gate.Require(authz.OpCreatorEdit)).Get("/", h.handleList)
		r.With(h.gate.Require(authz.OpCreatorEdit)).Get("/{creatorID}", h.handleGet)
		r.With(h.gate.Require(authz.OpCreatorEdit)).Put("/{creatorID}", h.handleUpdate)
	})
}

type createRequest struct {
	Name           string   `json:"name" validate:"required,min=1,max=200"`
	Handle         string   `json:"handle"`
	Platform       string   `json:"platform" validate:"required"`
	FollowerCount  *int     `json:"follower_count"`
	EngagementRate *float64 `json:"engagement_rate"`
	Notes          string   `json:"notes"`
	FitScore       *int     `json:"fit_score" validate:"omitempty,min=1,max=10"`
	ContactEmail   string   `json:"contact_email" validate:"omitempty,email"`
}

type updateRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Handle         *string  `json:"handle"`
	Platform       *string  `json:"platform"`
	FollowerCount  *int     `json:"follower_count"`
	EngagementRate *float64 `json:"engagement_rate"`
	Notes          *string  `json:"notes"`
	FitScore       *int     `json:"fit_score" validate:"omitempty,min=1,max=10"`
	ContactEmail   *string  `json:"contact_email" validate:"omitempty,email"`
	PipelineStatus *string  `json:"pipeline_status"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	c, err := h.service.Create(r.Context(), chi.URLParam(r, "workspaceID"), NewCreator{
		Name:           req.Name,
		Handle:         req.Handle,
		Platform:       req.Platform,
		FollowerCount:  req.FollowerCount,
		EngagementRate: req.EngagementRate,
		Notes:          req.Notes,
		FitScore:       req.FitScore,
		ContactEmail:   req.ContactEmail,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), chi.URLParam(r, "workspaceID"), ListFilters{
		PipelineStatus: PipelineStatus(r.URL.Query().Get("pipeline_status")),
		Platform:       r.URL.Query().Get("platform"),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Creator{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"creators": items})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "creatorID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	patch := Update{
		Name:           req.Name,
		Handle:         req.Handle,
		Platform:       req.Platform,
		FollowerCount:  req.FollowerCount,
		EngagementRate: req.EngagementRate,
		Notes:          req.Notes,
		FitScore:       req.FitScore,
		ContactEmail:   req.ContactEmail,
	}
	if req.PipelineStatus != nil {
		status := PipelineStatus(*req.PipelineStatus)
		patch.PipelineStatus = &status
	}
	c, err := h.service.ApplyUpdate(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "creatorID"), patch)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return h.validator.Struct(target)
}

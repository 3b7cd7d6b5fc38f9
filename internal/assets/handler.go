package assets

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the asset library.
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

// MountRoutes registers asset routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/workspaces/{workspaceID}/assets", func(r chi.Router) {
		r.With(h.gate.Require(authz.OpAssetEdit)).Post("/", h.handleCreate)
		r.With(h.gate.Resolve).Get("/", h.handleList)
		r.With(h.gate.Resolve).Get("/{assetID}", h.handleGet)
		r.With(h.gate.Require(authz.OpAssetEdit)).Put("/{assetID}", h.handleUpdate)
		r.With(h.gate.Require(authz.OpAssetEdit)).Post("/{assetID}/versions", h.handleAddVersion)
	})
}

type tagPayload struct {
	Angle       string   `json:"angle"`
	Hook        string   `json:"hook"`
	Format      string   `json:"format"`
	ICP         string   `json:"icp"`
	FunnelStage string   `json:"funnel_stage"`
	CustomTags  []string `json:"custom_tags"`
}

type createRequest struct {
	Name            string      `json:"name" validate:"required,min=1,max=200"`
	Description     string      `json:"description"`
	FileType        string      `json:"file_type" validate:"required,oneof=image video document"`
	FileURL         string      `json:"file_url" validate:"required"`
	ThumbnailURL    string      `json:"thumbnail_url"`
	Tags            *tagPayload `json:"tags"`
	IsClientVisible bool        `json:"is_client_visible"`
	RightsExpiry    *time.Time  `json:"rights_expiry"`
	UsageTerms      string      `json:"usage_terms"`
	IsCreatorAsset  bool        `json:"is_creator_asset"`
	CreatorID       string      `json:"creator_id"`
}

type updateRequest struct {
	Name            *string            `json:"name" validate:"omitempty,min=1,max=200"`
	Description     *string            `json:"description"`
	Tags            *tagPayload        `json:"tags"`
	Performance     map[string]float64 `json:"performance"`
	ExperimentIDs   []string           `json:"experiment_ids"`
	IsClientVisible *bool              `json:"is_client_visible"`
	RightsExpiry    *time.Time         `json:"rights_expiry"`
	UsageTerms      *string            `json:"usage_terms"`
}

type versionRequest struct {
	FileURL  string `json:"file_url" validate:"required"`
	FileSize *int64 `json:"file_size"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	var req createRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	a, err := h.service.Create(r.Context(), chi.URLParam(r, "workspaceID"), NewAsset{
		Name:            req.Name,
		Description:     req.Description,
		FileType:        req.FileType,
		FileURL:         req.FileURL,
		ThumbnailURL:    req.ThumbnailURL,
		Tags:            tagFromPayload(req.Tags),
		IsClientVisible: req.IsClientVisible,
		RightsExpiry:    req.RightsExpiry,
		UsageTerms:      req.UsageTerms,
		IsCreatorAsset:  req.IsCreatorAsset,
		CreatorID:       req.CreatorID,
	}, viewer.Actor)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	items, err := h.service.List(r.Context(), chi.URLParam(r, "workspaceID"), ListFilters{
		FileType:    r.URL.Query().Get("file_type"),
		FunnelStage: r.URL.Query().Get("funnel_stage"),
	}, viewer)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Asset{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"assets": items})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	a, err := h.service.Get(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "assetID"), viewer)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	a, err := h.service.ApplyUpdate(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "assetID"), Update{
		Name:            req.Name,
		Description:     req.Description,
		Tags:            tagFromPayload(req.Tags),
		Performance:     req.Performance,
		ExperimentIDs:   req.ExperimentIDs,
		IsClientVisible: req.IsClientVisible,
		RightsExpiry:    req.RightsExpiry,
		UsageTerms:      req.UsageTerms,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *Handler) handleAddVersion(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	var req versionRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	a, err := h.service.AddVersion(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "assetID"), NewVersion{
		FileURL:  req.FileURL,
		FileSize: req.FileSize,
	}, viewer.Actor)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func tagFromPayload(p *tagPayload) *Tag {
	if p == nil {
		return nil
	}
	return &Tag{
		Angle:       p.Angle,
		Hook:        p.Hook,
		Format:      p.Format,
		ICP:         p.ICP,
		FunnelStage: p.FunnelStage,
		CustomTags:  p.CustomTags,
	}
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return h.validator.Struct(target)
}

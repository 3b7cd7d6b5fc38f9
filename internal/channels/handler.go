package channels

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for channels.
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

// MountRoutes registers channel routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/workspaces/{workspaceID}/channels", func(r chi.Router) {
		r.With(h.gate.Require(authz.OpChannelEdit)).Post("/", h.handleCreate)
		r.With(h.gate.Resolve).Get("/", h.handleList)
		r.With(h.gate.Resolve).Get("/{channelID}", h.handleGet)
		r.With(h.gate.Require(authz.OpChannelEdit)).Post("/{channelID}/connect", h.handleConnect)
		r.With(h.gate.Require(authz.OpChannelSync)).Post("/{channelID}/sync", h.handleSync)
	})
	r.With(h.gate.Resolve).Get("/workspaces/{workspaceID}/performance", h.handlePerformance)
}

type createRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	ConnectorType string `json:"connector_type" validate:"required,oneof=ga4 meta_ads google_ads"`
}

type connectRequest struct {
	Credentials map[string]string `json:"credentials"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	c, err := h.service.Create(r.Context(), chi.URLParam(r, "workspaceID"), NewChannel{
		Name:          req.Name,
		ConnectorType: req.ConnectorType,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), chi.URLParam(r, "workspaceID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Channel{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"channels": items})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "channelID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	c, err := h.service.Connect(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "channelID"), req.Credentials)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	c, result, err := h.service.Sync(r.Context(), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "channelID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"channel": c, "result": result})
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Performance(r.Context(), chi.URLParam(r, "workspaceID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"performance": items})
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return h.validator.Struct(target)
}

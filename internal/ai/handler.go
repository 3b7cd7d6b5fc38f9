package ai

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
)

// ContextSource assembles the workspace data fed to the AI assist
// endpoints.
type ContextSource interface {
	SuggestionContext(ctx context.Context, workspaceID string) (SuggestionContext, error)
	CreativeContext(ctx context.Context, workspaceID, assetID string) (CreativeContext, error)
}

// Handler wires the AI assist endpoints.
type Handler struct {
	logger   *slog.Logger
	narrator Narrator
	gate     *authz.Gate
	contexts ContextSource
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, narrator Narrator, gate *authz.Gate, contexts ContextSource) *Handler {
	return &Handler{logger: logger, narrator: narrator, gate: gate, contexts: contexts}
}

// MountRoutes registers AI routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.gate.Require(authz.OpAISuggest)).Post("/workspaces/{workspaceID}/ai/suggest-experiments", h.handleSuggest)
	r.With(h.gate.Require(authz.OpAICreative)).Post("/workspaces/{workspaceID}/ai/creative-iterations", h.handleCreativeIterations)
}

func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	sc, err := h.contexts.SuggestionContext(r.Context(), chi.URLParam(r, "workspaceID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	suggestions, err := h.narrator.SuggestExperiments(r.Context(), sc)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (h *Handler) handleCreativeIterations(w http.ResponseWriter, r *http.Request) {
	assetID := r.URL.Query().Get("asset_id")
	if assetID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "asset_id is required")
		return
	}
	cc, err := h.contexts.CreativeContext(r.Context(), chi.URLParam(r, "workspaceID"), assetID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	iterations, err := h.narrator.CreativeIterations(r.Context(), cc)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"iterations": iterations})
}

package tenancy

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

// Handler wires HTTP endpoints for orgs, workspaces, and membership.
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

// MountRoutes registers tenancy routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/orgs", h.handleCreateOrg)
	r.Get("/orgs", h.handleListOrgs)
	r.With(h.gate.Require(authz.OpOrganizationView)).Get("/orgs/{orgID}", h.handleGetOrg)

	r.With(h.gate.Require(authz.OpWorkspaceCreate)).Post("/orgs/{orgID}/workspaces", h.handleCreateWorkspace)
	r.With(h.gate.Resolve).Get("/orgs/{orgID}/workspaces", h.handleListWorkspaces)
	r.With(h.gate.Resolve).Get("/workspaces/{workspaceID}", h.handleGetWorkspace)
	r.With(h.gate.Require(authz.OpWorkspaceEdit)).Patch("/workspaces/{workspaceID}", h.handleUpdateWorkspace)

	r.With(h.gate.Require(authz.OpUserAdmin)).Post("/orgs/{orgID}/members", h.handleGrantRole)
	r.With(h.gate.Require(authz.OpUserAdmin)).Delete("/orgs/{orgID}/members/{assignmentID}", h.handleRevokeRole)
	r.With(h.gate.Require(authz.OpUserAdmin)).Get("/orgs/{orgID}/members", h.handleListMembers)
}

type createOrgRequest struct {
	Name string `json:"name" validate:"required,min=1,max=160"`
}

type createWorkspaceRequest struct {
	Name              string   `json:"name" validate:"required,min=1,max=160"`
	Description       string   `json:"description" validate:"max=2000"`
	Industry          string   `json:"industry" validate:"max=120"`
	ContactName       string   `json:"contact_name" validate:"max=160"`
	ContactEmail      string   `json:"contact_email" validate:"omitempty,email"`
	CurrentConstraint string   `json:"current_constraint" validate:"max=2000"`
	ThisWeekFocus     []string `json:"this_week_focus"`
	GrowthLeadID      string   `json:"growth_lead_id"`
}

type updateWorkspaceRequest struct {
	Name              *string  `json:"name" validate:"omitempty,min=1,max=160"`
	Description       *string  `json:"description" validate:"omitempty,max=2000"`
	Industry          *string  `json:"industry" validate:"omitempty,max=120"`
	ContactName       *string  `json:"contact_name" validate:"omitempty,max=160"`
	ContactEmail      *string  `json:"contact_email" validate:"omitempty,email"`
	CurrentConstraint *string  `json:"current_constraint" validate:"omitempty,max=2000"`
	ThisWeekFocus     []string `json:"this_week_focus"`
	GrowthLeadID      *string  `json:"growth_lead_id"`
	IsActive          *bool    `json:"is_active"`
}

type grantRoleRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	Role        string `json:"role" validate:"required"`
	WorkspaceID string `json:"workspace_id"`
}

func (h *Handler) handleCreateOrg(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		httpx.RespondError(w, httpx.ErrUnauthenticated)
		return
	}
	var req createOrgRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	org, err := h.service.CreateOrg(r.Context(), *actor, req.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, org)
}

func (h *Handler) handleListOrgs(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		httpx.RespondError(w, httpx.ErrUnauthenticated)
		return
	}
	orgs, err := h.service.ListOrgs(r.Context(), *actor)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if orgs == nil {
		orgs = []Organization{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"organizations": orgs})
}

func (h *Handler) handleGetOrg(w http.ResponseWriter, r *http.Request) {
	org, err := h.service.GetOrg(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, org)
}

func (h *Handler) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req createWorkspaceRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	ws, err := h.service.CreateWorkspace(r.Context(), chi.URLParam(r, "orgID"), NewWorkspace{
		Name:              req.Name,
		Description:       req.Description,
		Industry:          req.Industry,
		ContactName:       req.ContactName,
		ContactEmail:      req.ContactEmail,
		CurrentConstraint: req.CurrentConstraint,
		ThisWeekFocus:     req.ThisWeekFocus,
		GrowthLeadID:      req.GrowthLeadID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, ws)
}

func (h *Handler) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	workspaces, err := h.service.AccessibleWorkspaces(r.Context(), viewer.Actor.ID, chi.URLParam(r, "orgID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if workspaces == nil {
		workspaces = []Workspace{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"workspaces": workspaces})
}

func (h *Handler) handleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	if len(viewer.Roles) == 0 {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	ws, err := h.service.GetWorkspace(r.Context(), chi.URLParam(r, "workspaceID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ws)
}

func (h *Handler) handleUpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req updateWorkspaceRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	ws, err := h.service.UpdateWorkspace(r.Context(), chi.URLParam(r, "workspaceID"), WorkspaceUpdate{
		Name:              req.Name,
		Description:       req.Description,
		Industry:          req.Industry,
		ContactName:       req.ContactName,
		ContactEmail:      req.ContactEmail,
		CurrentConstraint: req.CurrentConstraint,
		ThisWeekFocus:     req.ThisWeekFocus,
		GrowthLeadID:      req.GrowthLeadID,
		IsActive:          req.IsActive,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ws)
}

func (h *Handler) handleGrantRole(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	var req grantRoleRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	grant, err := h.service.GrantRole(r.Context(), viewer.Actor, chi.URLParam(r, "orgID"), req.WorkspaceID, req.UserID, role)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, grant)
}

func (h *Handler) handleRevokeRole(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFromContext(r.Context())
	err := h.service.RevokeRole(r.Context(), viewer.Actor, chi.URLParam(r, "orgID"), chi.URLParam(r, "assignmentID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

func (h *Handler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context(), chi.URLParam(r, "orgID"), r.URL.Query().Get("workspace_id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if members == nil {
		members = []RoleAssignment{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"members": members})
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return h.validator.Struct(target)
}

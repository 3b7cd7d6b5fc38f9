package authz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

// RoleSource resolves tenancy facts for the gate. Implemented by the
// tenancy service.
type RoleSource interface {
	// EffectiveRoles returns the roles a user holds in a workspace,
	// combining org-level and workspace-level assignments.
	EffectiveRoles(ctx context.Context, userID, orgID, workspaceID string) ([]Role, error)
	// WorkspaceOrg returns the owning org for a workspace, or
	// httpx.ErrNotFound when the workspace does not exist.
	WorkspaceOrg(ctx context.Context, workspaceID string) (string, error)
	// AnyOrgFor returns an org the user belongs to, for requests that
	// carry no tenant scope at all.
	AnyOrgFor(ctx context.Context, userID string) (string, error)
}

// Viewer is the resolved authorization context for a request: who is
// asking, with which roles, against which tenant scope.
type Viewer struct {
	Actor       shared.Actor
	Roles       []Role
	OrgID       string
	WorkspaceID string
}

// ClientOnly reports whether the viewer holds only the client_viewer role.
// Such viewers see filtered, external-safe data everywhere.
func (v Viewer) ClientOnly() bool {
	if len(v.Roles) == 0 {
		return false
	}
	for _, r := range v.Roles {
		if r != RoleClientViewer {
			return false
		}
	}
	return true
}

// IsAdmin reports whether the viewer holds the admin role.
func (v Viewer) IsAdmin() bool {
	return HasRole(v.Roles, RoleAdmin)
}

type viewerContextKey struct{}

// ContextWithViewer stores the resolved viewer in context.
func ContextWithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerContextKey{}, v)
}

// ViewerFromContext extracts the resolved viewer. ok is false on routes
// that did not pass through the gate.
func ViewerFromContext(ctx context.Context) (Viewer, bool) {
	v, ok := ctx.Value(viewerContextKey{}).(Viewer)
	return v, ok
}

// Gate wires the policy table to the request path. Every protected route
// mounts either Require (enforcing) or Resolve (scope only).
type Gate struct {
	Source RoleSource
	Logger *slog.Logger
}

func NewGate(source RoleSource, logger *slog.Logger) *Gate {
	return &Gate{Source: source, Logger: logger}
}

// Require enforces the policy for op: the request proceeds only when the
// caller's effective roles intersect the operation's allow-list.
func (g *Gate) Require(op Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, err := g.resolve(r)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			if !Intersects(viewer.Roles, AllowedRoles(op)) {
				g.Logger.Info("authorization denied",
					"user_id", viewer.Actor.ID,
					"operation", string(op),
					"workspace_id", viewer.WorkspaceID)
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithViewer(r.Context(), viewer)))
		})
	}
}

// Resolve attaches the viewer without enforcing a policy. Read routes use
// it: client_viewer is a data-filtering role, not a rejection, so handlers
// consult Viewer.ClientOnly to shape the response instead.
func (g *Gate) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, err := g.resolve(r)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithViewer(r.Context(), viewer)))
	})
}

// resolve computes the tenant scope and effective roles for the request.
// Roles are re-read on every request; a demotion applies to the very next
// call regardless of session age.
func (g *Gate) resolve(r *http.Request) (Viewer, error) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		return Viewer{}, httpx.ErrUnauthenticated
	}
	ctx := r.Context()

	workspaceID := chi.URLParam(r, "workspaceID")
	if workspaceID == "" {
		workspaceID = r.URL.Query().Get("workspace_id")
	}
	orgID := chi.URLParam(r, "orgID")
	if orgID == "" {
		orgID = r.URL.Query().Get("org_id")
	}

	if workspaceID != "" {
		owner, err := g.Source.WorkspaceOrg(ctx, workspaceID)
		if err != nil {
			return Viewer{}, err
		}
		orgID = owner
	}
	if orgID == "" {
		fallback, err := g.Source.AnyOrgFor(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				return Viewer{}, httpx.ErrForbidden
			}
			return Viewer{}, err
		}
		orgID = fallback
	}

	roles, err := g.Source.EffectiveRoles(ctx, actor.ID, orgID, workspaceID)
	if err != nil {
		return Viewer{}, err
	}
	return Viewer{Actor: *actor, Roles: roles, OrgID: orgID, WorkspaceID: workspaceID}, nil
}

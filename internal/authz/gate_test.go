package authz_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

type stubSource struct {
	roles      map[string][]authz.Role
	workspaces map[string]string
}

func (s *stubSource) EffectiveRoles(ctx context.Context, userID, orgID, workspaceID string) ([]authz.Role, error) {
	return s.roles[userID], nil
}

func (s *stubSource) WorkspaceOrg(ctx context.Context, workspaceID string) (string, error) {
	if org, ok := s.workspaces[workspaceID]; ok {
		return org, nil
	}
	return "", httpx.ErrNotFound
}

func (s *stubSource) AnyOrgFor(ctx context.Context, userID string) (string, error) {
	return "org_1", nil
}

func newGateRouter(source *stubSource, op authz.Operation) chi.Router {
	gate := authz.NewGate(source, slog.Default())
	r := chi.NewRouter()
	r.With(gate.Require(op)).Get("/workspaces/{workspaceID}/things", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func doAs(router chi.Router, userID, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	actor := &shared.Actor{ID: userID, Email: userID + "@test.local"}
	req = req.WithContext(shared.ContextWithActor(req.Context(), actor))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestGateAllowsPolicyRole(t *testing.T) {
	source := &stubSource{
		roles:      map[string][]authz.Role{"u1": {authz.RolePerformance}},
		workspaces: map[string]string{"ws_a": "org_1"},
	}
	router := newGateRouter(source, authz.OpExperimentEdit)

	res := doAs(router, "u1", "/workspaces/ws_a/things")
	require.Equal(t, http.StatusNoContent, res.Code)
}

func TestGateDeniesOutsidePolicy(t *testing.T) {
	source := &stubSource{
		roles:      map[string][]authz.Role{"u1": {authz.RoleCreative}},
		workspaces: map[string]string{"ws_a": "org_1"},
	}
	router := newGateRouter(source, authz.OpExperimentDecide)

	res := doAs(router, "u1", "/workspaces/ws_a/things")
	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestGateRejectsAnonymous(t *testing.T) {
	source := &stubSource{workspaces: map[string]string{"ws_a": "org_1"}}
	router := newGateRouter(source, authz.OpExperimentEdit)

	req := httptest.NewRequest(http.MethodGet, "/workspaces/ws_a/things", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestGateUnknownWorkspaceIs404(t *testing.T) {
	source := &stubSource{
		roles:      map[string][]authz.Role{"u1": {authz.RoleAdmin}},
		workspaces: map[string]string{},
	}
	router := newGateRouter(source, authz.OpExperimentEdit)

	res := doAs(router, "u1", "/workspaces/ws_missing/things")
	require.Equal(t, http.StatusNotFound, res.Code)
}

func TestClientOnly(t *testing.T) {
	require.True(t, authz.Viewer{Roles: []authz.Role{authz.RoleClientViewer}}.ClientOnly())
	require.False(t, authz.Viewer{Roles: []authz.Role{authz.RoleClientViewer, authz.RoleCreative}}.ClientOnly())
	require.False(t, authz.Viewer{}.ClientOnly())
}

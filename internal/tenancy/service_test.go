package tenancy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/audit"
	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
	"github.com/growthos/growthos/internal/tenancy"
)

type memRepo struct {
	orgs        map[string]*tenancy.Organization
	workspaces  map[string]*tenancy.Workspace
	assignments map[string]*tenancy.RoleAssignment
}

func newMemRepo() *memRepo {
	return &memRepo{
		orgs:        map[string]*tenancy.Organization{},
		workspaces:  map[string]*tenancy.Workspace{},
		assignments: map[string]*tenancy.RoleAssignment{},
	}
}

func (m *memRepo) CreateOrg(ctx context.Context, org *tenancy.Organization) error {
	m.orgs[org.ID] = org
	return nil
}

func (m *memRepo) FindOrg(ctx context.Context, id string) (*tenancy.Organization, error) {
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return nil, httpx.ErrNotFound
}

func (m *memRepo) ListOrgsForUser(ctx context.Context, userID string) ([]tenancy.Organization, error) {
	seen := map[string]struct{}{}
	var out []tenancy.Organization
	for _, a := range m.assignments {
		if a.UserID != userID {
			continue
		}
		if _, ok := seen[a.OrgID]; ok {
			continue
		}
		seen[a.OrgID] = struct{}{}
		if o, ok := m.orgs[a.OrgID]; ok {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memRepo) CreateWorkspace(ctx context.Context, ws *tenancy.Workspace) error {
	m.workspaces[ws.ID] = ws
	return nil
}

func (m *memRepo) UpdateWorkspace(ctx context.Context, ws *tenancy.Workspace) error {
	if _, ok := m.workspaces[ws.ID]; !ok {
		return httpx.ErrNotFound
	}
	m.workspaces[ws.ID] = ws
	return nil
}

func (m *memRepo) FindWorkspace(ctx context.Context, id string) (*tenancy.Workspace, error) {
	if ws, ok := m.workspaces[id]; ok {
		return ws, nil
	}
	return nil, httpx.ErrNotFound
}

func (m *memRepo) ListWorkspaces(ctx context.Context, orgID string) ([]tenancy.Workspace, error) {
	var out []tenancy.Workspace
	for _, ws := range m.workspaces {
		if ws.OrgID == orgID {
			out = append(out, *ws)
		}
	}
	return out, nil
}

func (m *memRepo) CreateAssignment(ctx context.Context, a *tenancy.RoleAssignment) error {
	m.assignments[a.ID] = a
	return nil
}

func (m *memRepo) DeleteAssignment(ctx context.Context, orgID, id string) (*tenancy.RoleAssignment, error) {
	a, ok := m.assignments[id]
	if !ok || a.OrgID != orgID {
		return nil, httpx.ErrNotFound
	}
	delete(m.assignments, id)
	return a, nil
}

func (m *memRepo) ListAssignmentsForUser(ctx context.Context, userID, orgID string) ([]tenancy.RoleAssignment, error) {
	var out []tenancy.RoleAssignment
	for _, a := range m.assignments {
		if a.UserID == userID && a.OrgID == orgID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memRepo) ListAssignments(ctx context.Context, orgID, workspaceID string) ([]tenancy.RoleAssignment, error) {
	var out []tenancy.RoleAssignment
	for _, a := range m.assignments {
		if a.OrgID != orgID {
			continue
		}
		if workspaceID != "" && a.WorkspaceID != "" && a.WorkspaceID != workspaceID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

type captureRecorder struct {
	entries []audit.Entry
	fail    error
}

func (c *captureRecorder) Record(ctx context.Context, entry audit.Entry) error {
	if c.fail != nil {
		return c.fail
	}
	c.entries = append(c.entries, entry)
	return nil
}

func seedTenant(t *testing.T, repo *memRepo) (orgID, wsA, wsB string) {
	t.Helper()
	now := time.Now().UTC()
	repo.orgs["org_1"] = &tenancy.Organization{ID: "org_1", Name: "Agency", Slug: "agency", CreatedAt: now, UpdatedAt: now}
	repo.workspaces["ws_a"] = &tenancy.Workspace{ID: "ws_a", OrgID: "org_1", Name: "Acme", Slug: "acme", IsActive: true}
	repo.workspaces["ws_b"] = &tenancy.Workspace{ID: "ws_b", OrgID: "org_1", Name: "Globex", Slug: "globex", IsActive: true}
	return "org_1", "ws_a", "ws_b"
}

func TestEffectiveRolesUnion(t *testing.T) {
	repo := newMemRepo()
	orgID, wsA, wsB := seedTenant(t, repo)
	repo.assignments["g1"] = &tenancy.RoleAssignment{ID: "g1", UserID: "u1", OrgID: orgID, Role: authz.RoleAnalystOps}
	repo.assignments["g2"] = &tenancy.RoleAssignment{ID: "g2", UserID: "u1", OrgID: orgID, WorkspaceID: wsA, Role: authz.RolePerformance}

	service := tenancy.NewService(repo, &captureRecorder{})

	roles, err := service.EffectiveRoles(context.Background(), "u1", orgID, wsA)
	require.NoError(t, err)
	require.ElementsMatch(t, []authz.Role{authz.RoleAnalystOps, authz.RolePerformance}, roles)

	roles, err = service.EffectiveRoles(context.Background(), "u1", orgID, wsB)
	require.NoError(t, err)
	require.ElementsMatch(t, []authz.Role{authz.RoleAnalystOps}, roles)
}

func TestEffectiveRolesIncludesWorkspaceGrantsWhenUnscoped(t *testing.T) {
	repo := newMemRepo()
	orgID, wsA, _ := seedTenant(t, repo)
	repo.assignments["g1"] = &tenancy.RoleAssignment{ID: "g1", UserID: "u1", OrgID: orgID, WorkspaceID: wsA, Role: authz.RoleAdmin}

	service := tenancy.NewService(repo, &captureRecorder{})

	// Requests without a workspace scope still see workspace-scoped grants.
	roles, err := service.EffectiveRoles(context.Background(), "u1", orgID, "")
	require.NoError(t, err)
	require.ElementsMatch(t, []authz.Role{authz.RoleAdmin}, roles)
}

func TestRevokeTakesEffectImmediately(t *testing.T) {
	repo := newMemRepo()
	orgID, wsA, _ := seedTenant(t, repo)
	repo.assignments["g1"] = &tenancy.RoleAssignment{ID: "g1", UserID: "u1", OrgID: orgID, WorkspaceID: wsA, Role: authz.RoleGrowthLead}

	recorder := &captureRecorder{}
	service := tenancy.NewService(repo, recorder)
	actor := shared.Actor{ID: "admin_user"}

	require.NoError(t, service.RevokeRole(context.Background(), actor, orgID, "g1"))

	roles, err := service.EffectiveRoles(context.Background(), "u1", orgID, wsA)
	require.NoError(t, err)
	require.Empty(t, roles)

	require.Len(t, recorder.entries, 1)
	require.Equal(t, audit.ActionPermissionChange, recorder.entries[0].Action)
	require.NotEmpty(t, recorder.entries[0].Before)
}

func TestGrantRecordsAuditEntry(t *testing.T) {
	repo := newMemRepo()
	orgID, wsA, _ := seedTenant(t, repo)
	recorder := &captureRecorder{}
	service := tenancy.NewService(repo, recorder)

	grant, err := service.GrantRole(context.Background(), shared.Actor{ID: "admin_user"}, orgID, wsA, "u2", authz.RoleCreative)
	require.NoError(t, err)
	require.Len(t, recorder.entries, 1)
	require.Equal(t, audit.ActionPermissionChange, recorder.entries[0].Action)
	require.Equal(t, grant.ID, recorder.entries[0].EntityID)
	require.Equal(t, "admin_user", recorder.entries[0].ActorID)
}

func TestGrantFailsWhenAuditFails(t *testing.T) {
	repo := newMemRepo()
	orgID, wsA, _ := seedTenant(t, repo)
	recorder := &captureRecorder{fail: errors.New("audit store down")}
	service := tenancy.NewService(repo, recorder)

	_, err := service.GrantRole(context.Background(), shared.Actor{ID: "admin_user"}, orgID, wsA, "u2", authz.RoleCreative)
	require.Error(t, err)
}

func TestAccessibleWorkspacesScoped(t *testing.T) {
	repo := newMemRepo()
	orgID, wsA, _ := seedTenant(t, repo)
	repo.assignments["g1"] = &tenancy.RoleAssignment{ID: "g1", UserID: "viewer", OrgID: orgID, WorkspaceID: wsA, Role: authz.RoleClientViewer}
	repo.assignments["g2"] = &tenancy.RoleAssignment{ID: "g2", UserID: "lead", OrgID: orgID, Role: authz.RoleGrowthLead}

	service := tenancy.NewService(repo, &captureRecorder{})

	scoped, err := service.AccessibleWorkspaces(context.Background(), "viewer", orgID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.Equal(t, wsA, scoped[0].ID)

	all, err := service.AccessibleWorkspaces(context.Background(), "lead", orgID)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

package tenancy

import (
	"context"
	"time"

	"github.com/growthos/growthos/internal/audit"
	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

// Service wraps tenancy business rules and implements authz.RoleSource.
type Service struct {
	repo     Repository
	recorder audit.Recorder
}

// NewService constructs a new Service.
func NewService(repo Repository, recorder audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// EffectiveRoles unions the user's org-wide grants with grants scoped to
// workspaceID. An empty workspaceID matches every grant, so workspace-scoped
// roles still count on routes that carry no workspace. Called by the gate on
// every request so role changes take effect immediately.
func (s *Service) EffectiveRoles(ctx context.Context, userID, orgID, workspaceID string) ([]authz.Role, error) {
	assignments, err := s.repo.ListAssignmentsForUser(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}
	seen := make(map[authz.Role]struct{})
	var roles []authz.Role
	for _, a := range assignments {
		if workspaceID != "" && a.WorkspaceID != "" && a.WorkspaceID != workspaceID {
			continue
		}
		if _, ok := seen[a.Role]; ok {
			continue
		}
		seen[a.Role] = struct{}{}
		roles = append(roles, a.Role)
	}
	return roles, nil
}

// WorkspaceOrg resolves the owning org for a workspace.
func (s *Service) WorkspaceOrg(ctx context.Context, workspaceID string) (string, error) {
	ws, err := s.repo.FindWorkspace(ctx, workspaceID)
	if err != nil {
		return "", err
	}
	return ws.OrgID, nil
}

// AnyOrgFor returns an org the user belongs to, for unscoped requests.
func (s *Service) AnyOrgFor(ctx context.Context, userID string) (string, error) {
	orgs, err := s.repo.ListOrgsForUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(orgs) == 0 {
		return "", httpx.ErrNotFound
	}
	return orgs[0].ID, nil
}

// CreateOrg creates an organization and grants the creator the admin role
// org-wide.
func (s *Service) CreateOrg(ctx context.Context, actor shared.Actor, name string) (*Organization, error) {
	now := time.Now().UTC()
	org := &Organization{
		ID:        shared.NewID("org"),
		Name:      name,
		Slug:      shared.Slugify(name),
		Settings:  map[string]any{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateOrg(ctx, org); err != nil {
		return nil, err
	}
	grant := &RoleAssignment{
		ID:        shared.NewID("grant"),
		UserID:    actor.ID,
		OrgID:     org.ID,
		Role:      authz.RoleAdmin,
		CreatedAt: now,
	}
	if err := s.repo.CreateAssignment(ctx, grant); err != nil {
		return nil, err
	}
	return org, nil
}

// ListOrgs returns the orgs the actor belongs to.
func (s *Service) ListOrgs(ctx context.Context, actor shared.Actor) ([]Organization, error) {
	return s.repo.ListOrgsForUser(ctx, actor.ID)
}

// GetOrg fetches one organization.
func (s *Service) GetOrg(ctx context.Context, id string) (*Organization, error) {
	return s.repo.FindOrg(ctx, id)
}

// NewWorkspace carries the fields accepted at workspace creation.
type NewWorkspace struct {
	Name              string
	Description       string
	Industry          string
	ContactName       string
	ContactEmail      string
	CurrentConstraint string
	ThisWeekFocus     []string
	GrowthLeadID      string
}

// CreateWorkspace creates a client workspace under an org.
func (s *Service) CreateWorkspace(ctx context.Context, orgID string, input NewWorkspace) (*Workspace, error) {
	if _, err := s.repo.FindOrg(ctx, orgID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	focus := input.ThisWeekFocus
	if focus == nil {
		focus = []string{}
	}
	ws := &Workspace{
		ID:                shared.NewID("ws"),
		OrgID:             orgID,
		Name:              input.Name,
		Slug:              shared.Slugify(input.Name),
		Description:       input.Description,
		Industry:          input.Industry,
		ContactName:       input.ContactName,
		ContactEmail:      input.ContactEmail,
		CurrentConstraint: input.CurrentConstraint,
		ThisWeekFocus:     focus,
		GrowthLeadID:      input.GrowthLeadID,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.CreateWorkspace(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// WorkspaceUpdate carries the mutable workspace fields. Nil means leave
// unchanged.
type WorkspaceUpdate struct {
	Name              *string
	Description       *string
	Industry          *string
	ContactName       *string
	ContactEmail      *string
	CurrentConstraint *string
	ThisWeekFocus     []string
	GrowthLeadID      *string
	IsActive          *bool
}

// UpdateWorkspace applies a partial update.
func (s *Service) UpdateWorkspace(ctx context.Context, id string, update WorkspaceUpdate) (*Workspace, error) {
	ws, err := s.repo.FindWorkspace(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		ws.Name = *update.Name
	}
	if update.Description != nil {
		ws.Description = *update.Description
	}
	if update.Industry != nil {
		ws.Industry = *update.Industry
	}
	if update.ContactName != nil {
		ws.ContactName = *update.ContactName
	}
	if update.ContactEmail != nil {
		ws.ContactEmail = *update.ContactEmail
	}
	if update.CurrentConstraint != nil {
		ws.CurrentConstraint = *update.CurrentConstraint
	}
	if update.ThisWeekFocus != nil {
		ws.ThisWeekFocus = update.ThisWeekFocus
	}
	if update.GrowthLeadID != nil {
		ws.GrowthLeadID = *update.GrowthLeadID
	}
	if update.IsActive != nil {
		ws.IsActive = *update.IsActive
	}
	ws.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateWorkspace(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// GetWorkspace fetches one workspace.
func (s *Service) GetWorkspace(ctx context.Context, id string) (*Workspace, error) {
	return s.repo.FindWorkspace(ctx, id)
}

// WorkspaceName resolves a workspace id to its display name.
func (s *Service) WorkspaceName(ctx context.Context, id string) (string, error) {
	ws, err := s.repo.FindWorkspace(ctx, id)
	if err != nil {
		return "", err
	}
	return ws.Name, nil
}

// AccessibleWorkspaces returns the workspaces the user can see in an org:
// all of them for org-wide grants, otherwise only the ones named by
// workspace-scoped grants.
func (s *Service) AccessibleWorkspaces(ctx context.Context, userID, orgID string) ([]Workspace, error) {
	assignments, err := s.repo.ListAssignmentsForUser(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}
	orgWide := false
	scoped := make(map[string]struct{})
	for _, a := range assignments {
		if a.WorkspaceID == "" {
			orgWide = true
		} else {
			scoped[a.WorkspaceID] = struct{}{}
		}
	}
	all, err := s.repo.ListWorkspaces(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if orgWide {
		return all, nil
	}
	var out []Workspace
	for _, ws := range all {
		if _, ok := scoped[ws.ID]; ok {
			out = append(out, ws)
		}
	}
	return out, nil
}

// GrantRole assigns a role and records a permission_change audit entry.
// The audit write is part of the operation: if it fails, the grant fails.
func (s *Service) GrantRole(ctx context.Context, actor shared.Actor, orgID, workspaceID, userID string, role authz.Role) (*RoleAssignment, error) {
	if workspaceID != "" {
		ws, err := s.repo.FindWorkspace(ctx, workspaceID)
		if err != nil {
			return nil, err
		}
		if ws.OrgID != orgID {
			return nil, httpx.ErrNotFound
		}
	}
	grant := &RoleAssignment{
		ID:          shared.NewID("grant"),
		UserID:      userID,
		OrgID:       orgID,
		WorkspaceID: workspaceID,
		Role:        role,
		CreatedBy:   actor.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateAssignment(ctx, grant); err != nil {
		return nil, err
	}
	err := s.recorder.Record(ctx, audit.Entry{
		OrgID:       orgID,
		WorkspaceID: workspaceID,
		ActorID:     actor.ID,
		Action:      audit.ActionPermissionChange,
		EntityType:  "role_assignment",
		EntityID:    grant.ID,
		After:       audit.Image(grant),
	})
	if err != nil {
		return nil, err
	}
	return grant, nil
}

// RevokeRole removes an assignment and records a permission_change entry
// carrying the removed grant as the before image.
func (s *Service) RevokeRole(ctx context.Context, actor shared.Actor, orgID, assignmentID string) error {
	removed, err := s.repo.DeleteAssignment(ctx, orgID, assignmentID)
	if err != nil {
		return err
	}
	return s.recorder.Record(ctx, audit.Entry{
		OrgID:       orgID,
		WorkspaceID: removed.WorkspaceID,
		ActorID:     actor.ID,
		Action:      audit.ActionPermissionChange,
		EntityType:  "role_assignment",
		EntityID:    removed.ID,
		Before:      audit.Image(removed),
	})
}

// ListMembers lists role assignments for an org, optionally narrowed to a
// workspace.
func (s *Service) ListMembers(ctx context.Context, orgID, workspaceID string) ([]RoleAssignment, error) {
	return s.repo.ListAssignments(ctx, orgID, workspaceID)
}

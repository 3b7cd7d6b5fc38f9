// Package tenancy owns organizations, client workspaces, and role
// assignments. It backs the authorization gate: effective roles are the
// union of org-level grants and grants scoped to the requested workspace.
package tenancy

import (
	"context"
	"time"

	"github.com/growthos/growthos/internal/authz"
)

// Organization is the top-level tenant, typically one agency customer.
type Organization struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	LogoURL   string         `json:"logo_url,omitempty"`
	Settings  map[string]any `json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Workspace is one client engagement inside an organization. All marketing
// entities hang off a workspace.
type Workspace struct {
	ID                string    `json:"id"`
	OrgID             string    `json:"org_id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Description       string    `json:"description,omitempty"`
	Industry          string    `json:"industry,omitempty"`
	ContactName       string    `json:"contact_name,omitempty"`
	ContactEmail      string    `json:"contact_email,omitempty"`
	CurrentConstraint string    `json:"current_constraint,omitempty"`
	ThisWeekFocus     []string  `json:"this_week_focus"`
	GrowthLeadID      string    `json:"growth_lead_id,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RoleAssignment grants a role either org-wide (WorkspaceID empty) or in
// one workspace. Assignments are created and deleted, never updated; a
// role change is a delete plus a create so the audit trail keeps both.
type RoleAssignment struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	OrgID       string     `json:"org_id"`
	WorkspaceID string     `json:"workspace_id,omitempty"`
	Role        authz.Role `json:"role"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Repository provides tenancy persistence.
type Repository interface {
	CreateOrg(ctx context.Context, org *Organization) error
	FindOrg(ctx context.Context, id string) (*Organization, error)
	ListOrgsForUser(ctx context.Context, userID string) ([]Organization, error)

	CreateWorkspace(ctx context.Context, ws *Workspace) error
	UpdateWorkspace(ctx context.Context, ws *Workspace) error
	FindWorkspace(ctx context.Context, id string) (*Workspace, error)
	ListWorkspaces(ctx context.Context, orgID string) ([]Workspace, error)

	CreateAssignment(ctx context.Context, a *RoleAssignment) error
	DeleteAssignment(ctx context.Context, orgID, id string) (*RoleAssignment, error)
	ListAssignmentsForUser(ctx context.Context, userID, orgID string) ([]RoleAssignment, error)
	ListAssignments(ctx context.Context, orgID, workspaceID string) ([]RoleAssignment, error)
}

package tenancy

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthos/growthos/internal/authz"
	"github.com/growthos/growthos/internal/platform/httpx"
)

// PgRepository provides PostgreSQL backed tenancy persistence.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs a repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) CreateOrg(ctx context.Context, org *Organization) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO organizations (id, name, slug, logo_url, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		org.ID, org.Name, org.Slug, org.LogoURL, org.Settings, org.CreatedAt, org.UpdatedAt)
	return mapConstraint(err)
}

func (r *PgRepository) FindOrg(ctx context.Context, id string) (*Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, slug, COALESCE(logo_url, ''), settings, created_at, updated_at
		FROM organizations WHERE id = $1`, id).
		Scan(&org.ID, &org.Name, &org.Slug, &org.LogoURL, &org.Settings, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *PgRepository) ListOrgsForUser(ctx context.Context, userID string) ([]Organization, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT o.id, o.name, o.slug, COALESCE(o.logo_url, ''), o.settings, o.created_at, o.updated_at
		FROM organizations o
		JOIN role_assignments ra ON ra.org_id = o.id
		WHERE ra.user_id = $1
		ORDER BY o.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orgs []Organization
	for rows.Next() {
		var org Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Slug, &org.LogoURL, &org.Settings, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

const workspaceColumns = `id, org_id, name, slug, COALESCE(description, ''), COALESCE(industry, ''),
	COALESCE(contact_name, ''), COALESCE(contact_email, ''), COALESCE(current_constraint, ''),
	this_week_focus, COALESCE(growth_lead_id, ''), is_active, created_at, updated_at`

func (r *PgRepository) CreateWorkspace(ctx context.Context, ws *Workspace) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO workspaces (id, org_id, name, slug, description, industry, contact_name, contact_email,
			current_constraint, this_week_focus, growth_lead_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14)`,
		ws.ID, ws.OrgID, ws.Name, ws.Slug, ws.Description, ws.Industry, ws.ContactName, ws.ContactEmail,
		ws.CurrentConstraint, ws.ThisWeekFocus, ws.GrowthLeadID, ws.IsActive, ws.CreatedAt, ws.UpdatedAt)
	return mapConstraint(err)
}

func (r *PgRepository) UpdateWorkspace(ctx context.Context, ws *Workspace) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE workspaces
		SET name = $2, description = $3, industry = $4, contact_name = $5, contact_email = $6,
			current_constraint = $7, this_week_focus = $8, growth_lead_id = NULLIF($9, ''),
			is_active = $10, updated_at = $11
		WHERE id = $1`,
		ws.ID, ws.Name, ws.Description, ws.Industry, ws.ContactName, ws.ContactEmail,
		ws.CurrentConstraint, ws.ThisWeekFocus, ws.GrowthLeadID, ws.IsActive, ws.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *PgRepository) FindWorkspace(ctx context.Context, id string) (*Workspace, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1`, id)
	ws, err := scanWorkspace(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (r *PgRepository) ListWorkspaces(ctx context.Context, orgID string) ([]Workspace, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+workspaceColumns+` FROM workspaces WHERE org_id = $1 ORDER BY created_at`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ws)
	}
	return out, rows.Err()
}

func scanWorkspace(row pgx.Row) (*Workspace, error) {
	var ws Workspace
	err := row.Scan(&ws.ID, &ws.OrgID, &ws.Name, &ws.Slug, &ws.Description, &ws.Industry,
		&ws.ContactName, &ws.ContactEmail, &ws.CurrentConstraint,
		&ws.ThisWeekFocus, &ws.GrowthLeadID, &ws.IsActive, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *PgRepository) CreateAssignment(ctx context.Context, a *RoleAssignment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO role_assignments (id, user_id, org_id, workspace_id, role, created_by, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7)`,
		a.ID, a.UserID, a.OrgID, a.WorkspaceID, string(a.Role), a.CreatedBy, a.CreatedAt)
	return mapConstraint(err)
}

func (r *PgRepository) DeleteAssignment(ctx context.Context, orgID, id string) (*RoleAssignment, error) {
	var a RoleAssignment
	var role string
	err := r.pool.QueryRow(ctx, `
		DELETE FROM role_assignments WHERE id = $1 AND org_id = $2
		RETURNING id, user_id, org_id, COALESCE(workspace_id, ''), role, COALESCE(created_by, ''), created_at`, id, orgID).
		Scan(&a.ID, &a.UserID, &a.OrgID, &a.WorkspaceID, &role, &a.CreatedBy, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Role = authz.Role(role)
	return &a, nil
}

func (r *PgRepository) ListAssignmentsForUser(ctx context.Context, userID, orgID string) ([]RoleAssignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, org_id, COALESCE(workspace_id, ''), role, COALESCE(created_by, ''), created_at
		FROM role_assignments WHERE user_id = $1 AND org_id = $2`, userID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (r *PgRepository) ListAssignments(ctx context.Context, orgID, workspaceID string) ([]RoleAssignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, org_id, COALESCE(workspace_id, ''), role, COALESCE(created_by, ''), created_at
		FROM role_assignments
		WHERE org_id = $1 AND ($2 = '' OR workspace_id = $2 OR workspace_id IS NULL)
		ORDER BY created_at`, orgID, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func scanAssignments(rows pgx.Rows) ([]RoleAssignment, error) {
	var out []RoleAssignment
	for rows.Next() {
		var a RoleAssignment
		var role string
		if err := rows.Scan(&a.ID, &a.UserID, &a.OrgID, &a.WorkspaceID, &role, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Role = authz.Role(role)
		out = append(out, a)
	}
	return out, rows.Err()
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}

// Package authz implements the request authorization gate: a static
// operation-to-roles policy table checked against the caller's effective
// roles, resolved fresh on every request.
package authz

import "fmt"

// Role is one of the closed set of platform roles.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleGrowthLead   Role = "growth_lead"
	RolePerformance  Role = "performance"
	RoleCreative     Role = "creative"
	RoleAnalystOps   Role = "analyst_ops"
	RoleClientViewer Role = "client_viewer"
)

// AllRoles lists every valid role.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleGrowthLead, RolePerformance, RoleCreative, RoleAnalystOps, RoleClientViewer}
}

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, error) {
	for _, r := range AllRoles() {
		if string(r) == raw {
			return r, nil
		}
	}
	return "", fmt.Errorf("authz: unknown role %q", raw)
}

// HasRole reports whether roles contains want.
func HasRole(roles []Role, want Role) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}

// Intersects reports whether any granted role appears in the allow-list.
func Intersects(granted, allowed []Role) bool {
	set := make(map[Role]struct{}, len(granted))
	for _, r := range granted {
		set[r] = struct{}{}
	}
	for _, r := range allowed {
		if _, ok := set[r]; ok {
			return true
		}
	}
	return false
}

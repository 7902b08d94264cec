package policy

import (
	"github.com/ekodaeng/ctgold-admin-gateway/internal/session"
)

// Resource identifies a protected resource class
type Resource string

// Action identifies an operation on a resource
type Action string

const (
	ResourceMembers      Resource = "members"
	ResourceAdmins       Resource = "admins"
	ResourceSettings     Resource = "settings"
	ResourceActivityLogs Resource = "activity_logs"
)

const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionEdit    Action = "edit"
	ActionApprove Action = "approve"
	ActionDelete  Action = "delete"

	// ActionViewAll applies to activity logs only; plain view is scoped
	// to the caller's own entries.
	ActionViewAll Action = "view_all"
)

type permission struct {
	resource Resource
	action   Action
}

// PermissionSet is the set of (resource, action) pairs a role may perform
type PermissionSet map[permission]struct{}

// Allows reports whether the set contains the pair
func (p PermissionSet) Allows(resource Resource, action Action) bool {
	_, ok := p[permission{resource, action}]
	return ok
}

var adminPermissions = buildSet(
	permission{ResourceMembers, ActionView},
	permission{ResourceMembers, ActionEdit},
	permission{ResourceMembers, ActionApprove},
	permission{ResourceAdmins, ActionView},
	permission{ResourceSettings, ActionView},
	permission{ResourceActivityLogs, ActionView},
)

var superAdminPermissions = buildSet(append(keys(adminPermissions),
	permission{ResourceMembers, ActionDelete},
	permission{ResourceAdmins, ActionCreate},
	permission{ResourceAdmins, ActionEdit},
	permission{ResourceAdmins, ActionDelete},
	permission{ResourceSettings, ActionEdit},
	permission{ResourceActivityLogs, ActionViewAll},
)...)

// roleTable is the single authorization table. Roles absent from it carry
// no permissions at all.
var roleTable = map[session.Role]PermissionSet{
	session.RoleAdmin:      adminPermissions,
	session.RoleSuperAdmin: superAdminPermissions,
}

func buildSet(perms ...permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

func keys(set PermissionSet) []permission {
	out := make([]permission, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return out
}

// PermissionsFor returns the permission set for a role. Unknown roles get
// the empty set.
func PermissionsFor(role session.Role) PermissionSet {
	if set, ok := roleTable[session.NormalizeRole(string(role))]; ok {
		return set
	}
	return PermissionSet{}
}

// IsAllowed reports whether a role may perform an action on a resource
func IsAllowed(role session.Role, resource Resource, action Action) bool {
	return PermissionsFor(role).Allows(resource, action)
}

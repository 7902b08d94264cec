package policy

import (
	"testing"

	"github.com/ekodaeng/ctgold-admin-gateway/internal/session"
)

func allPairs() []permission {
	resources := []Resource{ResourceMembers, ResourceAdmins, ResourceSettings, ResourceActivityLogs}
	actions := []Action{ActionView, ActionCreate, ActionEdit, ActionApprove, ActionDelete, ActionViewAll}

	var pairs []permission
	for _, r := range resources {
		for _, a := range actions {
			pairs = append(pairs, permission{r, a})
		}
	}
	return pairs
}

func TestIsAllowed(t *testing.T) {
	tests := []struct {
		name     string
		role     session.Role
		resource Resource
		action   Action
		want     bool
	}{
		{"admin views members", session.RoleAdmin, ResourceMembers, ActionView, true},
		{"admin approves members", session.RoleAdmin, ResourceMembers, ActionApprove, true},
		{"admin cannot delete members", session.RoleAdmin, ResourceMembers, ActionDelete, false},
		{"admin cannot create admins", session.RoleAdmin, ResourceAdmins, ActionCreate, false},
		{"admin cannot delete admins", session.RoleAdmin, ResourceAdmins, ActionDelete, false},
		{"admin cannot edit settings", session.RoleAdmin, ResourceSettings, ActionEdit, false},
		{"admin cannot view all activity", session.RoleAdmin, ResourceActivityLogs, ActionViewAll, false},
		{"super_admin deletes members", session.RoleSuperAdmin, ResourceMembers, ActionDelete, true},
		{"super_admin creates admins", session.RoleSuperAdmin, ResourceAdmins, ActionCreate, true},
		{"super_admin edits settings", session.RoleSuperAdmin, ResourceSettings, ActionEdit, true},
		{"super_admin views all activity", session.RoleSuperAdmin, ResourceActivityLogs, ActionViewAll, true},
		{"legacy superadmin spelling", session.Role("superadmin"), ResourceAdmins, ActionDelete, true},
		{"unknown role denied", session.Role("guest"), ResourceMembers, ActionView, false},
		{"empty role denied", session.Role(""), ResourceMembers, ActionView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAllowed(tt.role, tt.resource, tt.action); got != tt.want {
				t.Errorf("IsAllowed(%q, %q, %q) = %v, want %v", tt.role, tt.resource, tt.action, got, tt.want)
			}
		})
	}
}

// Every permission admin holds, super_admin must hold as well.
func TestSuperAdminIsSuperset(t *testing.T) {
	for _, pair := range allPairs() {
		if IsAllowed(session.RoleAdmin, pair.resource, pair.action) &&
			!IsAllowed(session.RoleSuperAdmin, pair.resource, pair.action) {
			t.Errorf("super_admin missing admin permission %s.%s", pair.resource, pair.action)
		}
	}
}

// An unrecognized role must never hold a permission any known role lacks.
func TestUnknownRoleFailsClosed(t *testing.T) {
	set := PermissionsFor(session.Role("guest"))
	if len(set) != 0 {
		t.Errorf("unknown role has %d permissions, want 0", len(set))
	}

	for _, pair := range allPairs() {
		if IsAllowed(session.Role("guest"), pair.resource, pair.action) {
			t.Errorf("unknown role allowed %s.%s", pair.resource, pair.action)
		}
	}
}

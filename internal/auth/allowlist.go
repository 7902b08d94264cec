package auth

import (
	"strings"

	"github.com/ekodaeng/ctgold-admin-gateway/internal/session"
)

// Allowlist maps configured email sets onto the role an account gets on
// its first login. Accounts outside both sets are refused.
type Allowlist struct {
	superAdmins map[string]struct{}
	admins      map[string]struct{}
}

// NewAllowlist parses the comma-separated allowlist strings from config
func NewAllowlist(superAdminCSV, adminCSV string) *Allowlist {
	return &Allowlist{
		superAdmins: parseEmailSet(superAdminCSV),
		admins:      parseEmailSet(adminCSV),
	}
}

func parseEmailSet(csv string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, entry := range strings.Split(csv, ",") {
		email := SanitizeEmail(entry)
		if email != "" {
			set[email] = struct{}{}
		}
	}
	return set
}

// RoleFor returns the bootstrap role for an email. The super-admin set is
// checked first so an email listed in both gets the higher role.
func (a *Allowlist) RoleFor(email string) (session.Role, bool) {
	email = SanitizeEmail(email)
	if _, ok := a.superAdmins[email]; ok {
		return session.RoleSuperAdmin, true
	}
	if _, ok := a.admins[email]; ok {
		return session.RoleAdmin, true
	}
	return "", false
}

package authz

// Role is a closed enumeration of the role names this service reasons
// about. Unknown claim strings are kept verbatim as custom roles; a custom
// role only ever satisfies a requirement for exactly itself.
type Role string

const (
	// HostAdministrator is the host-level role (tenant id = null) that may
	// act across all tenants.
	HostAdministrator Role = "HostAdministrator"
	// Administrator is the tenant-scoped role that manages users, projects
	// and tasks within its own tenant.
	Administrator Role = "Administrator"
	// User is the default tenant member role.
	User Role = "User"
)

// ParseRole maps a claim string onto the closed role set. Strings outside
// the set are preserved as custom roles.
func ParseRole(name string) Role {
	switch Role(name) {
	case HostAdministrator:
		return HostAdministrator
	case Administrator:
		return Administrator
	case User:
		return User
	default:
		return Role(name)
	}
}

// ParseRoles maps a list of claim strings onto roles
func ParseRoles(names []string) []Role {
	roles := make([]Role, 0, len(names))
	for _, name := range names {
		roles = append(roles, ParseRole(name))
	}
	return roles
}

func (r Role) String() string {
	return string(r)
}

package model

// Role identifies what a user account is allowed to do. The set is closed:
// accounts hold exactly one role and roles are never defined at runtime.
type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleOrgAdmin      Role = "org_admin"
	RoleSchoolAdmin   Role = "school_admin"
	RolePrincipal     Role = "principal"
	RoleVicePrincipal Role = "vice_principal"
	RoleTeacher       Role = "teacher"
	RoleAccountant    Role = "accountant"
	RoleHR            Role = "hr"
	RoleLibrarian     Role = "librarian"
	RoleReceptionist  Role = "receptionist"
	RoleParent        Role = "parent"
	RoleStudent       Role = "student"
)

// AllRoles lists every known role, highest-privileged first.
var AllRoles = []Role{
	RolePlatformAdmin,
	RoleOrgAdmin,
	RoleSchoolAdmin,
	RolePrincipal,
	RoleVicePrincipal,
	RoleTeacher,
	RoleAccountant,
	RoleHR,
	RoleLibrarian,
	RoleReceptionist,
	RoleParent,
	RoleStudent,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

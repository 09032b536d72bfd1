// Package role holds the static role tables: which roles an administrator
// may create beneath itself, and the capability list each role carries.
// Both tables are pure lookups and never change at runtime.
package role

import "github.com/maktab/maktab/internal/model"

// creatableRoles maps an administrative role to the set of roles it is
// permitted to create. Roles absent from the map create nobody.
var creatableRoles = map[model.Role][]model.Role{
	model.RolePlatformAdmin: {
		model.RoleOrgAdmin,
		model.RoleSchoolAdmin,
		model.RolePrincipal,
		model.RoleVicePrincipal,
		model.RoleTeacher,
		model.RoleAccountant,
		model.RoleHR,
		model.RoleLibrarian,
		model.RoleReceptionist,
	},
	model.RoleOrgAdmin: {
		model.RoleOrgAdmin,
		model.RoleSchoolAdmin,
		model.RolePrincipal,
		model.RoleVicePrincipal,
		model.RoleTeacher,
		model.RoleAccountant,
		model.RoleHR,
		model.RoleLibrarian,
		model.RoleReceptionist,
	},
	model.RoleSchoolAdmin: {
		model.RolePrincipal,
		model.RoleVicePrincipal,
		model.RoleTeacher,
		model.RoleAccountant,
		model.RoleHR,
		model.RoleLibrarian,
		model.RoleReceptionist,
	},
}

// CanCreate reports whether an account with the creator role may create an
// account with the target role.
func CanCreate(creator, target model.Role) bool {
	for _, allowed := range creatableRoles[creator] {
		if allowed == target {
			return true
		}
	}
	return false
}

// CreatableBy returns the roles the given role may create. The returned
// slice is a copy; callers may not mutate the table through it.
func CreatableBy(creator model.Role) []model.Role {
	allowed := creatableRoles[creator]
	out := make([]model.Role, len(allowed))
	copy(out, allowed)
	return out
}

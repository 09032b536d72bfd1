package role

import "github.com/maktab/maktab/internal/model"

// permissions maps each role to its capability strings. The list is embedded
// in the session token as advisory metadata for client-side UI gating; the
// tenant guard and per-route role checks remain the authoritative
// enforcement.
var permissions = map[model.Role][]string{
	model.RolePlatformAdmin: {
		"read:*", "write:*", "delete:*",
		"manage:organizations", "manage:schools", "manage:users",
	},
	model.RoleOrgAdmin: {
		"read:org-wide", "write:org-wide",
		"manage:schools", "manage:school-admins", "create:org-admins",
		"read:students", "read:staff", "read:reports",
	},
	model.RoleSchoolAdmin: {
		"read:school", "write:school",
		"manage:staff", "manage:students", "manage:classes",
		"read:attendance", "write:attendance",
		"read:grades", "write:grades",
		"read:fees", "write:fees",
		"read:reports", "create:reports",
	},
	model.RolePrincipal: {
		"read:school", "write:school",
		"read:students", "write:students",
		"read:attendance", "write:attendance",
		"read:grades", "write:grades", "publish:grades",
		"read:fees", "write:fees",
		"read:reports", "create:reports",
	},
	model.RoleVicePrincipal: {
		"read:school",
		"read:students", "write:students",
		"read:attendance", "write:attendance",
		"read:grades", "write:grades",
		"read:fees",
		"read:reports",
	},
	model.RoleTeacher: {
		"read:own-classes",
		"read:students:assigned",
		"write:attendance:assigned",
		"write:grades:own-subjects",
		"read:timetable",
		"send:messages",
	},
	model.RoleAccountant: {
		"read:school",
		"read:students",
		"read:fees", "write:fees", "manage:fees",
		"read:payments", "write:payments",
		"read:financial-reports", "create:financial-reports",
	},
	model.RoleHR: {
		"read:staff", "write:staff", "create:staff",
		"read:leave-requests", "approve:leave-requests",
	},
	model.RoleLibrarian: {
		"read:students", "read:staff",
		"manage:library",
	},
	model.RoleReceptionist: {
		"read:students", "create:students",
		"read:visitors", "write:visitors",
	},
	model.RoleParent: {
		"read:own-children",
		"read:attendance:own-children",
		"read:grades:own-children",
		"read:fees:own-children", "pay:fees",
		"send:messages:teachers",
	},
	model.RoleStudent: {
		"read:self",
		"read:attendance:self",
		"read:grades:self",
		"read:timetable:self",
		"send:messages:teachers",
	},
}

// PermissionsFor returns the capability list for a role. Unknown roles get
// an empty list.
func PermissionsFor(r model.Role) []string {
	perms := permissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

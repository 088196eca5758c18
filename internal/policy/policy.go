// Package policy holds the static role→permission table. Authorization is a
// pure lookup: no state, no database, consulted before every mutating or
// sensitive read operation.
package policy

// Role is the closed set of account roles.
type Role string

const (
	RoleSystemAdmin Role = "system_admin"
	RoleDirector    Role = "director"
	RoleFocalPerson Role = "focal_person"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSystemAdmin, RoleDirector, RoleFocalPerson:
		return Role(s), true
	}
	return "", false
}

type Permissions struct {
	ManageUsers        bool
	ManageCases        bool
	ViewDashboard      bool
	SearchPerpetrators bool
	GenerateReports    bool
	RegisterCases      bool
}

var table = map[Role]Permissions{
	RoleSystemAdmin: {
		ManageUsers:        true,
		ManageCases:        true,
		ViewDashboard:      true,
		SearchPerpetrators: true,
		GenerateReports:    true,
		RegisterCases:      true,
	},
	RoleDirector: {
		ViewDashboard:      true,
		SearchPerpetrators: true,
		GenerateReports:    true,
	},
	RoleFocalPerson: {
		ViewDashboard:      true,
		SearchPerpetrators: true,
		RegisterCases:      true,
	},
}

// For returns the permission set for a role. Unknown or empty roles get the
// zero value: everything denied.
func For(role Role) Permissions {
	return table[role]
}

func CanManageUsers(role Role) bool        { return table[role].ManageUsers }
func CanManageCases(role Role) bool        { return table[role].ManageCases }
func CanViewDashboard(role Role) bool      { return table[role].ViewDashboard }
func CanSearchPerpetrators(role Role) bool { return table[role].SearchPerpetrators }
func CanGenerateReports(role Role) bool    { return table[role].GenerateReports }
func CanRegisterCases(role Role) bool      { return table[role].RegisterCases }

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleTable(t *testing.T) {
	admin := For(RoleSystemAdmin)
	assert.Equal(t, Permissions{
		ManageUsers:        true,
		ManageCases:        true,
		ViewDashboard:      true,
		SearchPerpetrators: true,
		GenerateReports:    true,
		RegisterCases:      true,
	}, admin)

	director := For(RoleDirector)
	assert.True(t, director.ViewDashboard)
	assert.True(t, director.SearchPerpetrators)
	assert.True(t, director.GenerateReports)
	assert.False(t, director.ManageUsers)
	assert.False(t, director.ManageCases)
	assert.False(t, director.RegisterCases)

	focal := For(RoleFocalPerson)
	assert.True(t, focal.ViewDashboard)
	assert.True(t, focal.SearchPerpetrators)
	assert.True(t, focal.RegisterCases)
	assert.False(t, focal.ManageUsers)
	assert.False(t, focal.ManageCases)
	assert.False(t, focal.GenerateReports)
}

func TestUnknownRoleDeniedEverything(t *testing.T) {
	assert.Equal(t, Permissions{}, For("intern"))
	assert.Equal(t, Permissions{}, For(""))
	assert.False(t, CanManageUsers("intern"))
	assert.False(t, CanViewDashboard("intern"))
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("director")
	assert.True(t, ok)
	assert.Equal(t, RoleDirector, role)

	_, ok = ParseRole("Director")
	assert.False(t, ok)
	_, ok = ParseRole("")
	assert.False(t, ok)
}

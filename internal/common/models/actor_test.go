package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdminRS.Valid())
	assert.True(t, RoleAdminBPJS.Valid())
	assert.False(t, Role("dokter").Valid())
	assert.False(t, Role("").Valid())
}

func TestActorIs(t *testing.T) {
	rs := Actor{ID: 1, Role: RoleAdminRS}
	assert.True(t, rs.Is(RoleAdminRS))
	assert.True(t, rs.Is(RoleAdminBPJS, RoleAdminRS))
	assert.False(t, rs.Is(RoleAdminBPJS))
	assert.False(t, rs.Is())
}

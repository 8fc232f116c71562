package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermissionLeaveApprove))
	assert.True(t, HasPermission(RoleManager, PermissionLeaveApprove))
	assert.False(t, HasPermission(RoleEmployee, PermissionLeaveApprove))
	assert.False(t, HasPermission(RoleEmployee, PermissionReportsExport))
	assert.True(t, HasPermission(RoleEmployee, PermissionAttendanceCreate))
	assert.False(t, HasPermission(Role("owner"), PermissionLeaveViewOwn))
	assert.True(t, HasPermission(RoleAdmin, PermissionUsersManage))
	assert.False(t, HasPermission(RoleManager, PermissionUsersManage))
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleManager, RoleEmployee} {
		assert.True(t, r.Valid(), string(r))
	}
	assert.False(t, Role("pending").Valid())
	assert.False(t, Role("").Valid())
}

func TestCreateUserRequest_Validate(t *testing.T) {
	req := CreateUserRequest{FullName: "Ana", DepartmentID: "5", Role: "manager"}
	assert.NoError(t, req.Validate())

	req.Role = "owner"
	assert.Error(t, req.Validate())
}

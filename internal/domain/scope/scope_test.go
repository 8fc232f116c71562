package scope

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestFor_Admin(t *testing.T) {
	f, err := For(Actor{UserID: "a", Role: user.RoleAdmin, DepartmentID: "1"})
	require.NoError(t, err)
	assert.True(t, f.Allows(Subject{UserID: "x", DepartmentID: "9"}))
	assert.True(t, f.Allows(Subject{UserID: "a", DepartmentID: "1"}))
}

func TestFor_Manager(t *testing.T) {
	f, err := For(Actor{UserID: "m", Role: user.RoleManager, DepartmentID: "5"})
	require.NoError(t, err)
	assert.True(t, f.Allows(Subject{UserID: "e1", DepartmentID: "5"}))
	assert.False(t, f.Allows(Subject{UserID: "e2", DepartmentID: "7"}))
	assert.False(t, f.Allows(Subject{UserID: "m", DepartmentID: "5"}), "manager does not see own rows in department scope")
}

func TestFor_Employee(t *testing.T) {
	f, err := For(Actor{UserID: "e1", Role: user.RoleEmployee, DepartmentID: "5"})
	require.NoError(t, err)
	assert.True(t, f.Allows(Subject{UserID: "e1", DepartmentID: "5"}))
	assert.False(t, f.Allows(Subject{UserID: "e2", DepartmentID: "5"}))
}

func TestFor_UnknownRole(t *testing.T) {
	_, err := For(Actor{UserID: "x", Role: user.Role("owner")})
	assert.True(t, errors.Is(err, ErrUnknownRole))
}

func TestFilter_Narrow(t *testing.T) {
	f, err := For(Actor{UserID: "m", Role: user.RoleManager, DepartmentID: "5"})
	require.NoError(t, err)

	n, ok := f.Narrow(strPtr("e1"), nil)
	require.True(t, ok)
	assert.Equal(t, "e1", *n.UserID)
	assert.Equal(t, "5", *n.DepartmentID)

	_, ok = f.Narrow(nil, strPtr("7"))
	assert.False(t, ok)

	_, ok = f.Narrow(strPtr("m"), nil)
	assert.False(t, ok)

	emp, err := For(Actor{UserID: "e1", Role: user.RoleEmployee, DepartmentID: "5"})
	require.NoError(t, err)
	_, ok = emp.Narrow(strPtr("e2"), nil)
	assert.False(t, ok)
}

func TestCanView(t *testing.T) {
	manager := Actor{UserID: "m", Role: user.RoleManager, DepartmentID: "5"}

	ok, err := CanView(manager, Subject{UserID: "m", DepartmentID: "5"})
	require.NoError(t, err)
	assert.True(t, ok, "own records are always visible")

	ok, err = CanView(manager, Subject{UserID: "e2", DepartmentID: "7"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CanView(Actor{UserID: "x", Role: user.Role("guest")}, Subject{UserID: "y"})
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestForListing(t *testing.T) {
	manager := Actor{UserID: "m", Role: user.RoleManager, DepartmentID: "5"}

	f, ok, err := ForListing(manager, strPtr("m"), nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "m", *f.UserID)
	assert.Nil(t, f.ExcludeUserID)

	f, ok, err = ForListing(manager, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "5", *f.DepartmentID)
	assert.Equal(t, "m", *f.ExcludeUserID)

	_, ok, err = ForListing(manager, nil, strPtr("7"))
	require.NoError(t, err)
	assert.False(t, ok)
}

package user

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite/sqlitetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	db := sqlitetest.Open(t)
	svc := NewUserService(sqlite.NewTransactor(db), sqlite.NewUserRepository(db))
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, user.CreateUserRequest{
		FullName: "Ana", DepartmentID: "eng", DepartmentName: "Engineering", Role: "employee",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Engineering", created.DepartmentName)

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FullName)

	// department name defaults to its id and existing names are overwritten
	other, err := svc.CreateUser(ctx, user.CreateUserRequest{FullName: "Budi", DepartmentID: "eng", Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "eng", other.DepartmentName)
}

func TestCreateUser_Invalid(t *testing.T) {
	db := sqlitetest.Open(t)
	svc := NewUserService(sqlite.NewTransactor(db), sqlite.NewUserRepository(db))

	_, err := svc.CreateUser(context.Background(), user.CreateUserRequest{FullName: "Ana", Role: "owner"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "department_id")
	assert.Contains(t, verrs.ToMap(), "role")

	_, err = svc.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)

	// UpsertDepartment creates the department or renames an existing one
	UpsertDepartment(ctx context.Context, department Department) error
}

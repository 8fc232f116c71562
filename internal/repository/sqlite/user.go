package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

type userRepositoryImpl struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.full_name, u.department_id, u.role, u.created_at, u.updated_at, d.name
		FROM users u
		JOIN departments d ON d.id = u.department_id
		WHERE u.id = ?
	`

	var u user.User
	err := q.QueryRowContext(ctx, query, id).Scan(
		&u.ID,
		&u.FullName,
		&u.DepartmentID,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.DepartmentName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("get user %s: %w", id, err)
	}

	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	now := time.Now().UTC()
	if newUser.CreatedAt.IsZero() {
		newUser.CreatedAt = now
	}
	newUser.UpdatedAt = now

	query := `
		INSERT INTO users (id, full_name, department_id, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query,
		newUser.ID,
		newUser.FullName,
		newUser.DepartmentID,
		string(newUser.Role),
		newUser.CreatedAt,
		newUser.UpdatedAt,
	)
	if err != nil {
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	return r.GetByID(ctx, newUser.ID)
}

// UpsertDepartment implements user.UserRepository.
func (r *userRepositoryImpl) UpsertDepartment(ctx context.Context, department user.Department) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO departments (id, name) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name
	`
	if _, err := q.ExecContext(ctx, query, department.ID, department.Name); err != nil {
		return fmt.Errorf("upsert department %s: %w", department.ID, err)
	}
	return nil
}

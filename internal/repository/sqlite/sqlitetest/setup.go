// Package sqlitetest opens throwaway SQLite databases for tests.
package sqlitetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite"
	"github.com/stretchr/testify/require"
)

// Open creates a migrated database in the test's temp dir.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "attendance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, sqlite.Migrate(context.Background(), db))
	return db
}

// SeedUser inserts a user and its department.
func SeedUser(t testing.TB, db *sql.DB, id, name, departmentID string, role user.Role) user.User {
	t.Helper()

	ctx := context.Background()
	repo := sqlite.NewUserRepository(db)
	require.NoError(t, repo.UpsertDepartment(ctx, user.Department{ID: departmentID, Name: "Department " + departmentID}))

	u, err := repo.Create(ctx, user.User{
		ID:           id,
		FullName:     name,
		DepartmentID: departmentID,
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

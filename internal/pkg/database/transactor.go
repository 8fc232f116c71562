package database

import "context"

// Transactor runs a unit of work atomically. Repositories pick up the
// transaction from the context passed to fn.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// LockUser serializes mutations for one user until the surrounding
	// transaction ends. Must be called inside WithinTransaction.
	LockUser(ctx context.Context, userID string) error
}

package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Sees and decides everything
	RoleManager  Role = "manager"  // Department scope, cannot decide own requests
	RoleEmployee Role = "employee" // Own records only
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type Department struct {
	ID   string
	Name string
}

type User struct {
	ID           string
	FullName     string
	DepartmentID string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO / Join
	DepartmentName string
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if user manages a department
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// CanApprove checks if user can decide leave requests
func (u *User) CanApprove() bool {
	return HasPermission(u.Role, PermissionLeaveApprove)
}

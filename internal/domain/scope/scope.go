// Package scope resolves which users' records an actor may see or act on.
package scope

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

var ErrUnknownRole = errors.New("unknown role")

// Actor is the identity every core operation runs on behalf of.
type Actor struct {
	UserID       string
	Role         user.Role
	DepartmentID string
}

// Subject identifies the owner of a record being accessed.
type Subject struct {
	UserID       string
	DepartmentID string
}

// Filter is the row restriction for an actor. Nil fields do not restrict.
type Filter struct {
	UserID        *string
	DepartmentID  *string
	ExcludeUserID *string
}

// For returns the filter that applies to actor.
func For(actor Actor) (Filter, error) {
	switch actor.Role {
	case user.RoleAdmin:
		return Filter{}, nil
	case user.RoleManager:
		dept := actor.DepartmentID
		self := actor.UserID
		return Filter{DepartmentID: &dept, ExcludeUserID: &self}, nil
	case user.RoleEmployee:
		self := actor.UserID
		return Filter{UserID: &self}, nil
	default:
		return Filter{}, fmt.Errorf("%w: %q", ErrUnknownRole, actor.Role)
	}
}

// Allows reports whether a record owned by s is inside the filter.
func (f Filter) Allows(s Subject) bool {
	if f.UserID != nil && s.UserID != *f.UserID {
		return false
	}
	if f.DepartmentID != nil && s.DepartmentID != *f.DepartmentID {
		return false
	}
	if f.ExcludeUserID != nil && s.UserID == *f.ExcludeUserID {
		return false
	}
	return true
}

// Narrow intersects the filter with caller supplied user/department filters.
// The boolean is false when the intersection is provably empty.
func (f Filter) Narrow(userID, departmentID *string) (Filter, bool) {
	out := f
	if userID != nil {
		if f.UserID != nil && *f.UserID != *userID {
			return out, false
		}
		if f.ExcludeUserID != nil && *f.ExcludeUserID == *userID {
			return out, false
		}
		id := *userID
		out.UserID = &id
	}
	if departmentID != nil {
		if f.DepartmentID != nil && *f.DepartmentID != *departmentID {
			return out, false
		}
		id := *departmentID
		out.DepartmentID = &id
	}
	return out, true
}

// Own returns the actor's own identity as a subject.
func (a Actor) Own() Subject {
	return Subject{UserID: a.UserID, DepartmentID: a.DepartmentID}
}

// CanView reports whether actor may read a record owned by s: their own
// records always, others when the role scope allows.
func CanView(actor Actor, s Subject) (bool, error) {
	if s.UserID == actor.UserID {
		return true, nil
	}
	filter, err := For(actor)
	if err != nil {
		return false, err
	}
	return filter.Allows(s), nil
}

// ForListing resolves the row filter of a list request with optional caller
// filters. Asking for one's own rows uses the own-rows filter; anything else
// is narrowed from the role scope. The boolean is false when nothing can match.
func ForListing(actor Actor, userID, departmentID *string) (Filter, bool, error) {
	if userID != nil && *userID == actor.UserID {
		self := actor.UserID
		f := Filter{UserID: &self}
		if departmentID != nil && *departmentID != actor.DepartmentID {
			return f, false, nil
		}
		return f, true, nil
	}

	filter, err := For(actor)
	if err != nil {
		return Filter{}, false, err
	}
	narrowed, ok := filter.Narrow(userID, departmentID)
	return narrowed, ok, nil
}

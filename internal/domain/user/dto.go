package user

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name,omitempty"`
	Role           string `json:"role"`
	CreatedAt      string `json:"created_at"`
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	FullName       string `json:"full_name"`
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name,omitempty"`
	Role           string `json:"role"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full name is required",
		})
	}

	if validator.IsEmpty(r.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department_id",
			Message: ErrDepartmentIDRequired.Error(),
		})
	}

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	} else if !Role(r.Role).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: ErrInvalidRole.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		FullName:       u.FullName,
		DepartmentID:   u.DepartmentID,
		DepartmentName: u.DepartmentName,
		Role:           string(u.Role),
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
}

package user

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
)

type UserServiceImpl struct {
	db database.Transactor
	user.UserRepository
}

func NewUserService(db database.Transactor, userRepository user.UserRepository) user.UserService {
	return &UserServiceImpl{
		db:             db,
		UserRepository: userRepository,
	}
}

// CreateUser implements user.UserService.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("generate user id: %w", err)
	}

	departmentName := req.DepartmentName
	if departmentName == "" {
		departmentName = req.DepartmentID
	}

	var created user.User
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.UserRepository.UpsertDepartment(txCtx, user.Department{ID: req.DepartmentID, Name: departmentName}); err != nil {
			return err
		}
		created, err = s.UserRepository.Create(txCtx, user.User{
			ID:           id.String(),
			FullName:     req.FullName,
			DepartmentID: req.DepartmentID,
			Role:         user.Role(req.Role),
		})
		return err
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.ToResponse(created), nil
}

// GetUser implements user.UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

package service

import (
	"context"
	"errors"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	Status   string `json:"status"`
}

type UpdateUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email" binding:"omitempty,email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// DTO for returning User without exposing sensitive data
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// ErrSelfTarget guards the generic update/delete paths: a user may not
// deactivate, delete, or re-role their own account through them.
var ErrSelfTarget = errors.New("cannot perform this operation on your own account")

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, actor *model.User, req CreateUserRequest) (*UserResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, filters repository.UserFilters, offset, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actor *model.User, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actor *model.User, id string) error
}

type userService struct {
	repo  repository.UserRepository
	audit repository.AuditRepository
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, audit repository.AuditRepository) UserService {
	return &userService{repo: repo, audit: audit}
}

func mapUserToResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *userService) CreateUser(ctx context.Context, actor *model.User, req CreateUserRequest) (*UserResponse, error) {
	if !model.ValidRole(req.Role) {
		return nil, errors.New("invalid role: must be admin, manager, front_desk, or mechanic")
	}
	if req.Status == "" {
		req.Status = model.UserStatusActive
	}
	if !model.ValidUserStatus(req.Status) {
		return nil, errors.New("invalid status: must be active or inactive")
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     req.Role,
		Status:   req.Status,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if actor != nil {
		recordAudit(ctx, s.audit, &actor.ID, model.ActionCreateUser, user.ID.String(), user.Email)
	}

	resp := mapUserToResponse(user)
	return &resp, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	resp := mapUserToResponse(user)
	return &resp, nil
}

func (s *userService) ListUsers(ctx context.Context, filters repository.UserFilters, offset, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.repo.List(ctx, filters, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, mapUserToResponse(&users[i]))
	}

	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor *model.User, id string, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}

	// Admins may not strip or suspend their own account by accident.
	if actor != nil && actor.ID == user.ID && (req.Role != "" && req.Role != user.Role || req.Status == model.UserStatusInactive) {
		return nil, ErrSelfTarget
	}

	if req.Role != "" {
		if !model.ValidRole(req.Role) {
			return nil, errors.New("invalid role: must be admin, manager, front_desk, or mechanic")
		}
		user.Role = req.Role
	}

	if req.Status != "" {
		if !model.ValidUserStatus(req.Status) {
			return nil, errors.New("invalid status: must be active or inactive")
		}
		user.Status = req.Status
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, errors.New("email already exists")
		}
		user.Email = req.Email
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := mapUserToResponse(user)
	return &resp, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor *model.User, id string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.New("user not found")
	}

	if actor != nil && actor.ID == user.ID {
		return ErrSelfTarget
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if actor != nil {
		recordAudit(ctx, s.audit, &actor.ID, model.ActionDeleteUser, user.ID.String(), user.Email)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"garments-store/internal/dto"
	"garments-store/internal/model"
	"garments-store/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	Register(ctx context.Context, email string, req *dto.RegisterUserRequest) (*dto.RegisterUserResponse, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, query *dto.ListUsersQuery) (*dto.UserPage, error)
	UpdateStatus(ctx context.Context, userID string, req *dto.UpdateUserStatusRequest) (*model.User, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepository
	log      *slog.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	log *slog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		log:      log,
	}
}

// Register is idempotent on email: a second call reports the existing
// record and writes nothing.
func (s *userServiceImpl) Register(ctx context.Context, email string, req *dto.RegisterUserRequest) (*dto.RegisterUserResponse, error) {
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if role == model.RoleAdmin {
		return nil, fmt.Errorf("%w: admin role cannot be self-assigned", ErrForbidden)
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Email:    email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Role:     role,
		Status:   model.UserStatusPending,
	}

	inserted, err := s.userRepo.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if !inserted {
		return &dto.RegisterUserResponse{
			Message:  "user already exists",
			Inserted: false,
		}, nil
	}

	s.log.Info("user registered", "email", email, "role", role)
	return &dto.RegisterUserResponse{
		Message:  "user created",
		Inserted: true,
		User:     user,
	}, nil
}

func (s *userServiceImpl) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

func (s *userServiceImpl) List(ctx context.Context, query *dto.ListUsersQuery) (*dto.UserPage, error) {
	users, total, err := s.userRepo.List(ctx, repository.UserFilter{
		Role:   query.Role,
		Status: query.Status,
		Page:   repository.Page{Limit: query.Limit, Skip: query.Skip},
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &dto.UserPage{Users: users, Total: total}, nil
}

func (s *userServiceImpl) UpdateStatus(ctx context.Context, userID string, req *dto.UpdateUserStatusRequest) (*model.User, error) {
	updates := map[string]interface{}{
		"status":           req.Status,
		"rejection_reason": "",
	}
	if req.Status == model.UserStatusRejected {
		updates["rejection_reason"] = req.RejectionReason
	}
	if req.Feedback != "" {
		updates["feedback"] = req.Feedback
	}

	if _, err := s.userRepo.Update(ctx, userID, updates); err != nil {
		return nil, fmt.Errorf("update user status: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("reload user: %w", err)
	}

	s.log.Info("user status updated", "user_id", userID, "status", req.Status)
	return user, nil
}

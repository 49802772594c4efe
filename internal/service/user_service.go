package service

import (
	"context"
	"errors"

	"clinic_booking/internal/model"
	"clinic_booking/internal/repository"

	"github.com/jackc/pgx/v5"
)

// UserService covers patient profile operations.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, req model.UpdateUserProfileRequest) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrActorNotFound
	}
	return user, nil
}

// UpdateProfile applies a partial update carrying only changed fields and
// returns the fresh profile.
func (s *userService) UpdateProfile(ctx context.Context, userID string, req model.UpdateUserProfileRequest) (*model.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

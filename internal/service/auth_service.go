package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"clinic_booking/internal/model"
	"clinic_booking/internal/repository"
	"clinic_booking/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrUserAlreadyExists   = errors.New("account with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrActorNotFound       = errors.New("actor not found")
	ErrUnknownRole         = errors.New("unknown actor role")
)

// TokenPair is the access/refresh pair minted on login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService provides authentication for all three actor roles behind one
// interface: credential check, token pair minting, refresh, and logout.
type AuthService interface {
	RegisterUser(ctx context.Context, req model.RegisterUserRequest) (*model.User, *TokenPair, error)
	Login(ctx context.Context, role, email, password string) (string, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	doctorRepo repository.DoctorRepository
	adminRepo  repository.AdminRepository
	tokenRepo  repository.TokenRepository
	jwtUtil    *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	adminRepo repository.AdminRepository,
	tokenRepo repository.TokenRepository,
	jwtUtil *utils.JWTUtil,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		doctorRepo: doctorRepo,
		adminRepo:  adminRepo,
		tokenRepo:  tokenRepo,
		jwtUtil:    jwtUtil,
	}
}

// RegisterUser creates a patient account and logs it in.
func (s *authService) RegisterUser(ctx context.Context, req model.RegisterUserRequest) (*model.User, *TokenPair, error) {
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrUserAlreadyExists
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	pair, err := s.issueTokens(ctx, model.RoleUser, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login validates credentials for the given role and mints a token pair. The
// stored refresh token for the actor is overwritten, invalidating any earlier
// session.
func (s *authService) Login(ctx context.Context, role, email, password string) (string, *TokenPair, error) {
	actorID, hash, err := s.credentials(ctx, role, email)
	if err != nil {
		return "", nil, err
	}
	if actorID == "" || !utils.CheckPasswordHash(password, hash) {
		return "", nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, role, actorID)
	if err != nil {
		return "", nil, err
	}
	return actorID, pair, nil
}

func (s *authService) credentials(ctx context.Context, role, email string) (string, string, error) {
	switch role {
	case model.RoleUser:
		u, err := s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return "", "", fmt.Errorf("error finding user by email: %w", err)
		}
		if u == nil {
			return "", "", nil
		}
		return u.ID, u.PasswordHash, nil
	case model.RoleDoctor:
		d, err := s.doctorRepo.FindByEmail(ctx, email)
		if err != nil {
			return "", "", fmt.Errorf("error finding doctor by email: %w", err)
		}
		if d == nil {
			return "", "", nil
		}
		return d.ID, d.PasswordHash, nil
	case model.RoleAdmin:
		a, err := s.adminRepo.FindByEmail(ctx, email)
		if err != nil {
			return "", "", fmt.Errorf("error finding admin by email: %w", err)
		}
		if a == nil {
			return "", "", nil
		}
		return a.ID, a.PasswordHash, nil
	}
	return "", "", ErrUnknownRole
}

func (s *authService) issueTokens(ctx context.Context, role, actorID string) (*TokenPair, error) {
	access, err := s.jwtUtil.GenerateAccessToken(actorID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwtUtil.GenerateRefreshToken(actorID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(s.jwtUtil.RefreshTTL())
	if err := s.tokenRepo.Upsert(ctx, role, actorID, refresh, expiresAt); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// presented token must verify and be byte-equal to the single stored token
// for the claimed actor; the refresh token itself is not rotated.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtUtil.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	stored, err := s.tokenRepo.Find(ctx, claims.Role, claims.ActorID)
	if err != nil {
		return "", err
	}
	if stored == nil || subtle.ConstantTimeCompare([]byte(stored.Token), []byte(refreshToken)) != 1 {
		return "", ErrInvalidRefreshToken
	}

	if ok, err := s.actorExists(ctx, claims.Role, claims.ActorID); err != nil {
		return "", err
	} else if !ok {
		return "", ErrActorNotFound
	}

	access, err := s.jwtUtil.GenerateAccessToken(claims.ActorID, claims.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return access, nil
}

func (s *authService) actorExists(ctx context.Context, role, actorID string) (bool, error) {
	switch role {
	case model.RoleUser:
		u, err := s.userRepo.FindByID(ctx, actorID)
		return u != nil, err
	case model.RoleDoctor:
		d, err := s.doctorRepo.FindByID(ctx, actorID)
		return d != nil, err
	case model.RoleAdmin:
		// admins are never deleted at runtime
		return true, nil
	}
	return false, ErrUnknownRole
}

// Logout deletes the stored refresh token. A token that fails to parse or a
// key that is already absent is not an error: logout is idempotent.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtUtil.ValidateToken(refreshToken)
	if err != nil {
		return nil
	}
	return s.tokenRepo.Delete(ctx, claims.Role, claims.ActorID)
}

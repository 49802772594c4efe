package service

import (
	"context"
	"errors"
	"fmt"

	"clinic_booking/internal/model"
	"clinic_booking/internal/repository"
	"clinic_booking/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrDoctorAlreadyExists = errors.New("doctor with this email already exists")

// DoctorService covers doctor listing, profiles, and the admin-side doctor
// management operations.
type DoctorService interface {
	AddDoctor(ctx context.Context, req model.AddDoctorRequest) (*model.Doctor, error)
	ListDoctors(ctx context.Context) ([]model.Doctor, error)
	GetProfile(ctx context.Context, doctorID string) (*model.Doctor, error)
	UpdateProfile(ctx context.Context, doctorID string, req model.UpdateDoctorProfileRequest) (*model.Doctor, error)
	SetAvailability(ctx context.Context, doctorID string, available bool) error
}

type doctorService struct {
	doctorRepo repository.DoctorRepository
}

// NewDoctorService creates a new DoctorService
func NewDoctorService(doctorRepo repository.DoctorRepository) DoctorService {
	return &doctorService{doctorRepo: doctorRepo}
}

// AddDoctor onboards a doctor (admin operation).
func (s *doctorService) AddDoctor(ctx context.Context, req model.AddDoctorRequest) (*model.Doctor, error) {
	existing, err := s.doctorRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing doctor: %w", err)
	}
	if existing != nil {
		return nil, ErrDoctorAlreadyExists
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	doctor := &model.Doctor{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Specialty:    req.Specialty,
		Degree:       req.Degree,
		Experience:   req.Experience,
		About:        req.About,
		Fee:          req.Fee,
		Address:      req.Address,
		Image:        req.Image,
		Available:    true,
	}
	if err := s.doctorRepo.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor in repository: %w", err)
	}
	return doctor, nil
}

// ListDoctors returns all doctors with their booked slot maps. Password
// hashes never serialize (json:"-").
func (s *doctorService) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	return s.doctorRepo.List(ctx)
}

func (s *doctorService) GetProfile(ctx context.Context, doctorID string) (*model.Doctor, error) {
	doctor, err := s.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	slots, err := s.doctorRepo.SlotsBooked(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	doctor.SlotsBooked = slots
	return doctor, nil
}

// UpdateProfile applies a partial update and returns the fresh profile.
func (s *doctorService) UpdateProfile(ctx context.Context, doctorID string, req model.UpdateDoctorProfileRequest) (*model.Doctor, error) {
	if err := s.doctorRepo.UpdateProfile(ctx, doctorID, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return s.GetProfile(ctx, doctorID)
}

func (s *doctorService) SetAvailability(ctx context.Context, doctorID string, available bool) error {
	if err := s.doctorRepo.SetAvailability(ctx, doctorID, available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDoctorNotFound
		}
		return err
	}
	return nil
}

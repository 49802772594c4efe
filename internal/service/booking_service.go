package service

import (
	"context"
	"errors"
	"fmt"

	"clinic_booking/internal/model"
	"clinic_booking/internal/repository"
	"clinic_booking/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorUnavailable   = errors.New("doctor unavailable")
	ErrSlotTaken           = errors.New("slot not available")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAlreadyCancelled    = errors.New("appointment already cancelled")
	ErrAlreadyCompleted    = errors.New("appointment already completed")
	ErrForbidden           = errors.New("you do not have access to this resource")
)

// BookingService is the slot-booking core: it guarantees a doctor is never
// double-booked for the same (date, time) pair and that cancellation frees
// the slot.
type BookingService interface {
	BookSlot(ctx context.Context, userID, doctorID, slotDate, slotTime string) (*model.Appointment, error)
	CancelAppointment(ctx context.Context, appointmentID, requesterRole, requesterID string) error
	CompleteAppointment(ctx context.Context, appointmentID, doctorID string) error
	ListForUser(ctx context.Context, userID string) ([]model.Appointment, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]model.Appointment, error)
	ListAll(ctx context.Context) ([]model.Appointment, error)
}

type bookingService struct {
	apptRepo   repository.AppointmentRepository
	doctorRepo repository.DoctorRepository
	userRepo   repository.UserRepository
}

// NewBookingService creates a new BookingService
func NewBookingService(
	apptRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
) BookingService {
	return &bookingService{apptRepo: apptRepo, doctorRepo: doctorRepo, userRepo: userRepo}
}

// BookSlot validates the request and claims the slot. The slot claim is an
// atomic conditional insert, so two concurrent bookings of the same triple
// cannot both succeed; the loser gets ErrSlotTaken and nothing is written.
func (s *bookingService) BookSlot(ctx context.Context, userID, doctorID, slotDate, slotTime string) (*model.Appointment, error) {
	if _, err := utils.ParseSlotDate(slotDate); err != nil {
		return nil, err
	}
	if err := utils.ValidateSlotTime(slotTime); err != nil {
		return nil, err
	}

	doctor, err := s.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.Available {
		return nil, ErrDoctorUnavailable
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrActorNotFound
	}

	appt := &model.Appointment{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		DoctorID: doctor.ID,
		SlotDate: slotDate,
		SlotTime: slotTime,
		Amount:   doctor.Fee,
		UserData: model.UserSnapshot{
			Name:   user.Name,
			Email:  user.Email,
			Phone:  user.Phone,
			Dob:    user.Dob,
			Gender: user.Gender,
		},
		DoctorData: model.DoctorSnapshot{
			Name:      doctor.Name,
			Email:     doctor.Email,
			Specialty: doctor.Specialty,
			Fee:       doctor.Fee,
			Address:   doctor.Address,
		},
	}

	if err := s.apptRepo.Book(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrSlotConflict) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to book appointment: %w", err)
	}
	return appt, nil
}

// CancelAppointment cancels on behalf of the owning patient, the owning
// doctor, or the admin. Cancelling frees the slot; an appointment that is
// already cancelled or completed is rejected.
func (s *bookingService) CancelAppointment(ctx context.Context, appointmentID, requesterRole, requesterID string) error {
	appt, err := s.apptRepo.FindByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt == nil {
		return ErrAppointmentNotFound
	}

	switch requesterRole {
	case model.RoleUser:
		if appt.UserID != requesterID {
			return ErrForbidden
		}
	case model.RoleDoctor:
		if appt.DoctorID != requesterID {
			return ErrForbidden
		}
	case model.RoleAdmin:
		// admin may cancel any appointment
	default:
		return ErrForbidden
	}

	if appt.Cancelled {
		return ErrAlreadyCancelled
	}
	if appt.IsCompleted {
		return ErrAlreadyCompleted
	}

	if err := s.apptRepo.Cancel(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrNotMutable) {
			// lost a race with another cancel or a completion
			return ErrAlreadyCancelled
		}
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return nil
}

// CompleteAppointment marks the doctor's own appointment as done. The slot
// stays marked used historically.
func (s *bookingService) CompleteAppointment(ctx context.Context, appointmentID, doctorID string) error {
	appt, err := s.apptRepo.FindByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt == nil {
		return ErrAppointmentNotFound
	}
	if appt.DoctorID != doctorID {
		return ErrForbidden
	}
	if appt.Cancelled {
		return ErrAlreadyCancelled
	}
	if appt.IsCompleted {
		return ErrAlreadyCompleted
	}

	if err := s.apptRepo.Complete(ctx, appointmentID, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotMutable) {
			return ErrAlreadyCompleted
		}
		return fmt.Errorf("failed to complete appointment: %w", err)
	}
	return nil
}

func (s *bookingService) ListForUser(ctx context.Context, userID string) ([]model.Appointment, error) {
	return s.apptRepo.ListByUser(ctx, userID)
}

func (s *bookingService) ListForDoctor(ctx context.Context, doctorID string) ([]model.Appointment, error) {
	return s.apptRepo.ListByDoctor(ctx, doctorID)
}

func (s *bookingService) ListAll(ctx context.Context) ([]model.Appointment, error) {
	return s.apptRepo.ListAll(ctx)
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"clinic_booking/internal/model"

	"github.com/jackc/pgx/v5"
)

var (
	// ErrSlotConflict is returned when the slot insert hits the unique
	// constraint: the (doctor, date, time) triple is already taken.
	ErrSlotConflict = errors.New("slot already booked")
	// ErrNotMutable is returned when a guarded flag update matches no row,
	// meaning the appointment was already cancelled or completed.
	ErrNotMutable = errors.New("appointment not in a mutable state")
)

// AppointmentRepository defines operations for appointment data
type AppointmentRepository interface {
	Book(ctx context.Context, a *model.Appointment) error
	FindByID(ctx context.Context, id string) (*model.Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]model.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]model.Appointment, error)
	ListAll(ctx context.Context) ([]model.Appointment, error)
	Cancel(ctx context.Context, a *model.Appointment) error
	Complete(ctx context.Context, id, doctorID string) error
}

type appointmentRepository struct {
	db DB
}

// NewAppointmentRepository creates a new AppointmentRepository
func NewAppointmentRepository(db DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Book claims the slot and records the appointment in a single transaction.
// The slot insert uses ON CONFLICT DO NOTHING; zero rows affected means the
// slot was taken by a concurrent booking and the transaction is rolled back
// without writing anything.
func (r *appointmentRepository) Book(ctx context.Context, a *model.Appointment) error {
	userData, err := json.Marshal(a.UserData)
	if err != nil {
		return fmt.Errorf("failed to marshal user snapshot: %w", err)
	}
	doctorData, err := json.Marshal(a.DoctorData)
	if err != nil {
		return fmt.Errorf("failed to marshal doctor snapshot: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO doctor_slots (doctor_id, slot_date, slot_time) VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		a.DoctorID, a.SlotDate, a.SlotTime,
	)
	if err != nil {
		return fmt.Errorf("failed to claim slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotConflict
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO appointments (id, user_id, doctor_id, slot_date, slot_time, amount, user_data, doctor_data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING booked_at`,
		a.ID, a.UserID, a.DoctorID, a.SlotDate, a.SlotTime, a.Amount, userData, doctorData,
	).Scan(&a.BookedAt)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	return tx.Commit(ctx)
}

const appointmentColumns = `id, user_id, doctor_id, slot_date, slot_time, amount, cancelled, is_completed, user_data, doctor_data, booked_at`

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	a := &model.Appointment{}
	var userData, doctorData []byte
	err := row.Scan(
		&a.ID, &a.UserID, &a.DoctorID, &a.SlotDate, &a.SlotTime, &a.Amount,
		&a.Cancelled, &a.IsCompleted, &userData, &doctorData, &a.BookedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(userData, &a.UserData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user snapshot: %w", err)
	}
	if err := json.Unmarshal(doctorData, &a.DoctorData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal doctor snapshot: %w", err)
	}
	return a, nil
}

// FindByID retrieves an appointment by its ID. Not found is (nil, nil).
func (r *appointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	a, err := scanAppointment(r.db.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find appointment by ID: %w", err)
	}
	return a, nil
}

func (r *appointmentRepository) list(ctx context.Context, sql string, args ...any) ([]model.Appointment, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a := model.Appointment{}
		var userData, doctorData []byte
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.DoctorID, &a.SlotDate, &a.SlotTime, &a.Amount,
			&a.Cancelled, &a.IsCompleted, &userData, &doctorData, &a.BookedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan appointment row: %w", err)
		}
		if err := json.Unmarshal(userData, &a.UserData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user snapshot: %w", err)
		}
		if err := json.Unmarshal(doctorData, &a.DoctorData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal doctor snapshot: %w", err)
		}
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointment rows: %w", err)
	}
	return out, nil
}

// ListByUser retrieves a patient's appointments, newest first.
func (r *appointmentRepository) ListByUser(ctx context.Context, userID string) ([]model.Appointment, error) {
	return r.list(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE user_id = $1 ORDER BY booked_at DESC`,
		userID)
}

// ListByDoctor retrieves a doctor's appointments, newest first.
func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID string) ([]model.Appointment, error) {
	return r.list(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE doctor_id = $1 ORDER BY booked_at DESC`,
		doctorID)
}

// ListAll retrieves every appointment (admin view), newest first.
func (r *appointmentRepository) ListAll(ctx context.Context) ([]model.Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY booked_at DESC`)
}

// Cancel flips the cancelled flag and frees the slot in one transaction.
// The WHERE guard makes concurrent double-cancels lose cleanly instead of
// freeing a slot twice.
func (r *appointmentRepository) Cancel(ctx context.Context, a *model.Appointment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin cancel transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE appointments SET cancelled = TRUE
		 WHERE id = $1 AND cancelled = FALSE AND is_completed = FALSE`,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotMutable
	}

	// Filter-out semantics: removes every matching occurrence, though the
	// unique constraint guarantees there is exactly one.
	_, err = tx.Exec(ctx,
		`DELETE FROM doctor_slots WHERE doctor_id = $1 AND slot_date = $2 AND slot_time = $3`,
		a.DoctorID, a.SlotDate, a.SlotTime,
	)
	if err != nil {
		return fmt.Errorf("failed to free slot: %w", err)
	}

	return tx.Commit(ctx)
}

// Complete marks the appointment done. The slot stays occupied so the
// booking remains visible historically.
func (r *appointmentRepository) Complete(ctx context.Context, id, doctorID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET is_completed = TRUE
		 WHERE id = $1 AND doctor_id = $2 AND cancelled = FALSE AND is_completed = FALSE`,
		id, doctorID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotMutable
	}
	return nil
}

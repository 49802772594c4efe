package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic_booking/internal/model"

	"github.com/jackc/pgx/v5"
)

// DoctorRepository defines operations for doctor data
type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	FindByEmail(ctx context.Context, email string) (*model.Doctor, error)
	FindByID(ctx context.Context, id string) (*model.Doctor, error)
	List(ctx context.Context) ([]model.Doctor, error)
	SetAvailability(ctx context.Context, id string, available bool) error
	UpdateProfile(ctx context.Context, id string, req model.UpdateDoctorProfileRequest) error
	SlotsBooked(ctx context.Context, doctorID string) (map[string][]string, error)
}

type doctorRepository struct {
	db DB
}

// NewDoctorRepository creates a new DoctorRepository
func NewDoctorRepository(db DB) DoctorRepository {
	return &doctorRepository{db: db}
}

const doctorColumns = `id, name, email, password_hash, specialty, degree, experience, about, fee, address, image, available, created_at, updated_at`

func scanDoctor(row pgx.Row) (*model.Doctor, error) {
	d := &model.Doctor{}
	err := row.Scan(
		&d.ID, &d.Name, &d.Email, &d.PasswordHash, &d.Specialty, &d.Degree,
		&d.Experience, &d.About, &d.Fee, &d.Address, &d.Image, &d.Available,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts a new doctor into the database
func (r *doctorRepository) Create(ctx context.Context, d *model.Doctor) error {
	sql := `INSERT INTO doctors (id, name, email, password_hash, specialty, degree, experience, about, fee, address, image, available)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		d.ID, d.Name, d.Email, d.PasswordHash, d.Specialty, d.Degree,
		d.Experience, d.About, d.Fee, d.Address, d.Image, d.Available,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

// FindByEmail retrieves a doctor by email. Not found is (nil, nil).
func (r *doctorRepository) FindByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	sql := `SELECT ` + doctorColumns + ` FROM doctors WHERE email = $1`
	d, err := scanDoctor(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find doctor by email: %w", err)
	}
	return d, nil
}

// FindByID retrieves a doctor by their ID
func (r *doctorRepository) FindByID(ctx context.Context, id string) (*model.Doctor, error) {
	sql := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`
	d, err := scanDoctor(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find doctor by ID: %w", err)
	}
	return d, nil
}

// List retrieves all doctors together with their booked slot maps.
func (r *doctorRepository) List(ctx context.Context) ([]model.Doctor, error) {
	rows, err := r.db.Query(ctx, `SELECT `+doctorColumns+` FROM doctors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query doctors: %w", err)
	}
	defer rows.Close()

	var doctors []model.Doctor
	for rows.Next() {
		d := model.Doctor{}
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Email, &d.PasswordHash, &d.Specialty, &d.Degree,
			&d.Experience, &d.About, &d.Fee, &d.Address, &d.Image, &d.Available,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan doctor row: %w", err)
		}
		doctors = append(doctors, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doctor rows: %w", err)
	}

	for i := range doctors {
		slots, err := r.SlotsBooked(ctx, doctors[i].ID)
		if err != nil {
			return nil, err
		}
		doctors[i].SlotsBooked = slots
	}
	return doctors, nil
}

// SetAvailability toggles whether the doctor can be booked.
func (r *doctorRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE doctors SET available = $2, updated_at = NOW() WHERE id = $1`, id, available)
	if err != nil {
		return fmt.Errorf("failed to set doctor availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateProfile applies a partial update: only non-nil request fields are
// written.
func (r *doctorRepository) UpdateProfile(ctx context.Context, id string, req model.UpdateDoctorProfileRequest) error {
	var setClauses []string
	args := []any{id}
	argCount := 2

	add := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if req.Fee != nil {
		add("fee", *req.Fee)
	}
	if req.About != nil {
		add("about", *req.About)
	}
	if req.Address != nil {
		add("address", *req.Address)
	}
	if req.Available != nil {
		add("available", *req.Available)
	}
	if req.Image != nil {
		add("image", *req.Image)
	}

	if len(setClauses) == 0 {
		return nil
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	sql := fmt.Sprintf("UPDATE doctors SET %s WHERE id = $1", strings.Join(setClauses, ", "))
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update doctor profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SlotsBooked assembles the date -> times map from the doctor_slots table.
func (r *doctorRepository) SlotsBooked(ctx context.Context, doctorID string) (map[string][]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT slot_date, slot_time FROM doctor_slots WHERE doctor_id = $1 ORDER BY slot_date, slot_time`,
		doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query booked slots: %w", err)
	}
	defer rows.Close()

	slots := make(map[string][]string)
	for rows.Next() {
		var date, t string
		if err := rows.Scan(&date, &t); err != nil {
			return nil, fmt.Errorf("failed to scan slot row: %w", err)
		}
		slots[date] = append(slots[date], t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slot rows: %w", err)
	}
	return slots, nil
}

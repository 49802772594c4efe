package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic_booking/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for patient data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, req model.UpdateUserProfileRequest) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (id, name, email, password_hash, phone, dob, gender, address_line1, address_line2, image)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Phone, user.Dob,
		user.Gender, user.AddressLine1, user.AddressLine2, user.Image,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email. Not found is (nil, nil); the service
// layer decides whether that is an error.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, name, email, password_hash, phone, dob, gender, address_line1, address_line2, image, created_at, updated_at
            FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, sql, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone, &user.Dob,
		&user.Gender, &user.AddressLine1, &user.AddressLine2, &user.Image,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, name, email, password_hash, phone, dob, gender, address_line1, address_line2, image, created_at, updated_at
            FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone, &user.Dob,
		&user.Gender, &user.AddressLine1, &user.AddressLine2, &user.Image,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a partial update: only non-nil request fields are
// written.
func (r *userRepository) UpdateProfile(ctx context.Context, id string, req model.UpdateUserProfileRequest) error {
	var setClauses []string
	args := []any{id}
	argCount := 2 // Start after id

	add := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Dob != nil {
		add("dob", *req.Dob)
	}
	if req.Gender != nil {
		add("gender", *req.Gender)
	}
	if req.AddressLine1 != nil {
		add("address_line1", *req.AddressLine1)
	}
	if req.AddressLine2 != nil {
		add("address_line2", *req.AddressLine2)
	}
	if req.Image != nil {
		add("image", *req.Image)
	}

	if len(setClauses) == 0 {
		return nil // nothing to update
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	sql := fmt.Sprintf("UPDATE users SET %s WHERE id = $1", strings.Join(setClauses, ", "))
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"clinic_booking/internal/model"

	"github.com/jackc/pgx/v5"
)

// AdminRepository defines operations for admin credential records
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	Count(ctx context.Context) (int, error)
}

type adminRepository struct {
	db DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO admins (id, email, password_hash) VALUES ($1, $2, $3)`,
		admin.ID, admin.Email, admin.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// FindByEmail retrieves an admin by email. Not found is (nil, nil).
func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	admin := &model.Admin{}
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash FROM admins WHERE email = $1`, email,
	).Scan(&admin.ID, &admin.Email, &admin.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find admin by email: %w", err)
	}
	return admin, nil
}

func (r *adminRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}

package model

import "time"

// User represents a patient account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Phone        string    `json:"phone"`
	Dob          string    `json:"dob"`
	Gender       string    `json:"gender"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 string    `json:"address_line2"`
	Image        string    `json:"image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterUserRequest is the payload for user self-registration.
type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateUserProfileRequest carries only the fields the client wants changed.
// Nil means "leave as is".
type UpdateUserProfileRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Dob          *string `json:"dob"`
	Gender       *string `json:"gender"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	Image        *string `json:"image"`
}

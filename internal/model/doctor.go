package model

import "time"

// Doctor represents a practitioner account. SlotsBooked maps a slot date key
// ("day_month_year", no zero padding) to the list of times already taken on
// that date; it is assembled from the doctor_slots table, not stored inline.
type Doctor struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	PasswordHash string              `json:"-"`
	Specialty    string              `json:"specialty"`
	Degree       string              `json:"degree"`
	Experience   string              `json:"experience"`
	About        string              `json:"about"`
	Fee          int64               `json:"fee"` // in smallest currency unit
	Address      string              `json:"address"`
	Image        string              `json:"image"`
	Available    bool                `json:"available"`
	SlotsBooked  map[string][]string `json:"slots_booked,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// AddDoctorRequest is the admin payload for onboarding a doctor.
type AddDoctorRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Specialty  string `json:"specialty" binding:"required"`
	Degree     string `json:"degree" binding:"required"`
	Experience string `json:"experience"`
	About      string `json:"about"`
	Fee        int64  `json:"fee" binding:"required,min=0"`
	Address    string `json:"address"`
	Image      string `json:"image"`
}

// UpdateDoctorProfileRequest carries only changed fields; nil leaves a field
// untouched.
type UpdateDoctorProfileRequest struct {
	Fee       *int64  `json:"fee"`
	About     *string `json:"about"`
	Address   *string `json:"address"`
	Available *bool   `json:"available"`
	Image     *string `json:"image"`
}

package model

import "time"

// UserSnapshot is the patient data denormalized onto an appointment at
// booking time.
type UserSnapshot struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Dob    string `json:"dob"`
	Gender string `json:"gender"`
}

// DoctorSnapshot is the doctor data denormalized onto an appointment at
// booking time.
type DoctorSnapshot struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Specialty string `json:"specialty"`
	Fee       int64  `json:"fee"`
	Address   string `json:"address"`
}

// Appointment is one booked slot. Appointments are soft-state only: they are
// flagged cancelled or completed, never deleted.
type Appointment struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	DoctorID    string         `json:"doctor_id"`
	SlotDate    string         `json:"slot_date"` // "day_month_year", no zero padding
	SlotTime    string         `json:"slot_time"` // "hh:mm AM/PM"
	Amount      int64          `json:"amount"`
	Cancelled   bool           `json:"cancelled"`
	IsCompleted bool           `json:"is_completed"`
	UserData    UserSnapshot   `json:"user_data"`
	DoctorData  DoctorSnapshot `json:"doctor_data"`
	BookedAt    time.Time      `json:"booked_at"`
}

// BookAppointmentRequest is the payload for booking a slot.
type BookAppointmentRequest struct {
	DoctorID string `json:"doctor_id" binding:"required"`
	SlotDate string `json:"slot_date" binding:"required"`
	SlotTime string `json:"slot_time" binding:"required"`
}

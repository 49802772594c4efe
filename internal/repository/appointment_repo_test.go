package repository

import (
	"context"
	"testing"
	"time"

	"clinic_booking/internal/model"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppointment() *model.Appointment {
	return &model.Appointment{
		ID:       "appt-1",
		UserID:   "user-1",
		DoctorID: "doc-1",
		SlotDate: "5_6_2025",
		SlotTime: "10:00 AM",
		Amount:   5000,
		UserData: model.UserSnapshot{Name: "Jane Doe", Email: "jane@example.com"},
		DoctorData: model.DoctorSnapshot{
			Name: "Dr. Smith", Email: "smith@example.com", Specialty: "dermatology", Fee: 5000,
		},
	}
}

func TestAppointmentRepository_Book(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAppointmentRepository(mock)
	appt := testAppointment()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO doctor_slots").
		WithArgs(appt.DoctorID, appt.SlotDate, appt.SlotTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(appt.ID, appt.UserID, appt.DoctorID, appt.SlotDate, appt.SlotTime,
			appt.Amount, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"booked_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	err = repo.Book(context.Background(), appt)
	assert.NoError(t, err)
	assert.False(t, appt.BookedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_Book_SlotConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAppointmentRepository(mock)
	appt := testAppointment()

	// ON CONFLICT DO NOTHING affects zero rows when the slot is taken; the
	// appointment insert must never run.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO doctor_slots").
		WithArgs(appt.DoctorID, appt.SlotDate, appt.SlotTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectRollback()

	err = repo.Book(context.Background(), appt)
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_Cancel(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAppointmentRepository(mock)
	appt := testAppointment()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE appointments SET cancelled").
		WithArgs(appt.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM doctor_slots").
		WithArgs(appt.DoctorID, appt.SlotDate, appt.SlotTime).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err = repo.Cancel(context.Background(), appt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_Cancel_AlreadyCancelled(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAppointmentRepository(mock)
	appt := testAppointment()

	// The guarded update matches no row, so the slot delete must not run and
	// no second slot is ever freed.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE appointments SET cancelled").
		WithArgs(appt.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err = repo.Cancel(context.Background(), appt)
	assert.ErrorIs(t, err, ErrNotMutable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_Complete_NotMutable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAppointmentRepository(mock)

	mock.ExpectExec("UPDATE appointments SET is_completed").
		WithArgs("appt-1", "doc-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.Complete(context.Background(), "appt-1", "doc-1")
	assert.ErrorIs(t, err, ErrNotMutable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

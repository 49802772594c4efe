package repository

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorRepository_SlotsBooked(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDoctorRepository(mock)

	mock.ExpectQuery("SELECT slot_date, slot_time FROM doctor_slots").
		WithArgs("doc-1").
		WillReturnRows(pgxmock.NewRows([]string{"slot_date", "slot_time"}).
			AddRow("5_6_2025", "10:00 AM").
			AddRow("5_6_2025", "11:30 AM").
			AddRow("6_6_2025", "09:00 AM"))

	slots, err := repo.SlotsBooked(context.Background(), "doc-1")
	require.NoError(t, err)

	// times group under their date key, in query order within a date
	assert.Equal(t, map[string][]string{
		"5_6_2025": {"10:00 AM", "11:30 AM"},
		"6_6_2025": {"09:00 AM"},
	}, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorRepository_SlotsBooked_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDoctorRepository(mock)

	mock.ExpectQuery("SELECT slot_date, slot_time FROM doctor_slots").
		WithArgs("doc-1").
		WillReturnRows(pgxmock.NewRows([]string{"slot_date", "slot_time"}))

	slots, err := repo.SlotsBooked(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

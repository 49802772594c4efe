package service

import (
	"context"
	"testing"

	"clinic_booking/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDoctor(t *testing.T) {
	repo := &fakeDoctorRepo{doctors: make(map[string]*model.Doctor)}
	svc := NewDoctorService(repo)
	ctx := context.Background()

	req := model.AddDoctorRequest{
		Name: "Dr. Smith", Email: "smith@example.com", Password: "long-enough-pw",
		Specialty: "dermatology", Degree: "MD", Fee: 5000,
	}
	doctor, err := svc.AddDoctor(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, doctor.ID)
	assert.True(t, doctor.Available, "new doctors start bookable")
	assert.NotEqual(t, "long-enough-pw", doctor.PasswordHash)

	_, err = svc.AddDoctor(ctx, req)
	assert.ErrorIs(t, err, ErrDoctorAlreadyExists)
}

func TestDoctorGetProfile(t *testing.T) {
	repo := &fakeDoctorRepo{doctors: map[string]*model.Doctor{
		"doc-1": {ID: "doc-1", Name: "Dr. Smith", Available: true},
	}}
	svc := NewDoctorService(repo)
	ctx := context.Background()

	doctor, err := svc.GetProfile(ctx, "doc-1")
	require.NoError(t, err)
	assert.NotNil(t, doctor.SlotsBooked)

	_, err = svc.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestDoctorSetAvailability(t *testing.T) {
	repo := &fakeDoctorRepo{doctors: map[string]*model.Doctor{
		"doc-1": {ID: "doc-1", Name: "Dr. Smith", Available: true},
	}}
	svc := NewDoctorService(repo)
	ctx := context.Background()

	require.NoError(t, svc.SetAvailability(ctx, "doc-1", false))
	assert.False(t, repo.doctors["doc-1"].Available)
}

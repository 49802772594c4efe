package service

import (
	"context"
	"testing"
	"time"

	"clinic_booking/internal/model"
	"clinic_booking/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminRepo struct {
	admins map[string]*model.Admin
}

func (f *fakeAdminRepo) Create(_ context.Context, a *model.Admin) error {
	f.admins[a.ID] = a
	return nil
}

func (f *fakeAdminRepo) FindByEmail(_ context.Context, email string) (*model.Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAdminRepo) Count(_ context.Context) (int, error) {
	return len(f.admins), nil
}

type fakeTokenRepo struct {
	tokens map[string]*model.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*model.RefreshToken)}
}

func tokenKey(role, actorID string) string { return role + "|" + actorID }

func (f *fakeTokenRepo) Upsert(_ context.Context, role, actorID, token string, expiresAt time.Time) error {
	f.tokens[tokenKey(role, actorID)] = &model.RefreshToken{
		ActorRole: role, ActorID: actorID, Token: token, ExpiresAt: expiresAt,
	}
	return nil
}

func (f *fakeTokenRepo) Find(_ context.Context, role, actorID string) (*model.RefreshToken, error) {
	rt, ok := f.tokens[tokenKey(role, actorID)]
	if !ok || time.Now().After(rt.ExpiresAt) {
		return nil, nil
	}
	return rt, nil
}

func (f *fakeTokenRepo) Delete(_ context.Context, role, actorID string) error {
	delete(f.tokens, tokenKey(role, actorID))
	return nil
}

func newAuthFixture(t *testing.T) (AuthService, *fakeTokenRepo, *utils.JWTUtil) {
	t.Helper()

	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)

	userRepo := &fakeUserRepo{users: map[string]*model.User{
		"user-1": {ID: "user-1", Name: "Jane Doe", Email: "jane@example.com", PasswordHash: hash},
	}}
	doctorRepo := &fakeDoctorRepo{doctors: map[string]*model.Doctor{
		"doc-1": {ID: "doc-1", Name: "Dr. Smith", Email: "smith@example.com", PasswordHash: hash, Available: true},
	}}
	adminRepo := &fakeAdminRepo{admins: map[string]*model.Admin{
		"admin-1": {ID: "admin-1", Email: "admin@example.com", PasswordHash: hash},
	}}
	tokenRepo := newFakeTokenRepo()
	jwtUtil := utils.NewJWTUtil("test-secret", 15*time.Minute, 7*24*time.Hour)

	svc := NewAuthService(userRepo, doctorRepo, adminRepo, tokenRepo, jwtUtil)
	return svc, tokenRepo, jwtUtil
}

func TestRegisterUser(t *testing.T) {
	svc, tokens, jwtUtil := newAuthFixture(t)
	ctx := context.Background()

	user, pair, err := svc.RegisterUser(ctx, model.RegisterUserRequest{
		Name: "New Patient", Email: "new@example.com", Password: "long-enough-pw",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, pair)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "long-enough-pw", user.PasswordHash)

	claims, err := jwtUtil.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.ActorID)
	assert.Equal(t, model.RoleUser, claims.Role)

	stored, err := tokens.Find(ctx, model.RoleUser, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, pair.RefreshToken, stored.Token)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, _, err := svc.RegisterUser(context.Background(), model.RegisterUserRequest{
		Name: "Dup", Email: "jane@example.com", Password: "long-enough-pw",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin_AllRoles(t *testing.T) {
	svc, _, jwtUtil := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		role  string
		email string
		id    string
	}{
		{model.RoleUser, "jane@example.com", "user-1"},
		{model.RoleDoctor, "smith@example.com", "doc-1"},
		{model.RoleAdmin, "admin@example.com", "admin-1"},
	}
	for _, tc := range cases {
		actorID, pair, err := svc.Login(ctx, tc.role, tc.email, "correct-horse")
		require.NoError(t, err, tc.role)
		assert.Equal(t, tc.id, actorID)

		claims, err := jwtUtil.ValidateToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, tc.role, claims.Role)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, model.RoleUser, "jane@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// unknown email gets the same error as a wrong password
	_, _, err = svc.Login(ctx, model.RoleUser, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "superuser", "jane@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRefresh(t *testing.T) {
	svc, _, jwtUtil := newAuthFixture(t)
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, model.RoleUser, "jane@example.com", "correct-horse")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := jwtUtil.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ActorID)
}

func TestRefresh_LoginOverwritesOldToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, first, err := svc.Login(ctx, model.RoleUser, "jane@example.com", "correct-horse")
	require.NoError(t, err)

	// a second login replaces the stored token
	time.Sleep(1100 * time.Millisecond) // iat has second precision; force a distinct token
	_, second, err := svc.Login(ctx, model.RoleUser, "jane@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_RejectsGarbageAndAccessTokenMismatch(t *testing.T) {
	svc, _, jwtUtil := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// a well-formed token that was never stored does not pass the byte check
	stray, err := jwtUtil.GenerateRefreshToken("user-1", model.RoleUser)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, stray)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogout_Idempotent(t *testing.T) {
	svc, tokens, _ := newAuthFixture(t)
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, model.RoleUser, "jane@example.com", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	stored, err := tokens.Find(ctx, model.RoleUser, "user-1")
	require.NoError(t, err)
	assert.Nil(t, stored)

	// repeated and garbage logouts succeed quietly
	assert.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	assert.NoError(t, svc.Logout(ctx, "not-a-jwt"))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

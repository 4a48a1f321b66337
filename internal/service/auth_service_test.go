package service

import (
	"context"
	"testing"
	"time"

	"employee-management/internal/config"
	"employee-management/internal/dto"
	"employee-management/internal/repository"
	"employee-management/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (AuthService, repository.UserRepository) {
	t.Helper()

	db := openTestDB(t)
	userRepo := repository.NewUserRepository(db)

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		AccessTTL:      time.Hour,
		RefreshTTL:     7 * 24 * time.Hour,
		RateLimitLogin: 30 * time.Second,
	}

	// No redis and no blob store: token rotation and pictures degrade
	// gracefully, everything else must still work.
	return NewAuthService(userRepo, nil, nil, cfg), userRepo
}

func registerRequest(username string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "secret123",
		FirstName: "Test",
		LastName:  "User",
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	svc, userRepo := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.EqualValues(t, 3600, resp.ExpiresIn)
	require.NotNil(t, resp.User)

	stored, err := userRepo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash, "passwords are stored hashed")

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
}

func TestAuthRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("alice"))
	ve, ok := apperror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "username")

	dupEmail := registerRequest("bob")
	dupEmail.Email = "alice@example.com"
	_, err = svc.Register(ctx, dupEmail)
	ve, ok = apperror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "email")
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAuthRefresh(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, registered.User.ID, refreshed.User.ID)

	_, err = svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAuthLogoutRejectsGarbageToken(t *testing.T) {
	svc, _ := newAuthService(t)

	err := svc.Logout(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAuthChangePassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)
	userID := registered.User.ID

	err = svc.ChangePassword(ctx, userID, dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newsecret456",
	})
	ve, ok := apperror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "old_password")

	err = svc.ChangePassword(ctx, userID, dto.ChangePasswordRequest{
		OldPassword: "secret123",
		NewPassword: "newsecret456",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "newsecret456"})
	assert.NoError(t, err)
}

func TestAuthUpdateProfile(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)
	userID := registered.User.ID

	firstName := "Alicia"
	phone := "555-0100"
	dob := "1990-04-15"
	user, err := svc.UpdateProfile(ctx, userID, dto.UpdateProfileRequest{
		FirstName:   &firstName,
		PhoneNumber: &phone,
		DateOfBirth: &dob,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Alicia", user.FirstName)
	require.NotNil(t, user.PhoneNumber)
	assert.Equal(t, "555-0100", *user.PhoneNumber)
	require.NotNil(t, user.DateOfBirth)
	assert.Equal(t, 1990, user.DateOfBirth.Year())

	badDob := "15/04/1990"
	_, err = svc.UpdateProfile(ctx, userID, dto.UpdateProfileRequest{DateOfBirth: &badDob}, nil)
	ve, ok := apperror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "date_of_birth")
}

func TestAuthUpdateProfileRejectsTakenEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)
	bob, err := svc.Register(ctx, registerRequest("bob"))
	require.NoError(t, err)

	taken := "alice@example.com"
	_, err = svc.UpdateProfile(ctx, bob.User.ID, dto.UpdateProfileRequest{Email: &taken}, nil)
	ve, ok := apperror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "email")
}

func TestAuthGetProfileMissing(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

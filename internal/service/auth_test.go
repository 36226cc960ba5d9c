package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

func newAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	return service.NewAuthService(newTestDB(t), nil, "test-secret", time.Hour)
}

func registerRequest(username string) types.RegisterRequest {
	return types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "s3cure-password",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	token, user, err := svc.Register(ctx(), registerRequest("alice"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	loginToken, err := svc.Login(ctx(), "alice@example.com", "s3cure-password")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.Register(ctx(), registerRequest("alice"))
	require.NoError(t, err)

	dup := registerRequest("bob")
	dup.Email = "alice@example.com"
	_, _, err = svc.Register(ctx(), dup)

	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Field)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.Register(ctx(), registerRequest("alice"))
	require.NoError(t, err)

	dup := registerRequest("alice")
	dup.Email = "other@example.com"
	_, _, err = svc.Register(ctx(), dup)

	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "username", verr.Field)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.Register(ctx(), registerRequest("alice"))
	require.NoError(t, err)

	_, err = svc.Login(ctx(), "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx(), "nobody@example.com", "s3cure-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejectsForgery(t *testing.T) {
	svc := newAuthService(t)

	token, _, err := svc.Register(ctx(), registerRequest("alice"))
	require.NoError(t, err)

	other := service.NewAuthService(newTestDB(t), nil, "different-secret", time.Hour)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestLogoutWithoutRevocationStore(t *testing.T) {
	svc := newAuthService(t)

	token, _, err := svc.Register(ctx(), registerRequest("alice"))
	require.NoError(t, err)

	assert.Error(t, svc.Logout(ctx(), token))
}

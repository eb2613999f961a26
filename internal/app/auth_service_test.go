package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"warbler/internal/model"
)

func newAuthService(state *memState) *AuthService {
	return NewAuthService(memUsers{state}, "test-secret", time.Hour, "", "")
}

func TestRegisterThenLogin(t *testing.T) {
	state := newMemState()
	svc := newAuthService(state)

	result, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "alice", result.User.Username)
	require.Equal(t, "alice@example.com", result.User.Email)
	require.Equal(t, model.DefaultImageURL, result.User.ImageURL)
	require.Equal(t, model.DefaultHeaderImageURL, result.User.HeaderImageURL)

	login, err := svc.Login(LoginInput{Username: "alice", Password: "hunter2hunter2"})
	require.NoError(t, err)
	require.Equal(t, result.User.ID, login.User.ID)
}

func TestRegisterKeepsCustomImageURL(t *testing.T) {
	state := newMemState()
	svc := newAuthService(state)

	result, err := svc.Register(RegisterInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "hunter2hunter2",
		ImageURL: "/static/images/bob.png",
	})
	require.NoError(t, err)
	require.Equal(t, "/static/images/bob.png", result.User.ImageURL)
}

func TestRegisterDuplicateSurfacesConstraint(t *testing.T) {
	state := newMemState()
	svc := newAuthService(state)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Username: "alice", Email: "other@example.com", Password: "hunter2hunter2"})
	require.ErrorIs(t, err, ErrDuplicateAccount)

	_, err = svc.Register(RegisterInput{Username: "other", Email: "alice@example.com", Password: "hunter2hunter2"})
	require.ErrorIs(t, err, ErrDuplicateAccount)

	require.Len(t, state.users, 1)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newAuthService(newMemState())

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	state := newMemState()
	svc := newAuthService(state)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(LoginInput{Username: "alice", Password: "not-the-password"})
	_, unknownUser := svc.Login(LoginInput{Username: "nobody", Password: "whatever-password"})

	require.ErrorIs(t, wrongPassword, ErrInvalidCredential)
	require.ErrorIs(t, unknownUser, ErrInvalidCredential)
	require.Equal(t, wrongPassword, unknownUser)
}

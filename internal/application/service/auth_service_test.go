package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(store *memStore) *authServiceImpl {
	return NewAuthService(memUsers{store}, memSessions{store}, time.Hour, &mockLogger{}).(*authServiceImpl)
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuth(store)

	user, err := svc.Signup(ctx, SignupRequest{
		Username: " jdoe ", Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Username)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))

	tests := []struct {
		name string
		req  SignupRequest
		want error
	}{
		{"username taken", SignupRequest{Username: "jdoe", Email: "new@example.com", Password: "x"}, ErrUsernameTaken},
		{"email taken", SignupRequest{Username: "other", Email: "jane@example.com", Password: "x"}, ErrEmailTaken},
		{"missing password", SignupRequest{Username: "other", Email: "o@example.com"}, ErrMissingFields},
		{"bad email", SignupRequest{Username: "other", Email: "not-an-email", Password: "x"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_LoginAuthenticateLogout(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuth(store)
	_, err := svc.Signup(ctx, SignupRequest{Username: "jdoe", Email: "jane@example.com", Password: "s3cret"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "jdoe", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, user, err := svc.Login(ctx, "jane@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Username)
	assert.NotEmpty(t, session.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)

	authed, err := svc.Authenticate(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	require.NoError(t, svc.Logout(ctx, session.ID))
	_, err = svc.Authenticate(ctx, session.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuth(store)
	_, err := svc.Signup(ctx, SignupRequest{Username: "jdoe", Email: "jane@example.com", Password: "s3cret"})
	require.NoError(t, err)

	session, _, err := svc.Login(ctx, "jdoe", "s3cret")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, session.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuth(store)
	_, err := svc.Signup(ctx, SignupRequest{Username: "jdoe", Email: "jane@example.com", Password: "old"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword(ctx, "", "a", "a"), ErrMissingFields)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "jdoe", "a", "b"), ErrPasswordMismatch)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "ghost", "a", "a"), ErrUserNotFound)

	require.NoError(t, svc.ResetPassword(ctx, "jdoe", "new", "new"))
	_, _, err = svc.Login(ctx, "jdoe", "old")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "jdoe", "new")
	assert.NoError(t, err)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"melodia/internal/common"
	"melodia/internal/common/security"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeMailer) {
	users := newFakeUserRepo()
	mailer := &fakeMailer{}
	jwt := security.NewJWTManager([]byte("test-secret"), []byte("test-refresh"), time.Hour, 7*24*time.Hour)
	return NewAuthService(users, jwt, mailer, zerolog.Nop()), users, mailer
}

func register(t *testing.T, svc *AuthService) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "correct-horse",
	})
	require.NoError(t, err)
	return resp
}

func TestAuthService_Register(t *testing.T) {
	svc, _, _ := newAuthFixture()

	resp := register(t, svc)
	assert.NotZero(t, resp.User.ID)
	assert.Equal(t, "user", resp.User.Role)
	assert.Empty(t, resp.User.HashedPassword)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.c"})
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Other",
		LastName:  "Person",
		Username:  "other",
		Email:     "ada@example.com",
		Password:  "pass",
	})
	assert.True(t, errors.Is(err, common.ErrConflict))
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newAuthFixture()
	register(t, svc)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newAuthFixture()
	register(t, svc)

	_, errUnknown := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	_, errWrongPass := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "wrong"})

	assert.True(t, errors.Is(errUnknown, common.ErrInvalidCredentials))
	assert.True(t, errors.Is(errWrongPass, common.ErrInvalidCredentials))
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _, _ := newAuthFixture()
	resp := register(t, svc)

	pair, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Token)
	assert.NotEmpty(t, pair.RefreshToken)

	_, err = svc.Refresh(context.Background(), "garbage")
	assert.True(t, errors.Is(err, common.ErrTokenInvalid))

	// An access token must not work as a refresh token.
	_, err = svc.Refresh(context.Background(), resp.Token)
	assert.True(t, errors.Is(err, common.ErrTokenInvalid))
}

func TestAuthService_ForgotPassword(t *testing.T) {
	svc, users, mailer := newAuthFixture()
	register(t, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), "ada@example.com"))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ada@example.com", mailer.sent[0].To)
	assert.Len(t, mailer.sent[0].Token, 40)

	stored, err := users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	assert.Equal(t, mailer.sent[0].Token, *stored.ResetToken)
}

func TestAuthService_ForgotPasswordMailFailureStaysSilent(t *testing.T) {
	svc, users, mailer := newAuthFixture()
	register(t, svc)
	mailer.err = errors.New("smtp down")

	// A delivery failure must produce the same outcome as success, or the
	// response would reveal which addresses exist.
	require.NoError(t, svc.ForgotPassword(context.Background(), "ada@example.com"))
	assert.Empty(t, mailer.sent)

	// The token was stored; the user can retry once mail recovers.
	stored, err := users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.NotNil(t, stored.ResetToken)
}

func TestAuthService_ForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, mailer := newAuthFixture()

	// Unknown addresses succeed silently; no mail goes out.
	require.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
	assert.Empty(t, mailer.sent)
}

func TestAuthService_ResetPassword(t *testing.T) {
	svc, _, mailer := newAuthFixture()
	register(t, svc)
	require.NoError(t, svc.ForgotPassword(context.Background(), "ada@example.com"))
	token := mailer.sent[0].Token

	require.NoError(t, svc.ResetPassword(context.Background(), token, "new-password"))

	// New password works, old one does not.
	_, err := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "new-password"})
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	assert.True(t, errors.Is(err, common.ErrInvalidCredentials))

	// Single use: redeeming the same token again fails.
	err = svc.ResetPassword(context.Background(), token, "another-password")
	assert.True(t, errors.Is(err, common.ErrInvalidResetToken))
}

func TestAuthService_ResetPasswordExpiredToken(t *testing.T) {
	svc, users, mailer := newAuthFixture()
	register(t, svc)
	require.NoError(t, svc.ForgotPassword(context.Background(), "ada@example.com"))
	token := mailer.sent[0].Token

	// Backdate the expiry.
	for _, u := range users.users {
		past := time.Now().Add(-time.Minute)
		u.ResetExpires = &past
	}

	err := svc.ResetPassword(context.Background(), token, "new-password")
	assert.True(t, errors.Is(err, common.ErrInvalidResetToken))
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _, _ := newAuthFixture()
	resp := register(t, svc)

	err := svc.ChangePassword(context.Background(), resp.User.ID, "wrong-current", "next")
	assert.True(t, errors.Is(err, common.ErrWrongPassword))

	require.NoError(t, svc.ChangePassword(context.Background(), resp.User.ID, "correct-horse", "next"))
	_, err = svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "next"})
	assert.NoError(t, err)
}

func TestAuthService_CheckEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	register(t, svc)

	exists, err := svc.CheckEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.CheckEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

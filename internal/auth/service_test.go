package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubMailer struct {
	sentTo    []string
	lastToken string
}

func (m *stubMailer) SendVerification(_ context.Context, email, token string) error {
	m.sentTo = append(m.sentTo, email)
	m.lastToken = token
	return nil
}

type stubStubber struct {
	userIDs []string
}

func (s *stubStubber) CreateStub(_ context.Context, userID string) error {
	s.userIDs = append(s.userIDs, userID)
	return nil
}

func newTestService() (*Service, *stubMailer, *stubStubber) {
	mailer := &stubMailer{}
	stubber := &stubStubber{}
	svc := NewService(ServiceConfig{
		JWTService:  newTestJWTService(),
		UserRepo:    NewMemoryUserRepository(),
		RefreshRepo: NewMemoryRefreshTokenRepository(),
		Mailer:      mailer,
		Profiles:    stubber,
		BcryptCost:  bcrypt.MinCost,
	})
	return svc, mailer, stubber
}

func TestSignup(t *testing.T) {
	svc, mailer, stubber := newTestService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, &SignupRequest{Email: "new@example.com", Password: "password123"})
	require.NoError(t, err)

	assert.True(t, len(user.ID) > 4 && user.ID[:4] == "usr_")
	assert.Equal(t, "new@example.com", user.Email)
	assert.False(t, user.EmailVerified)
	assert.NotEmpty(t, user.VerificationToken)

	require.Len(t, mailer.sentTo, 1)
	assert.Equal(t, "new@example.com", mailer.sentTo[0])
	require.Len(t, stubber.userIDs, 1)
	assert.Equal(t, user.ID, stubber.userIDs[0])
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &SignupRequest{Email: "dup@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, &SignupRequest{Email: "dup@example.com", Password: "password456"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignup_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "missing email", email: "", password: "password123"},
		{name: "bad email", email: "not-an-address", password: "password123"},
		{name: "short password", email: "ok@example.com", password: "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, &SignupRequest{Email: tt.email, Password: tt.password})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestVerifyEmail(t *testing.T) {
	svc, mailer, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, &SignupRequest{Email: "verify@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.VerifyEmail(ctx, mailer.lastToken))

	updated, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, updated.EmailVerified)
	assert.Empty(t, updated.VerificationToken)

	// Token is single-use
	err = svc.VerifyEmail(ctx, mailer.lastToken)
	assert.ErrorIs(t, err, ErrInvalidVerifyToken)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.VerifyEmail(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrInvalidVerifyToken)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, &SignupRequest{Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &LoginRequest{Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, user.ID, resp.User.ID)

	userID, err := svc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &SignupRequest{Email: "secure@example.com", Password: "password123"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "secure@example.com", password: "wrongpassword"},
		{name: "unknown email", email: "nobody@example.com", password: "password123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &LoginRequest{Email: tt.email, Password: tt.password})
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestRefreshAccessToken_Rotation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &SignupRequest{Email: "rotate@example.com", Password: "password123"})
	require.NoError(t, err)

	first, err := svc.Login(ctx, &LoginRequest{Email: "rotate@example.com", Password: "password123"})
	require.NoError(t, err)

	second, err := svc.RefreshAccessToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The rotated-out token no longer works
	_, err = svc.RefreshAccessToken(ctx, first.RefreshToken)
	assert.True(t, errors.Is(err, ErrInvalidRefreshToken))
}

func TestRevokeAllTokens(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, &SignupRequest{Email: "all@example.com", Password: "password123"})
	require.NoError(t, err)

	a, err := svc.Login(ctx, &LoginRequest{Email: "all@example.com", Password: "password123"})
	require.NoError(t, err)
	b, err := svc.Login(ctx, &LoginRequest{Email: "all@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAllTokens(ctx, user.ID))

	_, err = svc.RefreshAccessToken(ctx, a.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, err = svc.RefreshAccessToken(ctx, b.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

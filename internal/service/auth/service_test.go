package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/password"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    auth.AuthService
	jwt    jwt.Service
	users  user.UserRepository
	tokens auth.RefreshTokenRepository
	user   user.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	tokens := memory.NewJWTRepository(store)
	jwtService := jwt.NewJWTService("test-secret", "15m", "24h")

	hash, err := password.Hash("initial-pass")
	require.NoError(t, err)
	u, err := users.Create(context.Background(), user.User{
		Name:              "Eve",
		Email:             "eve@example.com",
		PasswordHash:      hash,
		Role:              user.RoleEmployee,
		MustResetPassword: true,
	})
	require.NoError(t, err)

	return fixture{
		svc:    NewAuthService(users, tokens, jwtService),
		jwt:    jwtService,
		users:  users,
		tokens: tokens,
		user:   u,
	}
}

func (f fixture) login(t *testing.T) auth.TokenResponse {
	t.Helper()
	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "eve@example.com", Password: "initial-pass"}, auth.SessionTrackingRequest{UserAgent: "test"})
	require.NoError(t, err)
	return resp
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	resp := f.login(t)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.True(t, resp.MustResetPassword)
	assert.Equal(t, f.user.ID, resp.User.ID)

	token, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), resp.AccessToken)
	require.NoError(t, err)
	role, _ := token.Get(jwt.ClaimRole)
	assert.Equal(t, "employee", role)
	reset, _ := token.Get(jwt.ClaimMustResetPassword)
	assert.Equal(t, true, reset)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, auth.LoginRequest{Email: "eve@example.com", Password: "wrong"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "initial-pass"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	login := f.login(t)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "access tokens cannot refresh")

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshToken_PicksUpRoleChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	login := f.login(t)

	_, err := f.users.UpdateRole(ctx, f.user.ID, user.RoleManager)
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	token, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), refreshed.AccessToken)
	require.NoError(t, err)
	role, _ := token.Get(jwt.ClaimRole)
	assert.Equal(t, "manager", role)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	login := f.login(t)
	actor := user.Employee{UserID: f.user.ID}

	_, err := f.svc.ChangePassword(ctx, actor, auth.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "brand-new-pass"})
	assert.ErrorIs(t, err, auth.ErrIncorrectPassword)

	resp, err := f.svc.ChangePassword(ctx, actor, auth.ChangePasswordRequest{OldPassword: "initial-pass", NewPassword: "brand-new-pass"})
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), resp.AccessToken)
	require.NoError(t, err)
	reset, _ := token.Get(jwt.ClaimMustResetPassword)
	assert.Equal(t, false, reset)

	stored, err := f.users.GetByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.False(t, stored.MustResetPassword)
	assert.True(t, password.Matches(stored.PasswordHash, "brand-new-pass"))

	revoked, err := f.tokens.IsRefreshTokenRevoked(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.True(t, revoked, "sessions end when the password changes")
}

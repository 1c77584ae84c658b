package auth

import (
	"context"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, actor user.Principal, req ChangePasswordRequest) (AccessTokenResponse, error)
}

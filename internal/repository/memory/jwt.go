package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
)

type refreshToken struct {
	userID    string
	hash      string
	expiresAt time.Time
	revoked   bool
}

type jwtRepository struct {
	store *Store
}

func NewJWTRepository(store *Store) auth.RefreshTokenRepository {
	return &jwtRepository{store: store}
}

func (r *jwtRepository) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.refreshTokens = append(r.store.refreshTokens, refreshToken{
		userID:    userID,
		hash:      jwt.HashToken(token),
		expiresAt: time.Unix(expiresAt, 0),
	})
	return nil
}

// IsRefreshTokenRevoked reports unknown tokens as revoked.
func (r *jwtRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	hash := jwt.HashToken(token)
	for i := len(r.store.refreshTokens) - 1; i >= 0; i-- {
		t := r.store.refreshTokens[i]
		if t.hash == hash {
			return t.revoked || !t.expiresAt.After(time.Now()), nil
		}
	}
	return true, nil
}

func (r *jwtRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	hash := jwt.HashToken(token)
	for i := range r.store.refreshTokens {
		if r.store.refreshTokens[i].hash == hash {
			r.store.refreshTokens[i].revoked = true
		}
	}
	return nil
}

func (r *jwtRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.refreshTokens {
		if r.store.refreshTokens[i].userID == userID {
			r.store.refreshTokens[i].revoked = true
		}
	}
	return nil
}

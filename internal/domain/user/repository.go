package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	List(ctx context.Context, filter Filter) ([]User, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	UpdateManager(ctx context.Context, userID string, managerID *string) (User, error)
	UpdateRole(ctx context.Context, userID string, role Role) (User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string, mustReset bool) error
}

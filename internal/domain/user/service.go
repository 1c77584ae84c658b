package user

import "context"

type UserService interface {
	Create(ctx context.Context, actor Principal, req CreateUserRequest) (CreateUserResponse, error)
	List(ctx context.Context, actor Principal, req ListUsersRequest) ([]UserResponse, error)
	Get(ctx context.Context, actor Principal, id string) (UserResponse, error)
	Me(ctx context.Context, actor Principal) (UserResponse, error)
	ListTeam(ctx context.Context, actor Principal) ([]UserResponse, error)
	AssignManager(ctx context.Context, actor Principal, userID string, req AssignManagerRequest) (UserResponse, error)
	UpdateRole(ctx context.Context, actor Principal, userID string, req UpdateUserRoleRequest) (UserResponse, error)
	ResetPassword(ctx context.Context, actor Principal, userID string) (ResetPasswordResponse, error)

	// EnsureAdmin creates the first admin account when none exists.
	EnsureAdmin(ctx context.Context, name, email, password string) (bool, error)
}

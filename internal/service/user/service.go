package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/password"
)

type UserServiceImpl struct {
	users    user.UserRepository
	tokens   auth.RefreshTokenRepository
	notifier notification.Notifier
}

func NewUserService(users user.UserRepository, tokens auth.RefreshTokenRepository, notifier notification.Notifier) user.UserService {
	return &UserServiceImpl{users: users, tokens: tokens, notifier: notifier}
}

func requireAdmin(actor user.Principal) error {
	if _, ok := actor.(user.Admin); !ok {
		return user.ErrAdminAccessRequired
	}
	return nil
}

// managerByID loads id and checks it holds the manager role.
func (s *UserServiceImpl) managerByID(ctx context.Context, id string) (user.User, error) {
	mgr, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, user.ErrManagerRoleRequired
		}
		return user.User{}, err
	}
	if !mgr.IsManager() {
		return user.User{}, user.ErrManagerRoleRequired
	}
	return mgr, nil
}

// Create implements user.UserService. Without a supplied password a temporary
// one is generated and returned once.
func (s *UserServiceImpl) Create(ctx context.Context, actor user.Principal, req user.CreateUserRequest) (user.CreateUserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return user.CreateUserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.CreateUserResponse{}, err
	}

	if req.ManagerID != nil {
		if _, err := s.managerByID(ctx, *req.ManagerID); err != nil {
			return user.CreateUserResponse{}, err
		}
	}

	plain := req.Password
	var temporary string
	if plain == "" {
		generated, err := password.Temporary()
		if err != nil {
			return user.CreateUserResponse{}, fmt.Errorf("failed to generate password: %w", err)
		}
		plain, temporary = generated, generated
	}
	hash, err := password.Hash(plain)
	if err != nil {
		return user.CreateUserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.Create(ctx, user.User{
		Name:              req.Name,
		Email:             req.Email,
		PasswordHash:      hash,
		Role:              user.Role(req.Role),
		ManagerID:         req.ManagerID,
		MustResetPassword: true,
	})
	if err != nil {
		return user.CreateUserResponse{}, err
	}

	slog.Info("User created", "user_id", created.ID, "role", created.Role, "by", actor.ID())
	s.notifier.Send(ctx, notification.AccountCreated(created.Name, created.Email, temporary))

	return user.CreateUserResponse{User: user.ToResponse(created), TemporaryPassword: temporary}, nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, actor user.Principal, req user.ListUsersRequest) ([]user.UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, req.Filter())
	if err != nil {
		return nil, err
	}
	return user.ToResponses(users), nil
}

// Get implements user.UserService. Managers may read their direct reports and
// everyone may read themself.
func (s *UserServiceImpl) Get(ctx context.Context, actor user.Principal, id string) (user.UserResponse, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}

	switch a := actor.(type) {
	case user.Admin:
	case user.Manager:
		if u.ID != a.ID() && !u.ReportsTo(a.ID()) {
			return user.UserResponse{}, user.ErrForbidden
		}
	case user.Employee:
		if u.ID != a.ID() {
			return user.UserResponse{}, user.ErrForbidden
		}
	}
	return user.ToResponse(u), nil
}

// Me implements user.UserService.
func (s *UserServiceImpl) Me(ctx context.Context, actor user.Principal) (user.UserResponse, error) {
	u, err := s.users.GetByID(ctx, actor.ID())
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

// ListTeam implements user.UserService. An admin's team is every non-admin user.
func (s *UserServiceImpl) ListTeam(ctx context.Context, actor user.Principal) ([]user.UserResponse, error) {
	team, err := user.Team(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	return user.ToResponses(team), nil
}

// AssignManager implements user.UserService. A nil manager unassigns.
func (s *UserServiceImpl) AssignManager(ctx context.Context, actor user.Principal, userID string, req user.AssignManagerRequest) (user.UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return user.UserResponse{}, err
	}
	if req.ManagerID != nil {
		if *req.ManagerID == userID {
			return user.UserResponse{}, user.ErrSelfManagement
		}
		if _, err := s.managerByID(ctx, *req.ManagerID); err != nil {
			return user.UserResponse{}, err
		}
	}

	updated, err := s.users.UpdateManager(ctx, userID, req.ManagerID)
	if err != nil {
		return user.UserResponse{}, err
	}
	slog.Info("Manager assigned", "user_id", userID, "manager_id", req.ManagerID, "by", actor.ID())
	return user.ToResponse(updated), nil
}

// UpdateRole implements user.UserService. Admins cannot change their own role.
func (s *UserServiceImpl) UpdateRole(ctx context.Context, actor user.Principal, userID string, req user.UpdateUserRoleRequest) (user.UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	if userID == actor.ID() {
		return user.UserResponse{}, user.ErrSelfManagement
	}

	updated, err := s.users.UpdateRole(ctx, userID, user.Role(req.Role))
	if err != nil {
		return user.UserResponse{}, err
	}
	slog.Info("Role changed", "user_id", userID, "role", updated.Role, "by", actor.ID())
	return user.ToResponse(updated), nil
}

// ResetPassword implements user.UserService. Existing sessions are revoked.
func (s *UserServiceImpl) ResetPassword(ctx context.Context, actor user.Principal, userID string) (user.ResetPasswordResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return user.ResetPasswordResponse{}, err
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.ResetPasswordResponse{}, err
	}

	temporary, err := password.Temporary()
	if err != nil {
		return user.ResetPasswordResponse{}, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := password.Hash(temporary)
	if err != nil {
		return user.ResetPasswordResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash, true); err != nil {
		return user.ResetPasswordResponse{}, err
	}
	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return user.ResetPasswordResponse{}, fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	s.notifier.Send(ctx, notification.PasswordReset(target.Name, target.Email, temporary))
	return user.ResetPasswordResponse{TemporaryPassword: temporary}, nil
}

// EnsureAdmin implements user.UserService.
func (s *UserServiceImpl) EnsureAdmin(ctx context.Context, name, email, plain string) (bool, error) {
	count, err := s.users.CountByRole(ctx, user.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if count > 0 || email == "" || plain == "" {
		return false, nil
	}
	if name == "" {
		name = "Administrator"
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := s.users.Create(ctx, user.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
	}); err != nil {
		return false, err
	}
	return true, nil
}

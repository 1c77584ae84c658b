package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrInvalidSession          = errors.New("invalid session")
	ErrForbidden               = errors.New("forbidden")
	ErrAdminAccessRequired     = errors.New("admin access required")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrManagerRoleRequired     = errors.New("assigned manager must have the manager role")
	ErrSelfManagement          = errors.New("a user cannot be their own manager")
	ErrManagerHasReports       = errors.New("manager still has direct reports")
	ErrPasswordResetRequired   = errors.New("password reset required")
)

package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, manages accounts
	RoleManager  Role = "manager"  // Reviews timesheets and leave of direct reports
	RoleEmployee Role = "employee" // Logs hours and requests leave
)

type User struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	Role              Role
	ManagerID         *string
	MustResetPassword bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if user holds the manager role
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// ReportsTo reports whether managerID is the user's current manager.
func (u *User) ReportsTo(managerID string) bool {
	return u.ManagerID != nil && *u.ManagerID == managerID
}

// Filter narrows user listings. Nil fields are ignored.
type Filter struct {
	Role      *Role
	ManagerID *string
}

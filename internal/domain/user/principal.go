package user

import "fmt"

// Principal is the authenticated actor of a request. Admin, Manager and
// Employee are its only implementations.
type Principal interface {
	ID() string
	Role() Role
	principal()
}

type Admin struct{ UserID string }

type Manager struct{ UserID string }

type Employee struct{ UserID string }

func (a Admin) ID() string { return a.UserID }
func (a Admin) Role() Role { return RoleAdmin }
func (Admin) principal() {}

func (m Manager) ID() string { return m.UserID }
func (m Manager) Role() Role { return RoleManager }
func (Manager) principal() {}

func (e Employee) ID() string { return e.UserID }
func (e Employee) Role() Role { return RoleEmployee }
func (Employee) principal() {}

// Session is the caller identity established by the transport layer.
type Session struct {
	PrincipalID       string
	Role              Role
	MustResetPassword bool
}

// Principal resolves the session into its role variant.
func (s Session) Principal() (Principal, error) {
	return NewPrincipal(s.PrincipalID, s.Role)
}

func NewPrincipal(id string, role Role) (Principal, error) {
	if id == "" {
		return nil, ErrInvalidSession
	}
	switch role {
	case RoleAdmin:
		return Admin{UserID: id}, nil
	case RoleManager:
		return Manager{UserID: id}, nil
	case RoleEmployee:
		return Employee{UserID: id}, nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidSession, role)
	}
}

// PrincipalOf builds the principal for a stored user.
func PrincipalOf(u User) Principal {
	p, err := NewPrincipal(u.ID, u.Role)
	if err != nil {
		return Employee{UserID: u.ID}
	}
	return p
}

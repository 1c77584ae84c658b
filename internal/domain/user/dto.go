package user

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Role              string  `json:"role"`
	ManagerID         *string `json:"manager_id,omitempty"`
	MustResetPassword bool    `json:"must_reset_password"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              string(u.Role),
		ManagerID:         u.ManagerID,
		MustResetPassword: u.MustResetPassword,
		CreatedAt:         u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         u.UpdatedAt.Format(time.RFC3339),
	}
}

func ToResponses(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToResponse(u))
	}
	return out
}

// Brief identifies a user next to records they own.
type Brief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func BriefOf(u User) Brief {
	return Brief{ID: u.ID, Name: u.Name, Email: u.Email}
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Email     string  `json:"email" validate:"required,email,max=254"`
	Role      string  `json:"role" validate:"required,oneof=admin manager employee"`
	Password  string  `json:"password,omitempty" validate:"omitempty,min=8,max=255"`
	ManagerID *string `json:"manager_id,omitempty" validate:"omitempty,uuid"`
}

func (r *CreateUserRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validator.Struct(r).Err()
}

// CreateUserResponse carries the generated password when none was supplied.
type CreateUserResponse struct {
	User              UserResponse `json:"user"`
	TemporaryPassword string       `json:"temporary_password,omitempty"`
}

// AssignManagerRequest sets or clears (null) the user's manager.
type AssignManagerRequest struct {
	ManagerID *string `json:"manager_id" validate:"omitempty,uuid"`
}

func (r *AssignManagerRequest) Validate() error {
	return validator.Struct(r).Err()
}

// UpdateUserRoleRequest represents request to update user role
type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin manager employee"`
}

func (r *UpdateUserRoleRequest) Validate() error {
	return validator.Struct(r).Err()
}

type ListUsersRequest struct {
	Role      string `json:"role" validate:"omitempty,oneof=admin manager employee"`
	ManagerID string `json:"manager_id" validate:"omitempty,uuid"`
}

func (r *ListUsersRequest) Validate() error {
	return validator.Struct(r).Err()
}

func (r ListUsersRequest) Filter() Filter {
	var f Filter
	if r.Role != "" {
		role := Role(r.Role)
		f.Role = &role
	}
	if r.ManagerID != "" {
		id := r.ManagerID
		f.ManagerID = &id
	}
	return f
}

type ResetPasswordResponse struct {
	TemporaryPassword string `json:"temporary_password"`
}

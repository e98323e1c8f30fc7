package users

import (
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/validation"
)

// Role is a clinic account role.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleProvider Role = "provider"
	RoleMother   Role = "mother"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProvider, RoleMother:
		return true
	}
	return false
}

// PermissionRole is the key used in permissions.yml.
func (r Role) PermissionRole() string {
	return strings.ToUpper(string(r))
}

// CustomIDPrefix returns the human-readable id prefix for accounts of role r.
func (r Role) CustomIDPrefix() string {
	switch r {
	case RoleAdmin:
		return "ADM"
	case RoleProvider:
		return "DOC"
	default:
		return "MOM"
	}
}

// User represents a clinic account.
type User struct {
	ID          int64      `json:"id"`
	AuthSubject *string    `json:"-"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	CustomID    string     `json:"custom_id"`
	Role        Role       `json:"role"`
	Designation string     `json:"designation,omitempty"`
	Department  string     `json:"department,omitempty"`
	Address     string     `json:"address,omitempty"`
	Sex         string     `json:"sex,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedBy   *int64     `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// DisplayName resolves the user's name through the default name chain.
func (u *User) DisplayName() string {
	return DefaultNameChain.Resolve(u.Person())
}

// Person returns the fields the name chain looks at.
func (u *User) Person() Person {
	return Person{FirstName: u.FirstName, LastName: u.LastName, Username: u.Username}
}

// CreateUserRequest is the admin request to create any clinic account.
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=150"`
	Email       string `json:"email" validate:"omitempty,email"`
	FirstName   string `json:"first_name" validate:"required,max=150"`
	LastName    string `json:"last_name" validate:"required,max=150"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
	Role        Role   `json:"role" validate:"required,oneof=admin provider mother"`
	Designation string `json:"designation" validate:"omitempty,oneof=doctor nurse"`
	Department  string `json:"department" validate:"omitempty,max=100"`
	Address     string `json:"address" validate:"omitempty,max=255"`
	Sex         string `json:"sex" validate:"omitempty,oneof=male female"`
}

// Validate validates the create user request
func (r *CreateUserRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Designation != "" && r.Role != RoleProvider {
		return ErrDesignationNotAllowed
	}
	return nil
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	Designation *string `json:"designation,omitempty" validate:"omitempty,oneof=doctor nurse"`
	Department  *string `json:"department,omitempty" validate:"omitempty,max=100"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=255"`
	Sex         *string `json:"sex,omitempty" validate:"omitempty,oneof=male female"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// Validate validates the update request
func (r *UpdateUserRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateProfileRequest is what a user may change about themselves.
type UpdateProfileRequest struct {
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=255"`
}

// ListFilter narrows a user listing.
type ListFilter struct {
	Role   Role
	Search string
	Limit  int
	Offset int
}

// MeResponse is the identity summary for the signed-in user.
type MeResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	CustomID string `json:"custom_id"`
}

// PaginatedUserListResponse represents a paginated list of users
type PaginatedUserListResponse struct {
	Users      []User          `json:"users"`
	Pagination pagination.Meta `json:"pagination"`
}

package users

import (
	"context"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
)

// ServiceInterface defines the contract for user business logic operations
type ServiceInterface interface {
	CreateUser(ctx context.Context, req CreateUserRequest, principal *auth.Principal) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context, role Role, params pagination.Params) (*PaginatedUserListResponse, error)
	UpdateUser(ctx context.Context, id int64, req UpdateUserRequest, principal *auth.Principal) (*User, error)
	DeleteUser(ctx context.Context, id int64, principal *auth.Principal) error
	Me(ctx context.Context, principal *auth.Principal) (*MeResponse, error)
	UpdateMe(ctx context.Context, req UpdateProfileRequest, principal *auth.Principal) (*MeResponse, error)
}

// Resolver maps token principals to local accounts.
type Resolver interface {
	Resolve(ctx context.Context, principal *auth.Principal) (*User, error)
}

var (
	_ ServiceInterface = (*Service)(nil)
	_ Resolver         = (*Service)(nil)
)

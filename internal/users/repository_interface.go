package users

import (
	"context"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
)

// RepositoryInterface defines the contract for user data access
type RepositoryInterface interface {
	Create(ctx context.Context, u *User) error
	CreateWith(ctx context.Context, q db.Querier, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByCustomID(ctx context.Context, customID string) (*User, error)
	GetBySubject(ctx context.Context, subject string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	LinkSubject(ctx context.Context, id int64, subject string) error
	List(ctx context.Context, f ListFilter) ([]User, int, error)
	ListActiveIDs(ctx context.Context, roles ...Role) ([]int64, error)
	Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error)
	UpdateWith(ctx context.Context, q db.Querier, id int64, req UpdateUserRequest) (*User, error)
	Deactivate(ctx context.Context, id int64) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)

package mothers

import "context"

// RepositoryInterface defines the contract for mother data access
type RepositoryInterface interface {
	Create(ctx context.Context, req CreateMotherRequest, createdBy *int64) (*Mother, error)
	List(ctx context.Context, f ListFilter) ([]Mother, int, error)
	GetByID(ctx context.Context, id int64) (*Mother, error)
	GetByCustomID(ctx context.Context, customID string) (*Mother, error)
	Update(ctx context.Context, id int64, req UpdateMotherRequest) (*Mother, error)
	Delete(ctx context.Context, id int64) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)

package mothers

import (
	"context"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
)

// ServiceInterface defines the contract for mother business logic operations
type ServiceInterface interface {
	CreateMother(ctx context.Context, req CreateMotherRequest, principal *auth.Principal) (*Mother, error)
	ListMothers(ctx context.Context, params pagination.Params, from, to *time.Time) (*PaginatedMotherListResponse, error)
	GetMother(ctx context.Context, customID string) (*Mother, error)
	UpdateMother(ctx context.Context, customID string, req UpdateMotherRequest, principal *auth.Principal) (*Mother, error)
	DeleteMother(ctx context.Context, customID string, principal *auth.Principal) error
}

var _ ServiceInterface = (*Service)(nil)

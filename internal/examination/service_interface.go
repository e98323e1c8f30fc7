package examination

import (
	"context"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
)

// ServiceInterface defines the contract for examination business logic operations
type ServiceInterface interface {
	CreateExamination(ctx context.Context, customID string, req CreateExaminationRequest, principal *auth.Principal) (*Examination, error)
	ListExaminations(ctx context.Context, customID string, params pagination.Params) (*PaginatedExaminationResponse, error)
	OwnExaminations(ctx context.Context, motherID int64, params pagination.Params) (*PaginatedExaminationResponse, error)
	GetExamination(ctx context.Context, customID string, id int64) (*Examination, error)
	UpdateExamination(ctx context.Context, customID string, id int64, req UpdateExaminationRequest, principal *auth.Principal) (*Examination, error)
	DeleteExamination(ctx context.Context, customID string, id int64, principal *auth.Principal) error
}

var _ ServiceInterface = (*Service)(nil)

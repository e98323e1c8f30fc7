package appointment

import (
	"context"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
)

// ServiceInterface defines the contract for appointment business logic operations
type ServiceInterface interface {
	CreateAppointment(ctx context.Context, req CreateAppointmentRequest, principal *auth.Principal) (*Appointment, error)
	ListAppointments(ctx context.Context, params pagination.Params) (*PaginatedAppointmentResponse, error)
	RecentAppointments(ctx context.Context) ([]Appointment, error)
	GetAppointment(ctx context.Context, id int64) (*Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status Status, principal *auth.Principal) (*Appointment, error)
	PatchStatus(ctx context.Context, id int64, source Source, status Status, principal *auth.Principal) error
	MotherAppointments(ctx context.Context, motherID int64) (*Classified, error)
	ProviderFeed(ctx context.Context, params pagination.Params) (*FeedResponse, error)
}

var _ ServiceInterface = (*Service)(nil)

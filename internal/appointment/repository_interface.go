package appointment

import "context"

// RepositoryInterface defines the contract for appointment data access
type RepositoryInterface interface {
	Create(ctx context.Context, a *Appointment) (*Appointment, error)
	Get(ctx context.Context, id int64) (*Appointment, error)
	List(ctx context.Context, f ListFilter) ([]Appointment, int, error)
	Recent(ctx context.Context, limit int) ([]Appointment, error)
	ListByPatient(ctx context.Context, patientID *int64) ([]Appointment, error)
	ScheduledExaminations(ctx context.Context, motherID *int64) ([]ScheduledExamination, error)
	SetStatus(ctx context.Context, source Source, id int64, status Status) error
}

var _ RepositoryInterface = (*Repository)(nil)

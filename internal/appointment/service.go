package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
	"github.com/rs/zerolog/log"
)

const (
	// FeedPageSize is the provider feed's default page size.
	FeedPageSize = 10
	recentLimit  = 10
)

// AccountLookup finds clinic accounts by custom id.
type AccountLookup interface {
	GetByCustomID(ctx context.Context, customID string) (*users.User, error)
}

// Notifier creates in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, userID int64, title, message, objectType string, objectID int64) error
}

// LocationSource supplies the clinic reference time zone.
type LocationSource interface {
	Location(ctx context.Context) *time.Location
}

// ActivityRecorder stores audit trail entries.
type ActivityRecorder interface {
	Record(ctx context.Context, actorID int64, action, target, description string)
}

// MetricsRecorder counts appointment operations per source.
type MetricsRecorder interface {
	RecordAppointmentOperation(ctx context.Context, operation, source string)
}

// Deps are the collaborators of Service. Only Repo and Accounts are required.
type Deps struct {
	Repo      RepositoryInterface
	Accounts  AccountLookup
	Notifier  Notifier
	Locations LocationSource
	Publisher messaging.PublisherInterface
	Activity  ActivityRecorder
	Metrics   MetricsRecorder
}

type Service struct {
	Deps
	now func() time.Time
}

func NewService(deps Deps) *Service {
	if deps.Publisher == nil {
		deps.Publisher = messaging.NoopPublisher{}
	}
	return &Service{Deps: deps, now: time.Now}
}

func (s *Service) location(ctx context.Context) *time.Location {
	if s.Locations == nil {
		return time.UTC
	}
	return s.Locations.Location(ctx)
}

func (s *Service) activeAccount(ctx context.Context, customID string, role users.Role, invalid error) (*users.User, error) {
	u, err := s.Accounts.GetByCustomID(ctx, customID)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if u.Role != role || !u.IsActive {
		return nil, invalid
	}
	return u, nil
}

// CreateAppointment schedules a pending appointment and notifies the patient.
func (s *Service) CreateAppointment(ctx context.Context, req CreateAppointmentRequest, principal *auth.Principal) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	patient, err := s.activeAccount(ctx, req.Patient, users.RoleMother, ErrInvalidPatient)
	if err != nil {
		return nil, err
	}
	a := &Appointment{
		PatientID:       patient.ID,
		AppointmentType: req.AppointmentType,
		AppointmentDate: req.AppointmentDate,
		Notes:           req.Notes,
	}
	if req.Provider != nil && *req.Provider != "" {
		provider, err := s.activeAccount(ctx, *req.Provider, users.RoleProvider, ErrInvalidProvider)
		if err != nil {
			return nil, err
		}
		a.ProviderID = &provider.ID
	}
	if principal != nil {
		a.CreatedBy = &principal.LocalUserID
	}

	created, err := s.Repo.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	s.countOperation(ctx, "created", SourceAdmin)

	if s.Notifier != nil {
		when := created.AppointmentDate.In(s.location(ctx)).Format("Mon, 02 Jan 2006 15:04")
		message := fmt.Sprintf("You have a new %s appointment on %s.", created.AppointmentType, when)
		if err := s.Notifier.Notify(ctx, created.PatientID, "New Appointment", message, "appointment", created.ID); err != nil {
			log.Warn().Err(err).Int64("appointment_id", created.ID).Msg("failed to notify patient of appointment")
		}
	}

	event := messaging.AppointmentCreatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventAppointmentCreated),
		Data: messaging.AppointmentCreatedData{
			AppointmentID:   created.ID,
			PatientID:       created.PatientID,
			ProviderID:      created.ProviderID,
			AppointmentType: created.AppointmentType,
			AppointmentDate: created.AppointmentDate,
		},
	}
	if err := s.Publisher.Publish(ctx, messaging.EventAppointmentCreated, event); err != nil {
		log.Warn().Err(err).Int64("appointment_id", created.ID).Msg("failed to publish appointment.created event")
	}

	s.record(ctx, principal, "create_appointment", created.PatientCustomID,
		fmt.Sprintf("Created %s appointment for %s", created.AppointmentType, created.PatientName))
	return created, nil
}

func (s *Service) ListAppointments(ctx context.Context, params pagination.Params) (*PaginatedAppointmentResponse, error) {
	params.Validate()
	appointments, total, err := s.Repo.List(ctx, ListFilter{
		Search: params.Search,
		Limit:  params.Limit,
		Offset: params.CalculateOffset(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return &PaginatedAppointmentResponse{
		Appointments: appointments,
		Pagination:   params.CalculateMeta(total),
	}, nil
}

// RecentAppointments returns the ten latest appointments by date.
func (s *Service) RecentAppointments(ctx context.Context) ([]Appointment, error) {
	return s.Repo.Recent(ctx, recentLimit)
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*Appointment, error) {
	return s.Repo.Get(ctx, id)
}

// UpdateStatus changes the status of a staff appointment.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status, principal *auth.Principal) (*Appointment, error) {
	if err := s.PatchStatus(ctx, id, SourceAdmin, status, principal); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

// PatchStatus routes a status change to the table that owns the appointment.
// Nothing is written when source or status is invalid.
func (s *Service) PatchStatus(ctx context.Context, id int64, source Source, status Status, principal *auth.Principal) error {
	if err := ValidatePatch(source, status); err != nil {
		return err
	}
	if err := s.Repo.SetStatus(ctx, source, id, status); err != nil {
		return err
	}
	s.countOperation(ctx, "status_changed", source)

	var changedBy int64
	if principal != nil {
		changedBy = principal.LocalUserID
	}
	event := messaging.AppointmentStatusChangedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventAppointmentStatusChanged),
		Data: messaging.AppointmentStatusChangedData{
			ID:        id,
			Source:    string(source),
			NewStatus: string(status),
			ChangedBy: changedBy,
			ChangedAt: s.now().UTC(),
		},
	}
	if err := s.Publisher.Publish(ctx, messaging.EventAppointmentStatusChanged, event); err != nil {
		log.Warn().Err(err).Int64("id", id).Str("source", string(source)).Msg("failed to publish appointment.status_changed event")
	}

	s.record(ctx, principal, "update_appointment_status", fmt.Sprintf("%s:%d", source, id),
		fmt.Sprintf("Set %s appointment %d to %s", source, id, status))
	return nil
}

// MotherAppointments splits a mother's appointments of both sources around today.
func (s *Service) MotherAppointments(ctx context.Context, motherID int64) (*Classified, error) {
	appointments, err := s.Repo.ListByPatient(ctx, &motherID)
	if err != nil {
		return nil, err
	}
	exams, err := s.Repo.ScheduledExaminations(ctx, &motherID)
	if err != nil {
		return nil, err
	}
	loc := s.location(ctx)
	classified := UnifyAndClassify(appointments, exams, s.now(), loc)
	return &classified, nil
}

// ProviderFeed is every appointment of both sources, latest first, one page at a time.
func (s *Service) ProviderFeed(ctx context.Context, params pagination.Params) (*FeedResponse, error) {
	appointments, err := s.Repo.ListByPatient(ctx, nil)
	if err != nil {
		return nil, err
	}
	exams, err := s.Repo.ScheduledExaminations(ctx, nil)
	if err != nil {
		return nil, err
	}
	page, meta := pagination.Slice(UnifyAndSort(appointments, exams, s.location(ctx)), params)
	return &FeedResponse{Appointments: page, Pagination: meta}, nil
}

func (s *Service) countOperation(ctx context.Context, operation string, source Source) {
	if s.Metrics != nil {
		s.Metrics.RecordAppointmentOperation(ctx, operation, string(source))
	}
}

func (s *Service) record(ctx context.Context, principal *auth.Principal, action, target, description string) {
	if s.Activity == nil || principal == nil {
		return
	}
	s.Activity.Record(ctx, principal.LocalUserID, action, target, description)
}

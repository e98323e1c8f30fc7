package appointment

import (
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/validation"
)

// Appointment is scheduled by clinic staff.
type Appointment struct {
	ID              int64         `json:"id"`
	PatientID       int64         `json:"patient_id"`
	PatientCustomID string        `json:"patient_custom_id"`
	Patient         users.Person  `json:"-"`
	PatientName     string        `json:"patient_name"`
	ProviderID      *int64        `json:"provider_id,omitempty"`
	Provider        *users.Person `json:"-"`
	ProviderName    *string       `json:"provider_name"`
	AppointmentType string        `json:"appointment_type"`
	AppointmentDate time.Time     `json:"appointment_date"`
	Notes           *string       `json:"notes"`
	Status          Status        `json:"status"`
	CreatedBy       *int64        `json:"created_by,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// resolveNames fills the display names from the joined people.
func (a *Appointment) resolveNames(chain users.NameChain) {
	a.PatientName = chain.Resolve(a.Patient)
	a.ProviderName = nil
	if a.Provider != nil {
		name := chain.Resolve(*a.Provider)
		a.ProviderName = &name
	}
}

// ScheduledExamination is an examination whose next_appointment is set.
type ScheduledExamination struct {
	ID              int64
	MotherID        int64
	Mother          users.Person
	Provider        *users.Person
	NextAppointment *string
	Notes           *string
	Status          Status
	CreatedAt       time.Time
}

// UnifiedAppointment is the common shape of both appointment sources.
type UnifiedAppointment struct {
	ID              int64      `json:"id"`
	Source          Source     `json:"source"`
	PatientName     string     `json:"patient_name"`
	ProviderName    *string    `json:"provider_name"`
	AppointmentType string     `json:"appointment_type"`
	AppointmentDate *time.Time `json:"appointment_date"`
	Status          Status     `json:"status"`
	Notes           *string    `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
}

type Classified struct {
	Upcoming []UnifiedAppointment `json:"upcoming"`
	Past     []UnifiedAppointment `json:"past"`
}

// CreateAppointmentRequest identifies people by custom id.
type CreateAppointmentRequest struct {
	Patient         string    `json:"patient" validate:"required"`
	Provider        *string   `json:"provider"`
	AppointmentType string    `json:"appointment_type" validate:"required,max=100"`
	AppointmentDate time.Time `json:"appointment_date" validate:"required"`
	Notes           *string   `json:"notes"`
}

func (r *CreateAppointmentRequest) Validate() error {
	return validation.Struct(r)
}

type StatusRequest struct {
	Status Status `json:"status"`
}

type PatchRequest struct {
	ID     int64  `json:"id"`
	Source Source `json:"source"`
	Status Status `json:"status"`
}

type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

type PaginatedAppointmentResponse struct {
	Appointments []Appointment  `json:"appointments"`
	Pagination   pagination.Meta `json:"pagination"`
}

type FeedResponse struct {
	Appointments []UnifiedAppointment `json:"appointments"`
	Pagination   pagination.Meta      `json:"pagination"`
}

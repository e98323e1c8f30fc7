package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Event routing keys
const (
	EventUserCreated     = "user.created"
	EventUserDeactivated = "user.deactivated"

	EventMotherRegistered = "mother.registered"

	EventAppointmentCreated       = "appointment.created"
	EventAppointmentStatusChanged = "appointment.status_changed"

	EventExaminationRecorded = "examination.recorded"
	EventHighRiskDetected    = "risk.high_detected"

	EventEmergencyRaised = "emergency.raised"
	EventReminderSent    = "reminder.sent"

	// EventSMSRequested is consumed by the SMS gateway worker.
	EventSMSRequested = "sms.requested"
)

// ServiceName is stamped on every event.
const ServiceName = "maternal-care-service"

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: ServiceName,
	}
}

// UserCreatedEvent is published when an admin or provider creates an account.
type UserCreatedEvent struct {
	BaseEvent
	Data UserCreatedData `json:"data"`
}

type UserCreatedData struct {
	UserID    int64     `json:"user_id"`
	CustomID  string    `json:"custom_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedBy *int64    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserDeactivatedEvent is published on soft delete of an account.
type UserDeactivatedEvent struct {
	BaseEvent
	Data UserDeactivatedData `json:"data"`
}

type UserDeactivatedData struct {
	UserID        int64     `json:"user_id"`
	Role          string    `json:"role"`
	DeactivatedAt time.Time `json:"deactivated_at"`
}

// MotherRegisteredEvent is published when a provider registers a mother.
type MotherRegisteredEvent struct {
	BaseEvent
	Data MotherRegisteredData `json:"data"`
}

type MotherRegisteredData struct {
	UserID       int64     `json:"user_id"`
	CustomID     string    `json:"custom_id"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	RegisteredBy int64     `json:"registered_by"`
	RegisteredAt time.Time `json:"registered_at"`
}

// AppointmentCreatedEvent is published for admin-scheduled appointments.
type AppointmentCreatedEvent struct {
	BaseEvent
	Data AppointmentCreatedData `json:"data"`
}

type AppointmentCreatedData struct {
	AppointmentID   int64     `json:"appointment_id"`
	PatientID       int64     `json:"patient_id"`
	ProviderID      *int64    `json:"provider_id,omitempty"`
	AppointmentType string    `json:"appointment_type"`
	AppointmentDate time.Time `json:"appointment_date"`
}

// AppointmentStatusChangedEvent covers both appointment sources.
type AppointmentStatusChangedEvent struct {
	BaseEvent
	Data AppointmentStatusChangedData `json:"data"`
}

type AppointmentStatusChangedData struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	NewStatus string    `json:"new_status"`
	ChangedBy int64     `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// ExaminationRecordedEvent is published when a provider logs a visit.
type ExaminationRecordedEvent struct {
	BaseEvent
	Data ExaminationRecordedData `json:"data"`
}

type ExaminationRecordedData struct {
	ExaminationID   int64   `json:"examination_id"`
	MotherID        int64   `json:"mother_id"`
	ProviderID      *int64  `json:"provider_id,omitempty"`
	Risk            string  `json:"risk"`
	NextAppointment *string `json:"next_appointment,omitempty"`
}

// HighRiskDetectedEvent is published when a new examination assesses as High.
type HighRiskDetectedEvent struct {
	BaseEvent
	Data HighRiskDetectedData `json:"data"`
}

type HighRiskDetectedData struct {
	ExaminationID int64    `json:"examination_id"`
	MotherID      int64    `json:"mother_id"`
	Reasons       []string `json:"reasons"`
}

// EmergencyRaisedEvent is published when a mother raises an emergency alert.
type EmergencyRaisedEvent struct {
	BaseEvent
	Data EmergencyRaisedData `json:"data"`
}

type EmergencyRaisedData struct {
	AlertID  string    `json:"alert_id"`
	MotherID int64     `json:"mother_id"`
	Message  string    `json:"message"`
	Notified int       `json:"notified"`
	RaisedAt time.Time `json:"raised_at"`
}

// ReminderSentEvent is published after a reminder transaction commits.
type ReminderSentEvent struct {
	BaseEvent
	Data ReminderSentData `json:"data"`
}

type ReminderSentData struct {
	ExaminationID int64  `json:"examination_id"`
	MotherID      int64  `json:"mother_id"`
	Kind          string `json:"kind"`
	VisitDate     string `json:"visit_date"`
}

// SMSRequestedEvent asks the SMS gateway to deliver a text message.
type SMSRequestedEvent struct {
	BaseEvent
	Data SMSRequestedData `json:"data"`
}

type SMSRequestedData struct {
	To         string `json:"to"`
	Body       string `json:"body"`
	ObjectType string `json:"object_type,omitempty"`
	ObjectID   int64  `json:"object_id,omitempty"`
}

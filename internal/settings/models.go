package settings

import (
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/validation"
)

// Settings is the single clinic-wide configuration row.
type Settings struct {
	ReminderTimeInHours   int        `json:"reminder_time_in_hours"`
	AllowMotherReschedule bool       `json:"allow_mother_reschedule"`
	Timezone              string     `json:"timezone"`
	NotifyEmail           bool       `json:"notify_email"`
	NotifySMS             bool       `json:"notify_sms"`
	UpdatedAt             *time.Time `json:"updated_at,omitempty"`
}

// Defaults are used when the row has not been written yet.
func Defaults() Settings {
	return Settings{
		ReminderTimeInHours:   24,
		AllowMotherReschedule: false,
		Timezone:              "UTC",
		NotifyEmail:           true,
		NotifySMS:             true,
	}
}

type UpdateSettingsRequest struct {
	ReminderTimeInHours   *int    `json:"reminder_time_in_hours,omitempty" validate:"omitempty,min=1,max=168"`
	AllowMotherReschedule *bool   `json:"allow_mother_reschedule,omitempty"`
	Timezone              *string `json:"timezone,omitempty" validate:"omitempty,timezone"`
	NotifyEmail           *bool   `json:"notify_email,omitempty"`
	NotifySMS             *bool   `json:"notify_sms,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	return validation.Struct(r)
}

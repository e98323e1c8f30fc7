package notification

import (
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/validation"
)

type Notification struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	ObjectType *string   `json:"object_type,omitempty"`
	ObjectID   *int64    `json:"object_id,omitempty"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

type PaginatedNotificationResponse struct {
	Notifications []Notification  `json:"notifications"`
	Pagination    pagination.Meta `json:"pagination"`
}

type EmergencyRequest struct {
	Message string `json:"message" validate:"max=500"`
}

func (r *EmergencyRequest) Validate() error {
	return validation.Struct(r)
}

type EmergencyResponse struct {
	AlertID  string `json:"alert_id"`
	Notified int    `json:"notified"`
}

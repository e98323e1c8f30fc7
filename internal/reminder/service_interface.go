package reminder

import (
	"context"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/notification"
)

// NotificationWriter inserts an in-app notification with the given querier.
type NotificationWriter interface {
	CreateWith(ctx context.Context, q db.Querier, n *notification.Notification) error
}

// Settings supplies the clinic time zone and the SMS switch.
type Settings interface {
	Location(ctx context.Context) *time.Location
	NotifySMS(ctx context.Context) bool
}

type MetricsRecorder interface {
	RecordReminderSent(ctx context.Context, kind string)
}

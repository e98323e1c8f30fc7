package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/notification"
)

type Deps struct {
	Store         Store
	Notifications NotificationWriter
	SMS           messaging.SMSSender
	Settings      Settings
	Publisher     messaging.PublisherInterface
	Metrics       MetricsRecorder
}

// Dispatcher sends day-before and same-day ANC visit reminders.
type Dispatcher struct {
	store         Store
	notifications NotificationWriter
	sms           messaging.SMSSender
	settings      Settings
	publisher     messaging.PublisherInterface
	metrics       MetricsRecorder
}

func NewDispatcher(deps Deps) *Dispatcher {
	if deps.Publisher == nil {
		deps.Publisher = messaging.NoopPublisher{}
	}
	return &Dispatcher{
		store:         deps.Store,
		notifications: deps.Notifications,
		sms:           deps.SMS,
		settings:      deps.Settings,
		publisher:     deps.Publisher,
		metrics:       deps.Metrics,
	}
}

// Today returns the calendar date of now in the clinic time zone.
func (d *Dispatcher) Today(ctx context.Context, now time.Time) string {
	return now.In(d.settings.Location(ctx)).Format(dateLayout)
}

// Run dispatches the reminders due at now, judged in the clinic time zone.
func (d *Dispatcher) Run(ctx context.Context, now time.Time) (Result, error) {
	return d.RunForDate(ctx, d.Today(ctx, now))
}

// RunForDate dispatches reminders treating today (YYYY-MM-DD) as the
// current date: day_before for visits tomorrow, same_day for visits today.
func (d *Dispatcher) RunForDate(ctx context.Context, today string) (Result, error) {
	day, err := time.Parse(dateLayout, today)
	if err != nil {
		return Result{}, fmt.Errorf("invalid date %q: %w", today, err)
	}
	tomorrow := day.AddDate(0, 0, 1).Format(dateLayout)

	result := Result{Date: today}
	withSMS := d.settings.NotifySMS(ctx)

	passes := []struct {
		kind Kind
		date string
	}{
		{KindDayBefore, tomorrow},
		{KindSameDay, today},
	}
	for _, pass := range passes {
		due, err := d.store.Due(ctx, pass.date, pass.kind)
		if err != nil {
			return result, err
		}
		log.Info().Str("kind", string(pass.kind)).Str("visit_date", pass.date).Int("count", len(due)).Msg("reminders due")

		for _, item := range due {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			err := d.deliver(ctx, item, withSMS)
			switch {
			case err == nil:
				result.Sent++
			case errors.Is(err, ErrAlreadySent):
				result.Skipped++
			default:
				result.Failed++
				log.Error().Err(err).
					Int64("examination_id", item.ExaminationID).
					Str("kind", string(item.Kind)).
					Msg("failed to send reminder")
			}
		}
	}
	return result, nil
}

func (d *Dispatcher) deliver(ctx context.Context, item Due, withSMS bool) error {
	message := Message(item.Kind, item.VisitDate)

	err := d.store.Deliver(ctx, item, func(ctx context.Context, q db.Querier) error {
		objectType := ObjectType
		objectID := item.ExaminationID
		n := &notification.Notification{
			UserID:     item.MotherID,
			Title:      Title,
			Message:    message,
			ObjectType: &objectType,
			ObjectID:   &objectID,
		}
		if err := d.notifications.CreateWith(ctx, q, n); err != nil {
			return err
		}

		if !withSMS || item.Phone == "" {
			return nil
		}
		return d.sms.SendSMS(ctx, messaging.SMS{
			To:         item.Phone,
			Body:       message,
			ObjectType: ObjectType,
			ObjectID:   item.ExaminationID,
		})
	})
	if err != nil {
		return err
	}

	if d.metrics != nil {
		d.metrics.RecordReminderSent(ctx, string(item.Kind))
	}

	event := messaging.ReminderSentEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventReminderSent),
		Data: messaging.ReminderSentData{
			ExaminationID: item.ExaminationID,
			MotherID:      item.MotherID,
			Kind:          string(item.Kind),
			VisitDate:     item.VisitDate,
		},
	}
	if err := d.publisher.Publish(ctx, messaging.EventReminderSent, event); err != nil {
		log.Warn().Err(err).Int64("examination_id", item.ExaminationID).Msg("failed to publish reminder.sent event")
	}
	return nil
}

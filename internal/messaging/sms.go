package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoRecipient is returned when an SMS has no destination number.
var ErrNoRecipient = errors.New("sms recipient is empty")

// SMS is a text message addressed to a phone number. ObjectType and
// ObjectID point back at the record the message is about.
type SMS struct {
	To         string
	Body       string
	ObjectType string
	ObjectID   int64
}

// SMSSender delivers text messages.
type SMSSender interface {
	SendSMS(ctx context.Context, msg SMS) error
}

// QueueSender hands messages to the SMS gateway worker through the broker.
// Delivery happens asynchronously on the consumer side.
type QueueSender struct {
	publisher PublisherInterface
}

func NewQueueSender(publisher PublisherInterface) *QueueSender {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &QueueSender{publisher: publisher}
}

func (s *QueueSender) SendSMS(ctx context.Context, msg SMS) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return ErrNoRecipient
	}

	event := SMSRequestedEvent{
		BaseEvent: NewBaseEvent(EventSMSRequested),
		Data: SMSRequestedData{
			To:         to,
			Body:       msg.Body,
			ObjectType: msg.ObjectType,
			ObjectID:   msg.ObjectID,
		},
	}
	if err := s.publisher.Publish(ctx, EventSMSRequested, event); err != nil {
		return fmt.Errorf("failed to queue sms: %w", err)
	}
	return nil
}

package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	EmergencyTitle          = "Emergency Alert"
	defaultEmergencyMessage = "Emergency alert triggered"
)

// Directory looks up the people an emergency alert involves.
type Directory interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
	ListActiveIDs(ctx context.Context, roles ...users.Role) ([]int64, error)
}

// MetricsRecorder counts emergency alerts.
type MetricsRecorder interface {
	RecordEmergencyAlert(ctx context.Context)
}

type Service struct {
	repo      RepositoryInterface
	directory Directory
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
}

func NewService(repo RepositoryInterface, directory Directory, publisher messaging.PublisherInterface, metrics MetricsRecorder) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &Service{repo: repo, directory: directory, publisher: publisher, metrics: metrics}
}

// Notify creates an in-app notification for one user.
func (s *Service) Notify(ctx context.Context, userID int64, title, message, objectType string, objectID int64) error {
	n := &Notification{UserID: userID, Title: title, Message: message}
	if objectType != "" {
		n.ObjectType = &objectType
		n.ObjectID = &objectID
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool, params pagination.Params) (*PaginatedNotificationResponse, error) {
	params.Validate()
	notifications, total, err := s.repo.List(ctx, userID, unreadOnly, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, err
	}
	return &PaginatedNotificationResponse{
		Notifications: notifications,
		Pagination:    params.CalculateMeta(total),
	}, nil
}

// Latest returns a user's n newest notifications.
func (s *Service) Latest(ctx context.Context, userID int64, n int) ([]Notification, error) {
	notifications, _, err := s.repo.List(ctx, userID, false, n, 0)
	return notifications, err
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// RaiseEmergency notifies every active admin and provider on behalf of a mother.
func (s *Service) RaiseEmergency(ctx context.Context, req EmergencyRequest, principal *auth.Principal) (*EmergencyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		message = defaultEmergencyMessage
	}

	mother, err := s.directory.GetByID(ctx, principal.LocalUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mother: %w", err)
	}
	recipients, err := s.directory.ListActiveIDs(ctx, users.RoleAdmin, users.RoleProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	alertID := uuid.NewString()
	body := fmt.Sprintf("%s (%s) triggered an emergency: %s", mother.DisplayName(), mother.CustomID, message)
	if err := s.repo.Broadcast(ctx, recipients, Notification{Title: EmergencyTitle, Message: body}); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordEmergencyAlert(ctx)
	}

	event := messaging.EmergencyRaisedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventEmergencyRaised),
		Data: messaging.EmergencyRaisedData{
			AlertID:  alertID,
			MotherID: mother.ID,
			Message:  message,
			Notified: len(recipients),
		},
	}
	event.Data.RaisedAt = event.Timestamp
	if err := s.publisher.Publish(ctx, messaging.EventEmergencyRaised, event); err != nil {
		log.Warn().Err(err).Str("alert_id", alertID).Msg("failed to publish emergency.raised event")
	}

	log.Warn().
		Str("alert_id", alertID).
		Str("mother", mother.CustomID).
		Int("notified", len(recipients)).
		Msg("emergency alert raised")
	return &EmergencyResponse{AlertID: alertID, Notified: len(recipients)}, nil
}

package mothers

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

// ActivityRecorder stores audit trail entries.
type ActivityRecorder interface {
	Record(ctx context.Context, actorID int64, action, target, description string)
}

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	activity  ActivityRecorder
}

func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface, activity ActivityRecorder) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &Service{repo: repo, publisher: publisher, activity: activity}
}

func (s *Service) CreateMother(ctx context.Context, req CreateMotherRequest, principal *auth.Principal) (*Mother, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	registeredBy := principal.LocalUserID
	m, err := s.repo.Create(ctx, req, &registeredBy)
	if err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register mother: %w", err)
	}

	event := messaging.MotherRegisteredEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventMotherRegistered),
		Data: messaging.MotherRegisteredData{
			UserID:       m.ID,
			CustomID:     m.CustomID,
			PhoneNumber:  m.PhoneNumber,
			RegisteredBy: registeredBy,
			RegisteredAt: m.CreatedAt,
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventMotherRegistered, event); err != nil {
		log.Warn().Err(err).Int64("mother_id", m.ID).Msg("failed to publish mother.registered event")
	}

	s.record(ctx, principal, "register_mother", m.CustomID, "Registered mother "+m.Name)
	return m, nil
}

// ListMothers returns active mothers, optionally limited to a registration date range.
func (s *Service) ListMothers(ctx context.Context, params pagination.Params, from, to *time.Time) (*PaginatedMotherListResponse, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, ErrInvalidDateRange
	}
	params.Validate()

	mothers, total, err := s.repo.List(ctx, ListFilter{
		Search: params.Search,
		From:   from,
		To:     to,
		Limit:  params.Limit,
		Offset: params.CalculateOffset(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list mothers: %w", err)
	}

	return &PaginatedMotherListResponse{
		Mothers:    mothers,
		Pagination: params.CalculateMeta(total),
	}, nil
}

func (s *Service) GetMother(ctx context.Context, customID string) (*Mother, error) {
	if _, ok := users.ParseCustomIDNumber(users.RoleMother.CustomIDPrefix(), customID); !ok {
		return nil, ErrInvalidCustomID
	}
	return s.repo.GetByCustomID(ctx, customID)
}

// ResolveID maps a mother's custom id to her user id.
func (s *Service) ResolveID(ctx context.Context, customID string) (int64, error) {
	m, err := s.GetMother(ctx, customID)
	if err != nil {
		return 0, err
	}
	return m.ID, nil
}

// GetByID is used for a mother's own views.
func (s *Service) GetByID(ctx context.Context, id int64) (*Mother, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateMother(ctx context.Context, customID string, req UpdateMotherRequest, principal *auth.Principal) (*Mother, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id, err := s.ResolveID(ctx, customID)
	if err != nil {
		return nil, err
	}

	m, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "update_mother", m.CustomID, "Updated mother "+m.Name)
	return m, nil
}

func (s *Service) DeleteMother(ctx context.Context, customID string, principal *auth.Principal) error {
	m, err := s.GetMother(ctx, customID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, m.ID); err != nil {
		return err
	}

	event := messaging.UserDeactivatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventUserDeactivated),
		Data: messaging.UserDeactivatedData{
			UserID:        m.ID,
			Role:          string(users.RoleMother),
			DeactivatedAt: time.Now().UTC(),
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventUserDeactivated, event); err != nil {
		log.Warn().Err(err).Int64("mother_id", m.ID).Msg("failed to publish user.deactivated event")
	}

	s.record(ctx, principal, "delete_mother", m.CustomID, "Deactivated mother "+m.Name)
	return nil
}

func (s *Service) record(ctx context.Context, principal *auth.Principal, action, target, description string) {
	if s.activity == nil || principal == nil {
		return
	}
	s.activity.Record(ctx, principal.LocalUserID, action, target, description)
}

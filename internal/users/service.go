package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/rs/zerolog/log"
)

// ActivityRecorder stores audit trail entries. Implementations never fail the caller.
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

func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest, principal *auth.Principal) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u := &User{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
		Designation: req.Designation,
		Department:  req.Department,
		Address:     req.Address,
		Sex:         req.Sex,
	}
	if principal != nil && principal.LocalUserID != 0 {
		createdBy := principal.LocalUserID
		u.CreatedBy = &createdBy
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrCustomIDExhausted) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	event := messaging.UserCreatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventUserCreated),
		Data: messaging.UserCreatedData{
			UserID:    u.ID,
			CustomID:  u.CustomID,
			Username:  u.Username,
			Role:      string(u.Role),
			CreatedBy: u.CreatedBy,
			CreatedAt: u.CreatedAt,
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventUserCreated, event); err != nil {
		log.Warn().Err(err).Int64("user_id", u.ID).Msg("failed to publish user.created event")
	}

	s.record(ctx, principal, "create_user", u.CustomID, fmt.Sprintf("Created %s account %s", u.Role, u.Username))
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, role Role, params pagination.Params) (*PaginatedUserListResponse, error) {
	if role != "" && !role.Valid() {
		return nil, ErrInvalidRole
	}
	params.Validate()

	users, total, err := s.repo.List(ctx, ListFilter{
		Role:   role,
		Search: params.Search,
		Limit:  params.Limit,
		Offset: params.CalculateOffset(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &PaginatedUserListResponse{
		Users:      users,
		Pagination: params.CalculateMeta(total),
	}, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest, principal *auth.Principal) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.IsActive != nil && !*req.IsActive && principal != nil && principal.LocalUserID == id {
		return nil, ErrCannotDeactivateSelf
	}

	u, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "update_user", u.CustomID, "Updated account "+u.Username)
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64, principal *auth.Principal) error {
	if principal != nil && principal.LocalUserID == id {
		return ErrCannotDeactivateSelf
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	event := messaging.UserDeactivatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventUserDeactivated),
		Data: messaging.UserDeactivatedData{
			UserID:        id,
			Role:          string(u.Role),
			DeactivatedAt: time.Now().UTC(),
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventUserDeactivated, event); err != nil {
		log.Warn().Err(err).Int64("user_id", id).Msg("failed to publish user.deactivated event")
	}

	s.record(ctx, principal, "deactivate_user", u.CustomID, "Deactivated account "+u.Username)
	return nil
}

// Me returns the identity summary of the signed-in user.
func (s *Service) Me(ctx context.Context, principal *auth.Principal) (*MeResponse, error) {
	u, err := s.repo.GetByID(ctx, principal.LocalUserID)
	if err != nil {
		return nil, err
	}
	return toMe(u), nil
}

func (s *Service) UpdateMe(ctx context.Context, req UpdateProfileRequest, principal *auth.Principal) (*MeResponse, error) {
	update := UpdateUserRequest{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	u, err := s.repo.Update(ctx, principal.LocalUserID, update)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "update_profile", u.CustomID, "Updated own profile")
	return toMe(u), nil
}

// Resolve maps a verified token principal to the local account, linking the
// identity provider subject on first sight.
func (s *Service) Resolve(ctx context.Context, principal *auth.Principal) (*User, error) {
	u, err := s.repo.GetBySubject(ctx, principal.UserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if principal.Username == "" {
		return nil, ErrUnlinkedIdentity
	}

	u, err = s.repo.GetByUsername(ctx, principal.Username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrUnlinkedIdentity
	}
	if err != nil {
		return nil, err
	}
	if u.AuthSubject != nil && *u.AuthSubject != principal.UserID {
		return nil, ErrUnlinkedIdentity
	}

	if err := s.repo.LinkSubject(ctx, u.ID, principal.UserID); err != nil {
		return nil, fmt.Errorf("failed to link identity: %w", err)
	}
	subject := principal.UserID
	u.AuthSubject = &subject
	log.Info().Int64("user_id", u.ID).Str("username", u.Username).Msg("linked identity provider subject")
	return u, nil
}

func (s *Service) record(ctx context.Context, principal *auth.Principal, action, target, description string) {
	if s.activity == nil || principal == nil {
		return
	}
	s.activity.Record(ctx, principal.LocalUserID, action, target, description)
}

func toMe(u *User) *MeResponse {
	return &MeResponse{
		ID:       u.ID,
		Name:     u.DisplayName(),
		Email:    u.Email,
		Role:     u.Role,
		CustomID: u.CustomID,
	}
}

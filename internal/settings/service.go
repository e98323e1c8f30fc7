package settings

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RepositoryInterface defines the contract for settings data access
type RepositoryInterface interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (*Settings, error)
}

var _ RepositoryInterface = (*Repository)(nil)

type Service struct {
	repo     RepositoryInterface
	fallback *time.Location
}

// NewService builds the settings service. fallback is used when the stored
// timezone is unset or unreadable.
func NewService(repo RepositoryInterface, fallback *time.Location) *Service {
	if fallback == nil {
		fallback = time.UTC
	}
	return &Service{repo: repo, fallback: fallback}
}

func (s *Service) Get(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Update(ctx context.Context, req UpdateSettingsRequest) (*Settings, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, req)
}

// Location is the clinic reference time zone used to decide what "today" is.
func (s *Service) Location(ctx context.Context) *time.Location {
	st, err := s.repo.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read settings, using configured timezone")
		return s.fallback
	}
	if st.Timezone == "" {
		return s.fallback
	}
	loc, err := time.LoadLocation(st.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", st.Timezone).Msg("stored timezone is invalid, using configured timezone")
		return s.fallback
	}
	return loc
}

// NotifySMS reports whether reminders should also be sent by SMS.
func (s *Service) NotifySMS(ctx context.Context) bool {
	st, err := s.repo.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read settings, defaulting notify_sms to true")
		return true
	}
	return st.NotifySMS
}

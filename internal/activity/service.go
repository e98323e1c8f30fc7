package activity

import (
	"context"
	"fmt"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/rs/zerolog/log"
)

// RepositoryInterface defines the contract for activity data access
type RepositoryInterface interface {
	Insert(ctx context.Context, e *Entry) error
	List(ctx context.Context, limit, offset int) ([]Entry, int, error)
}

var _ RepositoryInterface = (*Repository)(nil)

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// Record stores an audit entry. Failures are logged and never reach the caller.
func (s *Service) Record(ctx context.Context, actorID int64, action, target, description string) {
	e := &Entry{Action: action, Target: target, Description: description}
	if actorID != 0 {
		e.ActorID = &actorID
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		log.Warn().Err(err).Str("action", action).Int64("actor_id", actorID).Msg("failed to record activity")
	}
}

func (s *Service) List(ctx context.Context, params pagination.Params) (*PaginatedActivityResponse, error) {
	params.Validate()
	entries, total, err := s.repo.List(ctx, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return &PaginatedActivityResponse{Entries: entries, Pagination: params.CalculateMeta(total)}, nil
}

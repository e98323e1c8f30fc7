package examination

import (
	"context"
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/rs/zerolog/log"
)

// MotherLookup maps a mother's custom id to her user id.
type MotherLookup interface {
	ResolveID(ctx context.Context, customID string) (int64, error)
}

// ActivityRecorder stores audit trail entries.
type ActivityRecorder interface {
	Record(ctx context.Context, actorID int64, action, target, description string)
}

// MetricsRecorder counts examination writes and high risk results.
type MetricsRecorder interface {
	RecordExaminationOperation(ctx context.Context, operation string)
	RecordHighRisk(ctx context.Context)
}

type Service struct {
	repo      RepositoryInterface
	mothers   MotherLookup
	publisher messaging.PublisherInterface
	activity  ActivityRecorder
	metrics   MetricsRecorder
}

func NewService(repo RepositoryInterface, mothers MotherLookup, publisher messaging.PublisherInterface, activity ActivityRecorder, metrics MetricsRecorder) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &Service{repo: repo, mothers: mothers, publisher: publisher, activity: activity, metrics: metrics}
}

// CreateExamination logs a visit by the calling provider.
func (s *Service) CreateExamination(ctx context.Context, customID string, req CreateExaminationRequest, principal *auth.Principal) (*Examination, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	motherID, err := s.mothers.ResolveID(ctx, customID)
	if err != nil {
		return nil, err
	}

	providerID := principal.LocalUserID
	exam, err := s.repo.Create(ctx, motherID, &providerID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to record examination: %w", err)
	}
	s.countOperation(ctx, "create")

	event := messaging.ExaminationRecordedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventExaminationRecorded),
		Data: messaging.ExaminationRecordedData{
			ExaminationID:   exam.ID,
			MotherID:        motherID,
			ProviderID:      exam.ProviderID,
			Risk:            string(exam.RiskStatus),
			NextAppointment: exam.NextAppointment,
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventExaminationRecorded, event); err != nil {
		log.Warn().Err(err).Int64("examination_id", exam.ID).Msg("failed to publish examination.recorded event")
	}

	if exam.RiskStatus == RiskHigh {
		s.raiseHighRisk(ctx, exam)
	}

	s.record(ctx, principal, "create_examination", customID, fmt.Sprintf("Recorded examination %d", exam.ID))
	return exam, nil
}

func (s *Service) raiseHighRisk(ctx context.Context, exam *Examination) {
	if s.metrics != nil {
		s.metrics.RecordHighRisk(ctx)
	}
	event := messaging.HighRiskDetectedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventHighRiskDetected),
		Data: messaging.HighRiskDetectedData{
			ExaminationID: exam.ID,
			MotherID:      exam.MotherID,
			Reasons:       RiskReasons(exam.Vitals),
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventHighRiskDetected, event); err != nil {
		log.Warn().Err(err).Int64("examination_id", exam.ID).Msg("failed to publish risk.high_detected event")
	}
	log.Info().
		Int64("examination_id", exam.ID).
		Str("mother", exam.MotherCustomID).
		Msg("high risk examination recorded")
}

func (s *Service) ListExaminations(ctx context.Context, customID string, params pagination.Params) (*PaginatedExaminationResponse, error) {
	motherID, err := s.mothers.ResolveID(ctx, customID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, motherID, params)
}

// OwnExaminations is a mother's read-only list of her visits.
func (s *Service) OwnExaminations(ctx context.Context, motherID int64, params pagination.Params) (*PaginatedExaminationResponse, error) {
	return s.list(ctx, motherID, params)
}

func (s *Service) list(ctx context.Context, motherID int64, params pagination.Params) (*PaginatedExaminationResponse, error) {
	params.Validate()
	exams, total, err := s.repo.List(ctx, motherID, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list examinations: %w", err)
	}
	return &PaginatedExaminationResponse{
		Examinations: exams,
		Pagination:   params.CalculateMeta(total),
	}, nil
}

func (s *Service) GetExamination(ctx context.Context, customID string, id int64) (*Examination, error) {
	motherID, err := s.mothers.ResolveID(ctx, customID)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, motherID, id)
}

// Latest returns the most recent visit of a mother, or nil when she has none.
func (s *Service) Latest(ctx context.Context, motherID int64) (*Examination, error) {
	exam, err := s.repo.Latest(ctx, motherID)
	if errors.Is(err, ErrExaminationNotFound) {
		return nil, nil
	}
	return exam, err
}

func (s *Service) UpdateExamination(ctx context.Context, customID string, id int64, req UpdateExaminationRequest, principal *auth.Principal) (*Examination, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	motherID, err := s.mothers.ResolveID(ctx, customID)
	if err != nil {
		return nil, err
	}

	exam, err := s.repo.Update(ctx, motherID, id, req)
	if err != nil {
		return nil, err
	}
	s.countOperation(ctx, "update")
	s.record(ctx, principal, "update_examination", customID, fmt.Sprintf("Updated examination %d", id))
	return exam, nil
}

func (s *Service) DeleteExamination(ctx context.Context, customID string, id int64, principal *auth.Principal) error {
	motherID, err := s.mothers.ResolveID(ctx, customID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, motherID, id); err != nil {
		return err
	}
	s.countOperation(ctx, "delete")
	s.record(ctx, principal, "delete_examination", customID, fmt.Sprintf("Deleted examination %d", id))
	return nil
}

func (s *Service) countOperation(ctx context.Context, operation string) {
	if s.metrics != nil {
		s.metrics.RecordExaminationOperation(ctx, operation)
	}
}

func (s *Service) record(ctx context.Context, principal *auth.Principal, action, target, description string) {
	if s.activity == nil || principal == nil {
		return
	}
	s.activity.Record(ctx, principal.LocalUserID, action, target, description)
}

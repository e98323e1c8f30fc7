package healthrecord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
)

// MotherLookup maps a mother's custom id to her user id.
type MotherLookup interface {
	ResolveID(ctx context.Context, customID string) (int64, error)
}

// ActivityRecorder stores audit trail entries.
type ActivityRecorder interface {
	Record(ctx context.Context, actorID int64, action, target, description string)
}

// LocationSource supplies the clinic reference time zone.
type LocationSource interface {
	Location(ctx context.Context) *time.Location
}

type Service struct {
	repo      RepositoryInterface
	mothers   MotherLookup
	activity  ActivityRecorder
	locations LocationSource
	now       func() time.Time
}

// NewService builds the record service. A nil locations judges dates in UTC.
func NewService(repo RepositoryInterface, mothers MotherLookup, activity ActivityRecorder, locations LocationSource) *Service {
	return &Service{repo: repo, mothers: mothers, activity: activity, locations: locations, now: time.Now}
}

// today is the current time in the clinic time zone.
func (s *Service) today(ctx context.Context) time.Time {
	loc := time.UTC
	if s.locations != nil {
		if l := s.locations.Location(ctx); l != nil {
			loc = l
		}
	}
	return s.now().In(loc)
}

func (s *Service) GetRecord(ctx context.Context, customID string) (*HealthRecord, error) {
	motherID, err := s.mothers.ResolveID(ctx, customID)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, motherID)
}

// ReplaceRecord writes f as the full record. Omitted fields are cleared.
func (s *Service) ReplaceRecord(ctx context.Context, customID string, f Fields, principal *auth.Principal) (*HealthRecord, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	motherID, err := s.mothers.ResolveID(ctx, customID)
	if err != nil {
		return nil, err
	}

	fillEDD(&f)
	rec, err := s.repo.Save(ctx, motherID, f)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "save_health_record", customID, "Saved health record")
	return rec, nil
}

// PatchRecord changes only the fields set in patch.
func (s *Service) PatchRecord(ctx context.Context, customID string, patch Fields, principal *auth.Principal) (*HealthRecord, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	motherID, err := s.mothers.ResolveID(ctx, customID)
	if err != nil {
		return nil, err
	}

	var merged Fields
	existing, err := s.repo.Get(ctx, motherID)
	switch {
	case err == nil:
		merged = existing.Fields
	case errors.Is(err, ErrRecordNotFound):
	default:
		return nil, err
	}
	if err := merged.Merge(patch); err != nil {
		return nil, err
	}
	fillEDD(&merged)

	rec, err := s.repo.Save(ctx, motherID, merged)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "update_health_record", customID, "Updated health record")
	return rec, nil
}

// OwnRecord is the read-only view of a mother's own record.
func (s *Service) OwnRecord(ctx context.Context, motherID int64) (*OwnRecord, error) {
	out := &OwnRecord{}
	rec, err := s.repo.Get(ctx, motherID)
	switch {
	case err == nil:
		out.Record = rec
		out.PregnancyWeek = PregnancyWeek(rec.LMP, s.today(ctx))
	case !errors.Is(err, ErrRecordNotFound):
		return nil, err
	}

	pregnancies, err := s.repo.ListPregnancies(ctx, motherID)
	if err != nil {
		return nil, err
	}
	out.Pregnancies = pregnancies
	return out, nil
}

// Summary returns the LMP-based pregnancy week of a mother, if known.
func (s *Service) Summary(ctx context.Context, motherID int64, today time.Time) (*int, error) {
	rec, err := s.repo.Get(ctx, motherID)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return PregnancyWeek(rec.LMP, today), nil
}

func (s *Service) ListPregnancies(ctx context.Context, customID string) ([]Pregnancy, error) {
	motherID, err := s.mothers.ResolveID(ctx, customID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPregnancies(ctx, motherID)
}

func (s *Service) CreatePregnancy(ctx context.Context, customID string, f PregnancyFields, principal *auth.Principal) (*Pregnancy, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	motherID, err := s.mothers.ResolveID(ctx, customID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.CreatePregnancy(ctx, motherID, f)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "add_pregnancy", customID, fmt.Sprintf("Added previous pregnancy %d", p.ID))
	return p, nil
}

func (s *Service) GetPregnancy(ctx context.Context, customID string, id int64) (*Pregnancy, error) {
	motherID, err := s.mothers.ResolveID(ctx, customID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetPregnancy(ctx, motherID, id)
}

func (s *Service) UpdatePregnancy(ctx context.Context, customID string, id int64, f PregnancyFields, principal *auth.Principal) (*Pregnancy, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	motherID, err := s.mothers.ResolveID(ctx, customID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.UpdatePregnancy(ctx, motherID, id, f)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "update_pregnancy", customID, fmt.Sprintf("Updated previous pregnancy %d", id))
	return p, nil
}

func (s *Service) DeletePregnancy(ctx context.Context, customID string, id int64, principal *auth.Principal) error {
	motherID, err := s.mothers.ResolveID(ctx, customID)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePregnancy(ctx, motherID, id); err != nil {
		return err
	}
	s.record(ctx, principal, "delete_pregnancy", customID, fmt.Sprintf("Deleted previous pregnancy %d", id))
	return nil
}

func (s *Service) record(ctx context.Context, principal *auth.Principal, action, target, description string) {
	if s.activity == nil || principal == nil {
		return
	}
	s.activity.Record(ctx, principal.LocalUserID, action, target, description)
}

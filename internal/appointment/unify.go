package appointment

import (
	"sort"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
)

// ExaminationType is the appointment type of every provider-scheduled visit.
const ExaminationType = "Examination"

const dateLayout = "2006-01-02"

// FromAdmin projects a staff appointment. Type, date, notes, status and
// created_at are copied verbatim.
func FromAdmin(a Appointment) UnifiedAppointment {
	date := a.AppointmentDate
	u := UnifiedAppointment{
		ID:              a.ID,
		Source:          SourceAdmin,
		PatientName:     users.DefaultNameChain.Resolve(a.Patient),
		AppointmentType: a.AppointmentType,
		AppointmentDate: &date,
		Status:          a.Status,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
	}
	if a.Provider != nil {
		name := users.DefaultNameChain.Resolve(*a.Provider)
		u.ProviderName = &name
	}
	return u
}

// FromExamination projects a scheduled examination. The date-only
// next_appointment becomes midnight in loc; an unparsable date is left nil.
func FromExamination(e ScheduledExamination, loc *time.Location) UnifiedAppointment {
	u := UnifiedAppointment{
		ID:              e.ID,
		Source:          SourceProvider,
		PatientName:     users.DefaultNameChain.Resolve(e.Mother),
		AppointmentType: ExaminationType,
		Status:          e.Status,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt,
	}
	if e.Provider != nil {
		name := users.DefaultNameChain.Resolve(*e.Provider)
		u.ProviderName = &name
	}
	if e.NextAppointment != nil {
		if d, err := time.ParseInLocation(dateLayout, *e.NextAppointment, loc); err == nil {
			u.AppointmentDate = &d
		}
	}
	return u
}

func unify(appointments []Appointment, exams []ScheduledExamination, loc *time.Location) []UnifiedAppointment {
	out := make([]UnifiedAppointment, 0, len(appointments)+len(exams))
	for _, a := range appointments {
		out = append(out, FromAdmin(a))
	}
	for _, e := range exams {
		out = append(out, FromExamination(e, loc))
	}
	return out
}

// UnifyAndClassify splits both sources around today's date in loc. Items
// dated today or later are upcoming. Items without a date are dropped.
func UnifyAndClassify(appointments []Appointment, exams []ScheduledExamination, today time.Time, loc *time.Location) Classified {
	result := Classified{Upcoming: []UnifiedAppointment{}, Past: []UnifiedAppointment{}}
	todayKey := dayKey(today, loc)
	for _, u := range unify(appointments, exams, loc) {
		if u.AppointmentDate == nil {
			continue
		}
		if dayKey(*u.AppointmentDate, loc) >= todayKey {
			result.Upcoming = append(result.Upcoming, u)
		} else {
			result.Past = append(result.Past, u)
		}
	}
	return result
}

// UnifyAndSort merges both sources, latest first. Undated items sort by
// created_at and ties keep input order.
func UnifyAndSort(appointments []Appointment, exams []ScheduledExamination, loc *time.Location) []UnifiedAppointment {
	items := unify(appointments, exams, loc)
	sort.SliceStable(items, func(i, j int) bool {
		return sortKey(items[i]).After(sortKey(items[j]))
	})
	return items
}

func sortKey(u UnifiedAppointment) time.Time {
	if u.AppointmentDate != nil {
		return *u.AppointmentDate
	}
	return u.CreatedAt
}

// dayKey is yyyymmdd of t's calendar date in loc.
func dayKey(t time.Time, loc *time.Location) int {
	y, m, d := t.In(loc).Date()
	return y*10000 + int(m)*100 + d
}

// ValidatePatch checks a status patch before anything is written.
func ValidatePatch(source Source, status Status) error {
	if !source.Valid() {
		return ErrInvalidSource
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

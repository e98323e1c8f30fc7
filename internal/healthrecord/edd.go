package healthrecord

import "time"

// GestationDays is the naive pregnancy length used to derive the due date.
const GestationDays = 280

const dateLayout = "2006-01-02"

// ComputeEDDIfMissing returns the expected delivery date. A supplied edd is
// returned unchanged; otherwise it is derived from lmp, or nil without one.
func ComputeEDDIfMissing(lmp, edd *time.Time) *time.Time {
	if edd != nil {
		return edd
	}
	if lmp == nil {
		return nil
	}
	due := lmp.AddDate(0, 0, GestationDays)
	return &due
}

// fillEDD applies ComputeEDDIfMissing to the date strings of f.
func fillEDD(f *Fields) {
	if f.EDD != nil || f.LMP == nil {
		return
	}
	lmp, err := time.Parse(dateLayout, *f.LMP)
	if err != nil {
		return
	}
	if due := ComputeEDDIfMissing(&lmp, nil); due != nil {
		s := due.Format(dateLayout)
		f.EDD = &s
	}
}

// PregnancyWeek is the completed gestational week on today for a pregnancy
// with the given LMP, or nil when lmp is missing, malformed or in the future.
func PregnancyWeek(lmp *string, today time.Time) *int {
	if lmp == nil {
		return nil
	}
	start, err := time.Parse(dateLayout, *lmp)
	if err != nil {
		return nil
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(start) {
		return nil
	}
	weeks := int(day.Sub(start).Hours()/24) / 7
	return &weeks
}

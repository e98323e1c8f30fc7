package reminder

import (
	"errors"
	"fmt"
)

// Kind distinguishes the two reminders sent for one visit.
type Kind string

const (
	KindDayBefore Kind = "day_before"
	KindSameDay   Kind = "same_day"
)

// Title is the in-app notification title for every reminder.
const Title = "ANC Visit Reminder"

// ObjectType is stamped on reminder notifications and SMS requests.
const ObjectType = "examination"

const dateLayout = "2006-01-02"

// ErrAlreadySent is returned when another run recorded the marker first.
var ErrAlreadySent = errors.New("reminder already sent")

// Message renders the reminder text for a visit on date (YYYY-MM-DD).
func Message(kind Kind, date string) string {
	if kind == KindSameDay {
		return fmt.Sprintf("Your ANC visit is today (%s). Please attend.", date)
	}
	return fmt.Sprintf("Reminder: Your ANC visit is on %s.", date)
}

// Due is one examination that still needs a reminder of Kind.
type Due struct {
	ExaminationID int64
	MotherID      int64
	Phone         string
	VisitDate     string
	Kind          Kind
}

// Result summarizes one dispatch run.
type Result struct {
	Date    string `json:"date"`
	Sent    int    `json:"sent"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

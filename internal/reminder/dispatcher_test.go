package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/notification"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/testutil"
)

type visit struct {
	examID   int64
	motherID int64
	phone    string
	date     string
}

type marker struct {
	examID int64
	kind   Kind
}

// memoryStore keeps markers in memory and discards a delivery when send fails.
type memoryStore struct {
	visits   []visit
	markers  map[marker]bool
	raceKeys map[marker]bool
}

func newMemoryStore(visits ...visit) *memoryStore {
	return &memoryStore{visits: visits, markers: map[marker]bool{}, raceKeys: map[marker]bool{}}
}

func (s *memoryStore) Due(ctx context.Context, date string, kind Kind) ([]Due, error) {
	var due []Due
	for _, v := range s.visits {
		if v.date != date || s.markers[marker{v.examID, kind}] {
			continue
		}
		due = append(due, Due{ExaminationID: v.examID, MotherID: v.motherID, Phone: v.phone, VisitDate: v.date, Kind: kind})
	}
	return due, nil
}

func (s *memoryStore) Deliver(ctx context.Context, d Due, send func(ctx context.Context, q db.Querier) error) error {
	key := marker{d.ExaminationID, d.Kind}
	if err := send(ctx, nil); err != nil {
		return err
	}
	if s.raceKeys[key] {
		return ErrAlreadySent
	}
	s.markers[key] = true
	return nil
}

type recordingWriter struct {
	created []notification.Notification
}

func (w *recordingWriter) CreateWith(ctx context.Context, q db.Querier, n *notification.Notification) error {
	n.ID = int64(len(w.created) + 1)
	w.created = append(w.created, *n)
	return nil
}

type recordingSMS struct {
	sent []messaging.SMS
	err  error
}

func (s *recordingSMS) SendSMS(ctx context.Context, msg messaging.SMS) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type staticSettings struct {
	loc *time.Location
	sms bool
}

func (s staticSettings) Location(ctx context.Context) *time.Location { return s.loc }
func (s staticSettings) NotifySMS(ctx context.Context) bool           { return s.sms }

type kindCounter map[string]int

func (k kindCounter) RecordReminderSent(ctx context.Context, kind string) { k[kind]++ }

type fixture struct {
	store     *memoryStore
	writer    *recordingWriter
	sms       *recordingSMS
	publisher *testutil.MockPublisher
	metrics   kindCounter
	settings  staticSettings
}

func newFixture(visits ...visit) *fixture {
	return &fixture{
		store:     newMemoryStore(visits...),
		writer:    &recordingWriter{},
		sms:       &recordingSMS{},
		publisher: testutil.NewMockPublisher(),
		metrics:   kindCounter{},
		settings:  staticSettings{loc: time.UTC, sms: true},
	}
}

func (f *fixture) dispatcher() *Dispatcher {
	return NewDispatcher(Deps{
		Store:         f.store,
		Notifications: f.writer,
		SMS:           f.sms,
		Settings:      f.settings,
		Publisher:     f.publisher,
		Metrics:       f.metrics,
	})
}

// TestMessage tests the reminder texts
func TestMessage(t *testing.T) {
	if got := Message(KindDayBefore, "2026-10-20"); got != "Reminder: Your ANC visit is on 2026-10-20." {
		t.Errorf("Unexpected day_before message: %q", got)
	}
	if got := Message(KindSameDay, "2026-10-19"); got != "Your ANC visit is today (2026-10-19). Please attend." {
		t.Errorf("Unexpected same_day message: %q", got)
	}
}

// TestRunForDate_SendsBothKinds tests that tomorrow's and today's visits are reminded
func TestRunForDate_SendsBothKinds(t *testing.T) {
	f := newFixture(
		visit{examID: 1, motherID: 10, phone: "0801", date: "2026-10-20"},
		visit{examID: 2, motherID: 11, phone: "0802", date: "2026-10-19"},
		visit{examID: 3, motherID: 12, phone: "0803", date: "2026-10-25"},
	)

	result, err := f.dispatcher().RunForDate(context.Background(), "2026-10-19")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Sent != 2 || result.Skipped != 0 || result.Failed != 0 {
		t.Errorf("Expected 2 sent, got %+v", result)
	}

	if len(f.writer.created) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(f.writer.created))
	}
	first := f.writer.created[0]
	if first.UserID != 10 || first.Title != Title || first.Message != "Reminder: Your ANC visit is on 2026-10-20." {
		t.Errorf("Unexpected day_before notification: %+v", first)
	}
	if first.ObjectType == nil || *first.ObjectType != "examination" || first.ObjectID == nil || *first.ObjectID != 1 {
		t.Errorf("Expected object examination/1, got %v/%v", first.ObjectType, first.ObjectID)
	}
	if f.writer.created[1].Message != "Your ANC visit is today (2026-10-19). Please attend." {
		t.Errorf("Unexpected same_day message: %q", f.writer.created[1].Message)
	}

	if len(f.sms.sent) != 2 || f.sms.sent[0].To != "0801" || f.sms.sent[1].To != "0802" {
		t.Errorf("Expected SMS to 0801 and 0802, got %+v", f.sms.sent)
	}
	if !f.store.markers[marker{1, KindDayBefore}] || !f.store.markers[marker{2, KindSameDay}] {
		t.Errorf("Expected markers for both reminders, got %v", f.store.markers)
	}
	if f.metrics["day_before"] != 1 || f.metrics["same_day"] != 1 {
		t.Errorf("Expected one metric per kind, got %v", f.metrics)
	}
	f.publisher.AssertEventCount(t, messaging.EventReminderSent, 2)
}

// TestRunForDate_Idempotent tests that a second run sends nothing new
func TestRunForDate_Idempotent(t *testing.T) {
	f := newFixture(visit{examID: 1, motherID: 10, phone: "0801", date: "2026-10-19"})
	d := f.dispatcher()

	if _, err := d.RunForDate(context.Background(), "2026-10-19"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	result, err := d.RunForDate(context.Background(), "2026-10-19")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Sent != 0 {
		t.Errorf("Expected nothing sent on the second run, got %+v", result)
	}
	if len(f.writer.created) != 1 || len(f.sms.sent) != 1 {
		t.Errorf("Expected exactly one notification and SMS, got %d and %d", len(f.writer.created), len(f.sms.sent))
	}
}

// TestRunForDate_DayBeforeThenSameDay tests that one visit gets both reminders on consecutive days
func TestRunForDate_DayBeforeThenSameDay(t *testing.T) {
	f := newFixture(visit{examID: 7, motherID: 10, phone: "0801", date: "2026-10-20"})
	d := f.dispatcher()

	for _, day := range []string{"2026-10-19", "2026-10-20"} {
		if _, err := d.RunForDate(context.Background(), day); err != nil {
			t.Fatalf("Run for %s failed: %v", day, err)
		}
	}
	if len(f.writer.created) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(f.writer.created))
	}
	if !f.store.markers[marker{7, KindDayBefore}] || !f.store.markers[marker{7, KindSameDay}] {
		t.Errorf("Expected both markers, got %v", f.store.markers)
	}
}

// TestRunForDate_SMSDisabled tests that notify_sms=false still creates the notification
func TestRunForDate_SMSDisabled(t *testing.T) {
	f := newFixture(visit{examID: 1, motherID: 10, phone: "0801", date: "2026-10-19"})
	f.settings.sms = false

	result, err := f.dispatcher().RunForDate(context.Background(), "2026-10-19")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Sent != 1 || len(f.writer.created) != 1 {
		t.Errorf("Expected one in-app reminder, got %+v and %d notifications", result, len(f.writer.created))
	}
	if len(f.sms.sent) != 0 {
		t.Errorf("Expected no SMS, got %d", len(f.sms.sent))
	}
}

// TestRunForDate_NoPhone tests that mothers without a phone only get the in-app reminder
func TestRunForDate_NoPhone(t *testing.T) {
	f := newFixture(visit{examID: 1, motherID: 10, date: "2026-10-19"})

	result, err := f.dispatcher().RunForDate(context.Background(), "2026-10-19")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Sent != 1 || len(f.sms.sent) != 0 {
		t.Errorf("Expected one reminder without SMS, got %+v and %d SMS", result, len(f.sms.sent))
	}
}

// TestRunForDate_SMSFailure tests that a failed SMS leaves the reminder for the next run
func TestRunForDate_SMSFailure(t *testing.T) {
	f := newFixture(visit{examID: 1, motherID: 10, phone: "0801", date: "2026-10-19"})
	f.sms.err = errors.New("gateway down")
	d := f.dispatcher()

	result, err := d.RunForDate(context.Background(), "2026-10-19")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Failed != 1 || result.Sent != 0 {
		t.Errorf("Expected one failure, got %+v", result)
	}
	if f.store.markers[marker{1, KindSameDay}] {
		t.Error("Expected no marker after a failed delivery")
	}
	f.publisher.AssertEventNotPublished(t, messaging.EventReminderSent)

	f.sms.err = nil
	result, err = d.RunForDate(context.Background(), "2026-10-19")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Sent != 1 || len(f.sms.sent) != 1 {
		t.Errorf("Expected the retry to send, got %+v", result)
	}
}

// TestRunForDate_AlreadySent tests that a concurrent marker counts as skipped
func TestRunForDate_AlreadySent(t *testing.T) {
	f := newFixture(visit{examID: 1, motherID: 10, phone: "0801", date: "2026-10-19"})
	f.store.raceKeys[marker{1, KindSameDay}] = true

	result, err := f.dispatcher().RunForDate(context.Background(), "2026-10-19")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Skipped != 1 || result.Sent != 0 || result.Failed != 0 {
		t.Errorf("Expected one skipped reminder, got %+v", result)
	}
	f.publisher.AssertEventNotPublished(t, messaging.EventReminderSent)
}

// TestRunForDate_InvalidDate tests date validation
func TestRunForDate_InvalidDate(t *testing.T) {
	if _, err := newFixture().dispatcher().RunForDate(context.Background(), "19/10/2026"); err == nil {
		t.Error("Expected error for malformed date")
	}
}

// TestRun_UsesClinicTimezone tests that "today" is judged in the clinic time zone
func TestRun_UsesClinicTimezone(t *testing.T) {
	f := newFixture(visit{examID: 1, motherID: 10, phone: "0801", date: "2026-10-19"})
	f.settings.loc = time.FixedZone("WAT", 3600)

	// 23:30 UTC on the 18th is already the 19th in WAT.
	now := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)
	result, err := f.dispatcher().Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Date != "2026-10-19" {
		t.Errorf("Expected date 2026-10-19, got %s", result.Date)
	}
	if len(f.writer.created) != 1 || f.writer.created[0].Message != Message(KindSameDay, "2026-10-19") {
		t.Errorf("Expected a same_day reminder, got %+v", f.writer.created)
	}
}

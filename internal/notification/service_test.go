package notification

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/testutil"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
	"github.com/gorilla/mux"
)

var motherPrincipal = &auth.Principal{UserID: "sub-mom", LocalUserID: 10, Roles: []string{"MOTHER"}}

type fakeDirectory struct {
	staff []int64
	roles []users.Role
}

func (d *fakeDirectory) GetByID(ctx context.Context, id int64) (*users.User, error) {
	if id != 10 {
		return nil, users.ErrUserNotFound
	}
	return &users.User{ID: 10, CustomID: "MOM-0001", FirstName: "Ngozi", LastName: "Eze", Username: "mom-0001"}, nil
}

func (d *fakeDirectory) ListActiveIDs(ctx context.Context, roles ...users.Role) ([]int64, error) {
	d.roles = roles
	return d.staff, nil
}

// TestRaiseEmergency tests fan-out to staff and the published event
func TestRaiseEmergency(t *testing.T) {
	var broadcastTo []int64
	var broadcast Notification
	repo := &mockRepository{broadcastFunc: func(userIDs []int64, n Notification) error {
		broadcastTo, broadcast = userIDs, n
		return nil
	}}
	directory := &fakeDirectory{staff: []int64{1, 2, 3}}
	publisher := testutil.NewMockPublisher()
	service := NewService(repo, directory, publisher, nil)

	resp, err := service.RaiseEmergency(context.Background(), EmergencyRequest{Message: "  bleeding  "}, motherPrincipal)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Notified != 3 || resp.AlertID == "" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if len(broadcastTo) != 3 {
		t.Errorf("Expected 3 recipients, got %v", broadcastTo)
	}
	if broadcast.Title != EmergencyTitle {
		t.Errorf("Expected title %q, got %q", EmergencyTitle, broadcast.Title)
	}
	if want := "Ngozi Eze (MOM-0001) triggered an emergency: bleeding"; broadcast.Message != want {
		t.Errorf("Expected message %q, got %q", want, broadcast.Message)
	}
	if len(directory.roles) != 2 || directory.roles[0] != users.RoleAdmin || directory.roles[1] != users.RoleProvider {
		t.Errorf("Expected admin and provider roles, got %v", directory.roles)
	}

	publisher.AssertEventCount(t, messaging.EventEmergencyRaised, 1)
	event := publisher.GetLastEvent().EventData.(messaging.EmergencyRaisedEvent)
	if event.Data.AlertID != resp.AlertID || event.Data.Notified != 3 {
		t.Errorf("Unexpected event data: %+v", event.Data)
	}
}

// TestRaiseEmergency_DefaultMessage tests the fallback message
func TestRaiseEmergency_DefaultMessage(t *testing.T) {
	var broadcast Notification
	repo := &mockRepository{broadcastFunc: func(userIDs []int64, n Notification) error {
		broadcast = n
		return nil
	}}
	service := NewService(repo, &fakeDirectory{staff: []int64{1}}, nil, nil)

	if _, err := service.RaiseEmergency(context.Background(), EmergencyRequest{}, motherPrincipal); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.HasSuffix(broadcast.Message, "triggered an emergency: Emergency alert triggered") {
		t.Errorf("Unexpected message: %q", broadcast.Message)
	}
}

// TestRaiseEmergency_NoStaff tests the no recipients case
func TestRaiseEmergency_NoStaff(t *testing.T) {
	publisher := testutil.NewMockPublisher()
	service := NewService(&mockRepository{}, &fakeDirectory{}, publisher, nil)

	_, err := service.RaiseEmergency(context.Background(), EmergencyRequest{}, motherPrincipal)
	if !errors.Is(err, ErrNoRecipients) {
		t.Errorf("Expected ErrNoRecipients, got %v", err)
	}
	publisher.AssertEventNotPublished(t, messaging.EventEmergencyRaised)
}

// TestNotify tests the object reference on created notifications
func TestNotify(t *testing.T) {
	var created *Notification
	repo := &mockRepository{createFunc: func(n *Notification) error {
		created = n
		return nil
	}}
	service := NewService(repo, &fakeDirectory{}, nil, nil)

	if err := service.Notify(context.Background(), 10, "New Appointment", "msg", "appointment", 5); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if created.ObjectType == nil || *created.ObjectType != "appointment" || *created.ObjectID != 5 {
		t.Errorf("Unexpected object reference: %+v", created)
	}

	if err := service.Notify(context.Background(), 10, "Hello", "msg", "", 0); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if created.ObjectType != nil || created.ObjectID != nil {
		t.Errorf("Expected no object reference, got %+v", created)
	}
}

// TestHandlerListNotifications tests the unread filter
func TestHandlerListNotifications(t *testing.T) {
	var gotUnread bool
	repo := &mockRepository{listFunc: func(userID int64, unreadOnly bool, limit, offset int) ([]Notification, int, error) {
		gotUnread = unreadOnly
		return []Notification{}, 0, nil
	}}
	handler := NewHandler(NewService(repo, &fakeDirectory{}, nil, nil))

	for _, tc := range []struct {
		query    string
		expected bool
	}{
		{"?unread=true", true},
		{"?unread=false", false},
		{"", false},
	} {
		req := httptest.NewRequest(http.MethodGet, "/notifications"+tc.query, nil)
		req = req.WithContext(auth.ContextWithPrincipal(req.Context(), motherPrincipal))
		w := httptest.NewRecorder()
		handler.ListNotifications(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%q: expected status 200, got %d", tc.query, w.Code)
		}
		if gotUnread != tc.expected {
			t.Errorf("%q: expected unread %v, got %v", tc.query, tc.expected, gotUnread)
		}
	}
}

// TestHandlerMarkRead tests ownership and id parsing
func TestHandlerMarkRead(t *testing.T) {
	repo := &mockRepository{markReadFunc: func(userID, id int64) error {
		if userID == 10 && id == 1 {
			return nil
		}
		return ErrNotificationNotFound
	}}
	handler := NewHandler(NewService(repo, &fakeDirectory{}, nil, nil))

	for _, tc := range []struct {
		id             string
		expectedStatus int
	}{
		{"1", http.StatusOK},
		{"2", http.StatusNotFound},
		{"x", http.StatusBadRequest},
	} {
		req := httptest.NewRequest(http.MethodPost, "/notifications/"+tc.id+"/read", nil)
		req = req.WithContext(auth.ContextWithPrincipal(req.Context(), motherPrincipal))
		req = mux.SetURLVars(req, map[string]string{"id": tc.id})
		w := httptest.NewRecorder()
		handler.MarkRead(w, req)

		if w.Code != tc.expectedStatus {
			t.Errorf("id %s: expected status %d, got %d", tc.id, tc.expectedStatus, w.Code)
		}
	}
}

// TestList_Pagination tests offset calculation
func TestList_Pagination(t *testing.T) {
	var gotOffset int
	repo := &mockRepository{listFunc: func(userID int64, unreadOnly bool, limit, offset int) ([]Notification, int, error) {
		gotOffset = offset
		return []Notification{}, 45, nil
	}}
	service := NewService(repo, &fakeDirectory{}, nil, nil)

	resp, err := service.List(context.Background(), 10, false, pagination.Params{Page: 3, Limit: 20})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if gotOffset != 40 || resp.Pagination.TotalPages != 3 {
		t.Errorf("Expected offset 40 and 3 pages, got %d and %d", gotOffset, resp.Pagination.TotalPages)
	}
}

// Mock implementations

type mockRepository struct {
	createFunc      func(n *Notification) error
	broadcastFunc   func(userIDs []int64, n Notification) error
	listFunc        func(userID int64, unreadOnly bool, limit, offset int) ([]Notification, int, error)
	unreadCountFunc func(userID int64) (int, error)
	markReadFunc    func(userID, id int64) error
	markAllReadFunc func(userID int64) (int64, error)
}

func (m *mockRepository) Create(ctx context.Context, n *Notification) error {
	if m.createFunc != nil {
		return m.createFunc(n)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) Broadcast(ctx context.Context, userIDs []int64, n Notification) error {
	if m.broadcastFunc != nil {
		return m.broadcastFunc(userIDs, n)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]Notification, int, error) {
	if m.listFunc != nil {
		return m.listFunc(userID, unreadOnly, limit, offset)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockRepository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	if m.unreadCountFunc != nil {
		return m.unreadCountFunc(userID)
	}
	return 0, errors.New("not implemented")
}

func (m *mockRepository) MarkRead(ctx context.Context, userID, id int64) error {
	if m.markReadFunc != nil {
		return m.markReadFunc(userID, id)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	if m.markAllReadFunc != nil {
		return m.markAllReadFunc(userID)
	}
	return 0, errors.New("not implemented")
}

package examination

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/appointment"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/mothers"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/testutil"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/validation"
	"github.com/gorilla/mux"
)

var providerPrincipal = &auth.Principal{UserID: "sub-doc", LocalUserID: 2, Roles: []string{"PROVIDER"}}

type lookupFunc func(customID string) (int64, error)

func (f lookupFunc) ResolveID(ctx context.Context, customID string) (int64, error) {
	return f(customID)
}

func knownMother(customID string) (int64, error) {
	if customID == "MOM-0001" {
		return 10, nil
	}
	return 0, mothers.ErrMotherNotFound
}

// createEcho stores the request and assesses it like the repository does.
func createEcho(motherID int64, providerID *int64, req CreateExaminationRequest) (*Examination, error) {
	return &Examination{
		ID: 7, MotherID: motherID, MotherCustomID: "MOM-0001", ProviderID: providerID,
		VisitDate: req.VisitDate, Details: req.Details, Status: appointment.StatusPending,
		RiskStatus: AssessRisk(req.Vitals), CreatedAt: time.Now(),
	}, nil
}

type countingMetrics struct {
	operations []string
	highRisk   int
}

func (m *countingMetrics) RecordExaminationOperation(ctx context.Context, operation string) {
	m.operations = append(m.operations, operation)
}

func (m *countingMetrics) RecordHighRisk(ctx context.Context) {
	m.highRisk++
}

// TestCreateExamination_HighRisk tests events and metrics for a high risk visit
func TestCreateExamination_HighRisk(t *testing.T) {
	publisher := testutil.NewMockPublisher()
	metrics := &countingMetrics{}
	repo := &mockRepository{createFunc: createEcho}
	service := NewService(repo, lookupFunc(knownMother), publisher, nil, metrics)

	req := CreateExaminationRequest{VisitDate: "2026-03-01"}
	req.BPSystolic = intp(160)
	req.BPDiastolic = intp(100)

	exam, err := service.CreateExamination(context.Background(), "MOM-0001", req, providerPrincipal)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if exam.RiskStatus != RiskHigh {
		t.Errorf("Expected High, got %s", exam.RiskStatus)
	}
	if exam.ProviderID == nil || *exam.ProviderID != 2 {
		t.Errorf("Expected provider 2, got %v", exam.ProviderID)
	}

	publisher.AssertEventPublished(t, messaging.EventExaminationRecorded)
	publisher.AssertEventCount(t, messaging.EventHighRiskDetected, 1)
	event, ok := publisher.GetEventsByKey(messaging.EventHighRiskDetected)[0].EventData.(messaging.HighRiskDetectedEvent)
	if !ok || len(event.Data.Reasons) != 1 || event.Data.Reasons[0] != "hypertension" {
		t.Errorf("Unexpected high risk event: %+v", event)
	}
	if metrics.highRisk != 1 || len(metrics.operations) != 1 || metrics.operations[0] != "create" {
		t.Errorf("Unexpected metrics: %+v", metrics)
	}
}

// TestCreateExamination_Normal tests that no risk event is raised for a normal visit
func TestCreateExamination_Normal(t *testing.T) {
	publisher := testutil.NewMockPublisher()
	service := NewService(&mockRepository{createFunc: createEcho}, lookupFunc(knownMother), publisher, nil, nil)

	req := CreateExaminationRequest{VisitDate: "2026-03-01"}
	req.UrineProtein = strp("+")
	if _, err := service.CreateExamination(context.Background(), "MOM-0001", req, providerPrincipal); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	publisher.AssertEventPublished(t, messaging.EventExaminationRecorded)
	publisher.AssertEventNotPublished(t, messaging.EventHighRiskDetected)
}

// TestCreateExamination_PublishFailure tests that broker errors do not fail the write
func TestCreateExamination_PublishFailure(t *testing.T) {
	publisher := testutil.NewMockPublisher()
	publisher.FailKeys = map[string]bool{messaging.EventExaminationRecorded: true}
	service := NewService(&mockRepository{createFunc: createEcho}, lookupFunc(knownMother), publisher, nil, nil)

	if _, err := service.CreateExamination(context.Background(), "MOM-0001", CreateExaminationRequest{VisitDate: "2026-03-01"}, providerPrincipal); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

// TestCreateExamination_Validation tests request validation
func TestCreateExamination_Validation(t *testing.T) {
	service := NewService(&mockRepository{}, lookupFunc(knownMother), nil, nil, nil)

	testCases := []struct {
		name string
		req  CreateExaminationRequest
	}{
		{"missing visit date", CreateExaminationRequest{}},
		{"malformed visit date", CreateExaminationRequest{VisitDate: "01/03/2026"}},
		{"malformed next appointment", CreateExaminationRequest{VisitDate: "2026-03-01", Details: Details{NextAppointment: strp("tomorrow")}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateExamination(context.Background(), "MOM-0001", tc.req, providerPrincipal)
			if !errors.Is(err, validation.ErrInvalid) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

// TestUpdateExamination_InvalidStatus tests the status enum check
func TestUpdateExamination_InvalidStatus(t *testing.T) {
	service := NewService(&mockRepository{}, lookupFunc(knownMother), nil, nil, nil)
	status := appointment.Status("done")
	_, err := service.UpdateExamination(context.Background(), "MOM-0001", 7, UpdateExaminationRequest{Status: &status}, providerPrincipal)
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

// TestLatest tests that a mother without visits yields nil
func TestLatest(t *testing.T) {
	repo := &mockRepository{latestFunc: func(motherID int64) (*Examination, error) {
		return nil, ErrExaminationNotFound
	}}
	service := NewService(repo, lookupFunc(knownMother), nil, nil, nil)

	exam, err := service.Latest(context.Background(), 10)
	if err != nil || exam != nil {
		t.Errorf("Expected nil, nil; got %v, %v", exam, err)
	}
}

// TestListExaminations_Pagination tests limit and offset pass-through
func TestListExaminations_Pagination(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &mockRepository{listFunc: func(motherID int64, limit, offset int) ([]Examination, int, error) {
		gotLimit, gotOffset = limit, offset
		return []Examination{{ID: 1}}, 21, nil
	}}
	service := NewService(repo, lookupFunc(knownMother), nil, nil, nil)

	resp, err := service.ListExaminations(context.Background(), "MOM-0001", pagination.Params{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if gotLimit != 10 || gotOffset != 10 {
		t.Errorf("Expected limit 10 offset 10, got %d %d", gotLimit, gotOffset)
	}
	if resp.Pagination.TotalPages != 3 {
		t.Errorf("Expected 3 pages, got %d", resp.Pagination.TotalPages)
	}
}

// TestHandlerGetExamination tests status mapping for lookups
func TestHandlerGetExamination(t *testing.T) {
	repo := &mockRepository{getFunc: func(motherID, id int64) (*Examination, error) {
		if id == 7 {
			return &Examination{ID: 7, MotherID: motherID, RiskStatus: RiskNormal}, nil
		}
		return nil, ErrExaminationNotFound
	}}
	handler := NewHandler(NewService(repo, lookupFunc(knownMother), nil, nil, nil))

	testCases := []struct {
		customID       string
		id             string
		expectedStatus int
	}{
		{"MOM-0001", "7", http.StatusOK},
		{"MOM-0001", "8", http.StatusNotFound},
		{"MOM-0404", "7", http.StatusNotFound},
		{"MOM-0001", "abc", http.StatusBadRequest},
	}
	for _, tc := range testCases {
		req := httptest.NewRequest(http.MethodGet, "/mothers/"+tc.customID+"/examinations/"+tc.id, nil)
		req = mux.SetURLVars(req, map[string]string{"customID": tc.customID, "id": tc.id})
		w := httptest.NewRecorder()
		handler.GetExamination(w, req)

		if w.Code != tc.expectedStatus {
			t.Errorf("%s/%s: expected status %d, got %d", tc.customID, tc.id, tc.expectedStatus, w.Code)
		}
	}
}

// TestHandlerCreateExamination tests the risk status in the response body
func TestHandlerCreateExamination(t *testing.T) {
	handler := NewHandler(NewService(&mockRepository{createFunc: createEcho}, lookupFunc(knownMother), nil, nil, nil))

	body := `{"visit_date":"2026-03-01","oedema":"severe"}`
	req := httptest.NewRequest(http.MethodPost, "/mothers/MOM-0001/examinations", strings.NewReader(body))
	req = req.WithContext(auth.ContextWithPrincipal(req.Context(), providerPrincipal))
	req = mux.SetURLVars(req, map[string]string{"customID": "MOM-0001"})
	w := httptest.NewRecorder()
	handler.CreateExamination(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"risk_status":"High"`) {
		t.Errorf("Expected High risk in body, got %s", w.Body.String())
	}
}

// Mock implementations

type mockRepository struct {
	createFunc func(motherID int64, providerID *int64, req CreateExaminationRequest) (*Examination, error)
	listFunc   func(motherID int64, limit, offset int) ([]Examination, int, error)
	getFunc    func(motherID, id int64) (*Examination, error)
	latestFunc func(motherID int64) (*Examination, error)
	updateFunc func(motherID, id int64, req UpdateExaminationRequest) (*Examination, error)
	deleteFunc func(motherID, id int64) error
}

func (m *mockRepository) Create(ctx context.Context, motherID int64, providerID *int64, req CreateExaminationRequest) (*Examination, error) {
	if m.createFunc != nil {
		return m.createFunc(motherID, providerID, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) List(ctx context.Context, motherID int64, limit, offset int) ([]Examination, int, error) {
	if m.listFunc != nil {
		return m.listFunc(motherID, limit, offset)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockRepository) Get(ctx context.Context, motherID, id int64) (*Examination, error) {
	if m.getFunc != nil {
		return m.getFunc(motherID, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) Latest(ctx context.Context, motherID int64) (*Examination, error) {
	if m.latestFunc != nil {
		return m.latestFunc(motherID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) Update(ctx context.Context, motherID, id int64, req UpdateExaminationRequest) (*Examination, error) {
	if m.updateFunc != nil {
		return m.updateFunc(motherID, id, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) Delete(ctx context.Context, motherID, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(motherID, id)
	}
	return errors.New("not implemented")
}

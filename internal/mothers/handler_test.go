package mothers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/gorilla/mux"
)

// mockService implements ServiceInterface for testing
type mockService struct {
	createMotherFunc func(req CreateMotherRequest) (*Mother, error)
	listMothersFunc  func(params pagination.Params, from, to *time.Time) (*PaginatedMotherListResponse, error)
	getMotherFunc    func(customID string) (*Mother, error)
	updateMotherFunc func(customID string, req UpdateMotherRequest) (*Mother, error)
	deleteMotherFunc func(customID string) error
}

func (m *mockService) CreateMother(ctx context.Context, req CreateMotherRequest, principal *auth.Principal) (*Mother, error) {
	if m.createMotherFunc != nil {
		return m.createMotherFunc(req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) ListMothers(ctx context.Context, params pagination.Params, from, to *time.Time) (*PaginatedMotherListResponse, error) {
	if m.listMothersFunc != nil {
		return m.listMothersFunc(params, from, to)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) GetMother(ctx context.Context, customID string) (*Mother, error) {
	if m.getMotherFunc != nil {
		return m.getMotherFunc(customID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) UpdateMother(ctx context.Context, customID string, req UpdateMotherRequest, principal *auth.Principal) (*Mother, error) {
	if m.updateMotherFunc != nil {
		return m.updateMotherFunc(customID, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) DeleteMother(ctx context.Context, customID string, principal *auth.Principal) error {
	if m.deleteMotherFunc != nil {
		return m.deleteMotherFunc(customID)
	}
	return errors.New("not implemented")
}

func withProvider(req *http.Request) *http.Request {
	return req.WithContext(auth.ContextWithPrincipal(req.Context(), providerPrincipal))
}

// TestHandlerCreateMother tests the created response body
func TestHandlerCreateMother(t *testing.T) {
	handler := NewHandler(&mockService{
		createMotherFunc: func(req CreateMotherRequest) (*Mother, error) {
			return &Mother{ID: 1, CustomID: "MOM-0001", FirstName: req.FirstName}, nil
		},
	})

	body, _ := json.Marshal(validCreateRequest())
	req := withProvider(httptest.NewRequest(http.MethodPost, "/mothers", bytes.NewReader(body)))
	w := httptest.NewRecorder()
	handler.CreateMother(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}
	var resp MotherSuccessResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if !resp.Success || resp.Mother == nil || resp.Mother.CustomID != "MOM-0001" {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

// TestHandlerListMothers_DateParams tests from/to parsing
func TestHandlerListMothers_DateParams(t *testing.T) {
	var gotFrom, gotTo *time.Time
	handler := NewHandler(&mockService{
		listMothersFunc: func(params pagination.Params, from, to *time.Time) (*PaginatedMotherListResponse, error) {
			gotFrom, gotTo = from, to
			return &PaginatedMotherListResponse{Mothers: []Mother{}}, nil
		},
	})

	testCases := []struct {
		query          string
		expectedStatus int
		expectFrom     bool
		expectTo       bool
	}{
		{"", http.StatusOK, false, false},
		{"?from=2026-01-01", http.StatusOK, true, false},
		{"?from=2026-01-01&to=2026-02-01", http.StatusOK, true, true},
		{"?from=01-01-2026", http.StatusBadRequest, false, false},
		{"?to=yesterday", http.StatusBadRequest, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			gotFrom, gotTo = nil, nil
			w := httptest.NewRecorder()
			handler.ListMothers(w, withProvider(httptest.NewRequest(http.MethodGet, "/mothers"+tc.query, nil)))

			if w.Code != tc.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tc.expectedStatus, w.Code)
			}
			if (gotFrom != nil) != tc.expectFrom || (gotTo != nil) != tc.expectTo {
				t.Errorf("Unexpected dates from=%v to=%v", gotFrom, gotTo)
			}
		})
	}
}

// TestHandlerGetMother_Errors tests error mapping
func TestHandlerGetMother_Errors(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"not found", ErrMotherNotFound, http.StatusNotFound},
		{"bad id", ErrInvalidCustomID, http.StatusBadRequest},
		{"internal", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewHandler(&mockService{
				getMotherFunc: func(customID string) (*Mother, error) { return nil, tc.err },
			})
			req := withProvider(httptest.NewRequest(http.MethodGet, "/mothers/MOM-0009", nil))
			req = mux.SetURLVars(req, map[string]string{"customID": "MOM-0009"})
			w := httptest.NewRecorder()
			handler.GetMother(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, w.Code)
			}
		})
	}
}

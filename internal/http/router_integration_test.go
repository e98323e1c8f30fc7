//go:build integration

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/testutil"
)

// TestClinicFlow_Integration tests a provider visit, the mother's dashboard
// and an emergency alert through the full middleware chain
func TestClinicFlow_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	perms, err := auth.LoadPermissions("../../permissions.yml")
	if err != nil {
		t.Fatalf("Failed to load permissions: %v", err)
	}
	verifier, key := testutil.NewTestVerifier(t)

	server := httptest.NewServer(SetupRouter(Deps{
		DB:          db,
		Verifier:    verifier,
		Permissions: perms,
		Publisher:   testutil.NewMockPublisher(),
	}))
	defer server.Close()

	testutil.CreateTestUser(t, db, "provider", "DOC-0001", "Chidi", "Okafor")
	testutil.CreateTestUser(t, db, "mother", "MOM-0001", "Ngozi", "Eze")

	provider := testutil.NewAPIClient(server.URL, testutil.GenerateTestJWT(t, key, "sub-provider", "doc-0001"))
	mother := testutil.NewAPIClient(server.URL, testutil.GenerateTestJWT(t, key, "sub-mother", "mom-0001"))

	t.Run("me links the local account", func(t *testing.T) {
		resp := provider.Do(t, http.MethodGet, "/me", nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var me map[string]interface{}
		testutil.DecodeJSON(t, resp, &me)
		if me["custom_id"] != "DOC-0001" || me["role"] != "provider" || me["name"] != "Chidi Okafor" {
			t.Errorf("Unexpected profile: %v", me)
		}
	})

	t.Run("provider records a high risk visit", func(t *testing.T) {
		resp := provider.Do(t, http.MethodPost, "/mothers/MOM-0001/examinations", map[string]interface{}{
			"visit_date":       "2026-10-01",
			"bp_systolic":      150,
			"bp_diastolic":     95,
			"next_appointment": "2026-10-20",
		})
		testutil.AssertStatusCode(t, resp, http.StatusCreated)

		var exam map[string]interface{}
		testutil.DecodeJSON(t, resp, &exam)
		if exam["risk_status"] != "High" {
			t.Errorf("Expected risk High, got %v", exam["risk_status"])
		}
	})

	t.Run("mother sees the risk on her dashboard", func(t *testing.T) {
		resp := mother.Do(t, http.MethodGet, "/mother/dashboard", nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var body struct {
			HealthSummary struct {
				Name       string `json:"name"`
				RiskStatus string `json:"risk_status"`
			} `json:"health_summary"`
		}
		testutil.DecodeJSON(t, resp, &body)
		if body.HealthSummary.RiskStatus != "High" || body.HealthSummary.Name != "Ngozi Eze" {
			t.Errorf("Unexpected summary: %+v", body.HealthSummary)
		}
	})

	t.Run("mother cannot list mothers", func(t *testing.T) {
		resp := mother.Do(t, http.MethodGet, "/mothers", nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("Expected status 403, got %d", resp.StatusCode)
		}
	})

	t.Run("emergency reaches the provider", func(t *testing.T) {
		resp := mother.Do(t, http.MethodPost, "/mother/emergency", map[string]string{"message": "Heavy bleeding"})
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
		resp.Body.Close()

		resp = provider.Do(t, http.MethodGet, "/notifications?unread=true", nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var list struct {
			Notifications []struct {
				Title string `json:"title"`
			} `json:"notifications"`
		}
		testutil.DecodeJSON(t, resp, &list)
		if len(list.Notifications) != 1 || list.Notifications[0].Title != "Emergency Alert" {
			t.Errorf("Expected one emergency notification, got %+v", list.Notifications)
		}
	})
}

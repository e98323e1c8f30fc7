//go:build integration

package mothers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/testutil"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
)

// TestRepositoryCreateAndGet_Integration tests account and profile persistence
func TestRepositoryCreateAndGet_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	providerID := testutil.CreateTestUser(t, db, "provider", "DOC-0001", "Chidi", "Okafor")
	repo := NewRepository(db, users.NewRepository(db))
	ctx := context.Background()

	m, err := repo.Create(ctx, validCreateRequest(), &providerID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if m.CustomID != "MOM-0001" || m.Name != "Ngozi Eze" {
		t.Errorf("Unexpected mother: %+v", m)
	}
	if m.DateOfBirth == nil || *m.DateOfBirth != "1995-04-12" {
		t.Errorf("Expected date of birth 1995-04-12, got %v", m.DateOfBirth)
	}
	if m.NextOfKin.Relationship != "husband" {
		t.Errorf("Expected next of kin relationship husband, got %q", m.NextOfKin.Relationship)
	}
	if m.CreatedBy == nil || *m.CreatedBy != providerID {
		t.Errorf("Expected created_by %d, got %v", providerID, m.CreatedBy)
	}

	occupation := "Trader"
	phone := "+2348099999999"
	updated, err := repo.Update(ctx, m.ID, UpdateMotherRequest{Occupation: &occupation, PhoneNumber: &phone})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Occupation != occupation || updated.PhoneNumber != phone {
		t.Errorf("Expected occupation and phone updated, got %+v", updated)
	}

	if err := repo.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByCustomID(ctx, "MOM-0001"); !errors.Is(err, ErrMotherNotFound) {
		t.Errorf("Expected ErrMotherNotFound after delete, got %v", err)
	}
}

// TestRepositoryList_Integration tests search and registration date range
func TestRepositoryList_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewRepository(db, users.NewRepository(db))
	ctx := context.Background()

	oldID := testutil.CreateTestUser(t, db, "mother", "MOM-0001", "Amina", "Bello")
	testutil.CreateTestUser(t, db, "mother", "MOM-0002", "Ngozi", "Eze")
	testutil.CreateTestUser(t, db, "provider", "DOC-0001", "Chidi", "Okafor")
	if _, err := db.Exec(`UPDATE users SET created_at = '2025-06-01T10:00:00Z' WHERE id = $1`, oldID); err != nil {
		t.Fatalf("Failed to backdate mother: %v", err)
	}

	all, total, err := repo.List(ctx, ListFilter{Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("Expected 2 mothers, got %d", total)
	}

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	ranged, total, err := repo.List(ctx, ListFilter{From: &from, To: &to, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || ranged[0].CustomID != "MOM-0001" {
		t.Errorf("Expected only MOM-0001 in June 2025, got %+v", ranged)
	}

	searched, total, err := repo.List(ctx, ListFilter{Search: "ngozi", Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || searched[0].CustomID != "MOM-0002" {
		t.Errorf("Expected search to find MOM-0002, got %+v", searched)
	}
}

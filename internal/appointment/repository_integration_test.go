//go:build integration

package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/testutil"
)

// TestRepositoryPatchRouting_Integration tests that status writes land in the table named by source
func TestRepositoryPatchRouting_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	motherID := testutil.CreateTestUser(t, db, "mother", "MOM-0001", "Ngozi", "Eze")
	providerID := testutil.CreateTestUser(t, db, "provider", "DOC-0001", "Chidi", "Okafor")
	repo := NewRepository(db)
	ctx := context.Background()

	a, err := repo.Create(ctx, &Appointment{
		PatientID:       motherID,
		ProviderID:      &providerID,
		AppointmentType: "Scan",
		AppointmentDate: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.PatientName != "Ngozi Eze" || a.ProviderName == nil || *a.ProviderName != "Chidi Okafor" {
		t.Errorf("Unexpected names: %q %v", a.PatientName, a.ProviderName)
	}
	if a.Status != StatusPending {
		t.Errorf("Expected pending, got %s", a.Status)
	}

	if err := repo.SetStatus(ctx, SourceAdmin, a.ID, StatusCompleted); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	// No examination shares the appointment's id.
	if err := repo.SetStatus(ctx, SourceProvider, a.ID, StatusCancelled); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for provider source, got %v", err)
	}

	got, err := repo.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("Expected completed, got %s", got.Status)
	}
}

// TestRepositoryScheduledExaminations_Integration tests the provider source query
func TestRepositoryScheduledExaminations_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	motherID := testutil.CreateTestUser(t, db, "mother", "MOM-0001", "Ngozi", "Eze")
	otherID := testutil.CreateTestUser(t, db, "mother", "MOM-0002", "Amaka", "Obi")
	ctx := context.Background()

	for _, stmt := range []struct {
		mother int64
		next   interface{}
		active bool
	}{
		{motherID, "2024-05-02", true},
		{motherID, nil, true},
		{motherID, "2024-06-01", false},
		{otherID, "2024-05-10", true},
	} {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO examinations (mother_id, visit_date, next_appointment, is_active)
			VALUES ($1, '2024-04-01', $2, $3)
		`, stmt.mother, stmt.next, stmt.active); err != nil {
			t.Fatalf("Failed to insert examination: %v", err)
		}
	}

	repo := NewRepository(db)
	mine, err := repo.ScheduledExaminations(ctx, &motherID)
	if err != nil {
		t.Fatalf("ScheduledExaminations failed: %v", err)
	}
	if len(mine) != 1 || *mine[0].NextAppointment != "2024-05-02" {
		t.Errorf("Expected one scheduled examination on 2024-05-02, got %+v", mine)
	}
	if mine[0].Mother.FirstName != "Ngozi" {
		t.Errorf("Expected mother Ngozi, got %+v", mine[0].Mother)
	}

	all, err := repo.ScheduledExaminations(ctx, nil)
	if err != nil {
		t.Fatalf("ScheduledExaminations failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 scheduled examinations, got %d", len(all))
	}
}

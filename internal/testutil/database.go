package testutil

import (
	"database/sql"
	"os"
	"strings"
	"testing"

	_ "github.com/lib/pq"
)

// SetupTestDB connects to TEST_DATABASE_URL and makes sure the schema exists.
// Tests are skipped when the variable is unset.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	BootstrapSchema(t, db)
	return db
}

// BootstrapSchema creates the clinic tables if they are missing.
func BootstrapSchema(t *testing.T, db *sql.DB) {
	t.Helper()

	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("Failed to bootstrap schema: %v", err)
	}
}

// CleanupTestDB empties every clinic table and restarts their sequences.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()

	_, err := db.Exec("TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE")
	if err != nil {
		t.Logf("Warning: Failed to clean up test database: %v", err)
	}
}

// CreateTestUser inserts an active user with the given role and custom id.
func CreateTestUser(t *testing.T, db *sql.DB, role, customID, firstName, lastName string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`
		INSERT INTO users (username, first_name, last_name, phone_number, custom_id, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, strings.ToLower(customID), firstName, lastName, "+234800"+customID[4:], customID, role).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user %s: %v", customID, err)
	}
	return id
}

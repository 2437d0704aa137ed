package database

import (
	"path/filepath"
	"testing"
)

func TestEnsureSchema_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	// 1. Initialize schema
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("First Open failed: %v", err)
	}

	// 2. Insert a record
	_, err = db.Exec(`INSERT INTO saved_places (name, latitude, longitude) VALUES ('Home', 28.6, 77.2)`)
	db.Close()
	if err != nil {
		t.Fatalf("Failed to insert record: %v", err)
	}

	// 3. Initialize schema again (should not drop table)
	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Second Open failed: %v", err)
	}
	defer db.Close()

	// 4. Verify record exists
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM saved_places WHERE name = 'Home'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query record: %v", err)
	}

	if count != 1 {
		t.Errorf("Expected 1 record, got %d. Data was likely lost due to table drop.", count)
	}
}

func TestEnsureSchema_UniqueNameIgnoresCase(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`INSERT INTO saved_places (name, latitude, longitude) VALUES ('Office', 1, 2)`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO saved_places (name, latitude, longitude) VALUES ('office', 3, 4)`); err == nil {
		t.Error("expected unique constraint violation for duplicate name")
	}
}

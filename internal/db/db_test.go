package db

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
)

// createTestDB initializes and opens a database in a temp directory
func createTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "taskflow.db")
	if err := Initialize(dbPath); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	database, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database
}

func TestOpenMissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")

	_, err := Open(dbPath, nil)
	if err == nil {
		t.Fatal("expected error opening missing database")
	}
	if !strings.Contains(err.Error(), "taskflow init") {
		t.Errorf("expected init hint in error, got %v", err)
	}
}

func TestInitializeRefusesExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "taskflow.db")
	if err := Initialize(dbPath); err != nil {
		t.Fatal(err)
	}
	if err := Initialize(dbPath); err == nil {
		t.Fatal("expected error initializing an existing database")
	}
}

func TestOpenOrInitialize(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "taskflow.db")

	database, err := OpenOrInitialize(dbPath, nil)
	if err != nil {
		t.Fatalf("OpenOrInitialize failed: %v", err)
	}
	database.Close()

	// Second call opens the existing file
	database, err = OpenOrInitialize(dbPath, nil)
	if err != nil {
		t.Fatalf("reopening failed: %v", err)
	}
	database.Close()
}

func TestSlotLifecycle(t *testing.T) {
	database := createTestDB(t)

	if _, ok, err := database.GetItem("taskflow-storage"); ok || err != nil {
		t.Fatalf("Given an empty database When reading a slot Then absent: ok=%v err=%v", ok, err)
	}

	if err := database.SetItem("taskflow-storage", `{"v":1}`); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	if err := database.SetItem("taskflow-storage", `{"v":2}`); err != nil {
		t.Fatalf("overwriting SetItem failed: %v", err)
	}

	value, ok, err := database.GetItem("taskflow-storage")
	if err != nil || !ok {
		t.Fatalf("GetItem ok=%v err=%v", ok, err)
	}
	if value != `{"v":2}` {
		t.Errorf("value = %q, want latest write", value)
	}

	if err := database.RemoveItem("taskflow-storage"); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if err := database.RemoveItem("taskflow-storage"); err != nil {
		t.Fatalf("removing an absent slot should succeed: %v", err)
	}
	if _, ok, _ := database.GetItem("taskflow-storage"); ok {
		t.Error("slot still present after RemoveItem")
	}
}

func TestListSlots(t *testing.T) {
	database := createTestDB(t)

	for name, value := range map[string]string{"b": "12345", "a": "1"} {
		if err := database.SetItem(name, value); err != nil {
			t.Fatal(err)
		}
	}

	slots, err := database.ListSlots()
	if err != nil {
		t.Fatalf("ListSlots failed: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	if slots[0].Name != "a" || slots[1].Name != "b" {
		t.Errorf("slots not ordered by name: %+v", slots)
	}
	if slots[1].Size != 5 {
		t.Errorf("Size = %d, want 5", slots[1].Size)
	}
	if slots[0].CreatedAt.IsZero() || slots[0].UpdatedAt.IsZero() {
		t.Errorf("timestamps not populated: %+v", slots[0])
	}
}

func TestListSlotsSizeCountsBytes(t *testing.T) {
	database := createTestDB(t)

	// "café ☕" is 6 characters but 9 bytes in UTF-8
	if err := database.SetItem("taskflow_user", "café ☕"); err != nil {
		t.Fatal(err)
	}

	slots, err := database.ListSlots()
	if err != nil {
		t.Fatalf("ListSlots failed: %v", err)
	}
	if len(slots) != 1 || slots[0].Size != len("café ☕") {
		t.Errorf("slots = %+v, want Size %d", slots, len("café ☕"))
	}
}

func TestMigrationsUpgradeLegacySchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "legacy.db")

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`CREATE TABLE slots (name TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`INSERT INTO slots (name, value) VALUES ('taskflow-storage', '{}')`); err != nil {
		t.Fatal(err)
	}
	conn.Close()

	database, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("Open with legacy schema failed: %v", err)
	}
	defer database.Close()

	slots, err := database.ListSlots()
	if err != nil {
		t.Fatalf("ListSlots after migration failed: %v", err)
	}
	if len(slots) != 1 || slots[0].CreatedAt.IsZero() {
		t.Errorf("expected backfilled legacy slot, got %+v", slots)
	}

	// Upserts work against the migrated table
	if err := database.SetItem("taskflow-storage", `{"v":1}`); err != nil {
		t.Errorf("SetItem after migration failed: %v", err)
	}
}

func TestMigrationsCreateMissingTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	// Force the file into existence
	if _, err := conn.Exec(`CREATE TABLE unrelated (id INTEGER)`); err != nil {
		t.Fatal(err)
	}
	conn.Close()

	database, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	if err := database.SetItem("x", "y"); err != nil {
		t.Errorf("SetItem on migrated database failed: %v", err)
	}
}

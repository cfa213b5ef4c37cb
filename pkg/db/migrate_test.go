package db

import (
	"testing"
)

func TestUpgradeFreshDatabase(t *testing.T) {
	conn, err := OpenDBConnection(":memory:", true, "NORMAL")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	defer conn.Close()

	if err := UpgradeDB(conn, ":memory:", TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB failed: %v", err)
	}

	version, err := GetComponentSchemaVersion(conn, FilesDBComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed: %v", err)
	}
	if version != TargetSchemaVersion {
		t.Errorf("version = %d, want %d", version, TargetSchemaVersion)
	}

	// Upgrading an up-to-date database is a no-op.
	if err := UpgradeDB(conn, ":memory:", TargetSchemaVersion); err != nil {
		t.Errorf("second UpgradeDB failed: %v", err)
	}

	// The files table must exist and accept rows.
	if _, err := conn.Exec(`INSERT INTO files (name, data) VALUES ('diary.json', '{}')`); err != nil {
		t.Errorf("insert into files failed: %v", err)
	}
}

func TestGetComponentSchemaVersionMissingTable(t *testing.T) {
	conn, err := OpenDBConnection(":memory:", false, "")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	defer conn.Close()

	version, err := GetComponentSchemaVersion(conn, FilesDBComponent)
	if err != nil {
		t.Fatalf("expected missing table to read as version 0, got error: %v", err)
	}
	if version != 0 {
		t.Errorf("version = %d, want 0", version)
	}
}

func TestOpenDBConnectionRejectsBadSyncMode(t *testing.T) {
	if _, err := OpenDBConnection(":memory:", false, "SOMETIMES"); err == nil {
		t.Error("expected error for invalid sync pragma")
	}
}

package db

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
)

const (
	// TargetSchemaVersion is the highest schema version this build
	// supports for the filesdb component.
	TargetSchemaVersion int64 = 1
	// FilesDBComponent is the name of the local blob store component.
	FilesDBComponent = "filesdb"
)

// GetComponentSchemaVersion retrieves the schema version for a given
// component. Returns 0 when the component is unknown or the versions
// table does not exist yet.
func GetComponentSchemaVersion(db *sql.DB, componentName string) (int64, error) {
	query := `SELECT version FROM healthlog_versions WHERE component = ?;`
	row := db.QueryRow(query, componentName)

	var version int64
	err := row.Scan(&version)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), "healthlog_versions") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates the blob store tables and records the schema
// version for the filesdb component.
func InitializeSchema(db *sql.DB, schemaVersionToSet int64) error {
	_, err := db.Exec(SchemaV1)
	if err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	insertVersionSQL := `
INSERT INTO healthlog_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	_, err = db.Exec(insertVersionSQL, FilesDBComponent, schemaVersionToSet)
	if err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", FilesDBComponent, schemaVersionToSet, err)
	}

	return nil
}

// UpgradeDB brings the filesdb component of the database at dbIdentifierForLog
// up to appTargetSchemaVersion, initializing it when brand new.
func UpgradeDB(db *sql.DB, dbIdentifierForLog string, appTargetSchemaVersion int64) error {
	currentDBVersion, err := GetComponentSchemaVersion(db, FilesDBComponent)
	if err != nil {
		return err
	}

	switch {
	case currentDBVersion == 0:
		fmt.Fprintf(os.Stderr, "Component %s in database '%s' is uninitialized. Initializing to schema version %d...\n", FilesDBComponent, dbIdentifierForLog, appTargetSchemaVersion)
		if err := InitializeSchema(db, appTargetSchemaVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", FilesDBComponent, dbIdentifierForLog, err)
		}
		return nil
	case currentDBVersion == appTargetSchemaVersion:
		return nil
	case currentDBVersion < appTargetSchemaVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, older than target %d. Automatic migration from this version is not supported", FilesDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, newer than target %d. Please upgrade the application", FilesDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	}
}

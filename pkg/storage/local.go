package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pkgdb "github.com/healthlog-app/healthlog/pkg/db"
)

const (
	getFileStatement = `
	SELECT data
	FROM files
	WHERE name = ?
	`

	putFileStatement = `
	INSERT INTO files (name, data) VALUES (?, ?)
	ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = unixepoch()
	`

	listFilesStatement = `
	SELECT name, LENGTH(data), updated_at
	FROM files
	ORDER BY name ASC
	`

	deleteFileStatement = `
	DELETE FROM files
	WHERE name = ?
	`
)

// LocalStore keeps guest (device-only) documents in a SQLite files
// table, the same shape the remote API stores server-side.
type LocalStore struct {
	db *sql.DB
}

// OpenLocalStore opens (and if needed initializes) the local store at
// dbPath.
func OpenLocalStore(dbPath string, enableWAL bool, syncPragma string) (*LocalStore, error) {
	conn, err := pkgdb.OpenDBConnection(dbPath, enableWAL, syncPragma)
	if err != nil {
		return nil, err
	}
	if err := pkgdb.UpgradeDB(conn, dbPath, pkgdb.TargetSchemaVersion); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize local store at '%s': %w", dbPath, err)
	}
	return &LocalStore{db: conn}, nil
}

// NewLocalStore wraps an already opened and migrated connection.
// Tests use this with an in-memory database.
func NewLocalStore(db *sql.DB) *LocalStore {
	return &LocalStore{db: db}
}

func (s *LocalStore) Get(ctx context.Context, name string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, getFileStatement, name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(data), nil
}

func (s *LocalStore) Put(ctx context.Context, name string, doc []byte) error {
	_, err := s.db.ExecContext(ctx, putFileStatement, name, string(doc))
	return err
}

// Delete removes a document; used by the full purge flow.
func (s *LocalStore) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, deleteFileStatement, name)
	return err
}

// FileInfo describes one stored document.
type FileInfo struct {
	Name      string  `json:"name"`
	Size      int64   `json:"size"`
	UpdatedAt float64 `json:"updated_at"`
}

// List enumerates stored documents by name.
func (s *LocalStore) List(ctx context.Context) ([]FileInfo, error) {
	rows, err := s.db.QueryContext(ctx, listFilesStatement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []FileInfo
	for rows.Next() {
		var info FileInfo
		if err := rows.Scan(&info.Name, &info.Size, &info.UpdatedAt); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Close checkpoints the WAL and closes the underlying connection.
func (s *LocalStore) Close() error {
	if s.db == nil {
		return nil
	}
	// TRUNCATE waits for transactions and writes the WAL back to the main DB.
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
	return s.db.Close()
}

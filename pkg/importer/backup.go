package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/healthlog-app/healthlog/pkg/records"
)

// Backup is a self-contained snapshot of every dataset, suitable for
// moving between devices or restoring after a purge.
type Backup struct {
	ID        string                      `json:"id"`
	CreatedAt string                      `json:"created_at"`
	Datasets  map[string]*records.Dataset `json:"datasets"`
}

// NewBackup snapshots the given datasets under a fresh backup id.
func NewBackup(datasets map[records.Kind]*records.Dataset) *Backup {
	b := &Backup{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Datasets:  make(map[string]*records.Dataset, len(datasets)),
	}
	for kind, ds := range datasets {
		if ds != nil {
			b.Datasets[kind.String()] = ds
		}
	}
	return b
}

// WriteBackup serializes the backup as indented JSON.
func WriteBackup(w io.Writer, b *Backup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// ReadBackup parses a backup document and rejects datasets under keys
// that do not name a known record kind.
func ReadBackup(r io.Reader) (*Backup, error) {
	var b Backup
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to parse backup: %w", err)
	}
	for key := range b.Datasets {
		if _, err := records.ParseKind(key); err != nil {
			return nil, fmt.Errorf("backup contains unknown dataset '%s': %w", key, err)
		}
	}
	return &b, nil
}

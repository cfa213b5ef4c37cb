// Package app ties the record pipeline together for one session: it owns
// the in-memory datasets, the tag catalog, and the storage reconciler,
// and exposes the operations the CLI, TUI, and MCP surfaces call into.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/healthlog-app/healthlog/pkg/catalog"
	"github.com/healthlog-app/healthlog/pkg/chatctx"
	"github.com/healthlog-app/healthlog/pkg/importer"
	"github.com/healthlog-app/healthlog/pkg/records"
	"github.com/healthlog-app/healthlog/pkg/storage"
)

// ErrDuplicateEntry reports a manual entry whose timestamp collides with
// an existing row.
var ErrDuplicateEntry = errors.New("an entry already exists at this date and hour")

// App is the session-scoped application state. It is safe for concurrent
// use; the MCP server may invoke operations from multiple goroutines.
type App struct {
	mu       sync.Mutex
	rec      *storage.Reconciler
	datasets map[records.Kind]*records.Dataset
	cat      *catalog.Catalog
}

// New wraps a reconciler. Call Load before any other operation.
func New(rec *storage.Reconciler) *App {
	return &App{
		rec:      rec,
		datasets: make(map[records.Kind]*records.Dataset, len(records.Kinds)),
	}
}

// Load pulls every dataset from storage, canonicalizes legacy shapes in
// place, and initializes the tag catalog from the pain dataset. Datasets
// whose stored shape needed fixing are written back immediately. A
// storage.ErrSessionExpired from any load is returned after all kinds
// are loaded; the app is still usable on the local copies.
func (a *App) Load(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var sessionLost bool
	for _, kind := range records.Kinds {
		ds, err := a.rec.Load(ctx, kind)
		if errors.Is(err, storage.ErrSessionExpired) {
			sessionLost = true
		} else if err != nil {
			return err
		}

		ds, changed := records.CanonicalizeDataset(kind, ds)
		a.datasets[kind] = ds
		if changed {
			if err := a.save(ctx, kind); err != nil && !errors.Is(err, storage.ErrSessionExpired) {
				return err
			}
		}
	}

	a.cat = catalog.Load(a.datasets[records.KindPain])

	if sessionLost {
		return storage.ErrSessionExpired
	}
	return nil
}

// Dataset returns the loaded dataset for kind, or nil before Load.
func (a *App) Dataset(kind records.Kind) *records.Dataset {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.datasets[kind]
}

// Catalog returns the session's tag catalog.
func (a *App) Catalog() *catalog.Catalog {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cat
}

// save persists one dataset, attaching the tag catalog payload to the
// pain document so explicit removals survive reloads. Callers hold a.mu.
func (a *App) save(ctx context.Context, kind records.Kind) error {
	ds := a.datasets[kind]
	if kind == records.KindPain && a.cat != nil {
		a.cat.Attach(ds)
	}
	return a.rec.Save(ctx, kind, ds)
}

// Flush forces any debounced saves through to storage.
func (a *App) Flush(ctx context.Context) error {
	return a.rec.Flush(ctx)
}

// ImportTable validates, normalizes, and merges a parsed table into the
// dataset for kind. No mutation happens when required columns are
// missing. The merged dataset is persisted before returning.
func (a *App) ImportTable(ctx context.Context, kind records.Kind, table *importer.RawTable, source string) (records.MergeResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := records.ValidateHeaders(kind, table.Headers); err != nil {
		return records.MergeResult{}, err
	}

	mapped := records.MapRows(kind, table.Headers, table.Rows)
	result := records.Merge(a.datasets[kind], mapped.Rows, mapped.Headers, source)
	a.datasets[kind] = result.Dataset

	if err := a.save(ctx, kind); err != nil {
		return result, err
	}
	return result, nil
}

// LogEntry records one manual entry. Empty date and hour default to the
// current day and minute. The entry goes through the same normalization
// pipeline as imports; a timestamp collision with an existing row is an
// error rather than a silent skip.
func (a *App) LogEntry(ctx context.Context, kind records.Kind, fields records.Row) (records.Row, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	row := fields.Clone()
	now := time.Now()
	if row["date"] == "" {
		row["date"] = now.Format("2006-01-02")
	}
	if row["hour"] == "" {
		row["hour"] = now.Format("15:04")
	}

	headers := make([]string, 0, len(row))
	for h := range row {
		headers = append(headers, h)
	}
	mapped := records.MapRows(kind, headers, []records.Row{row})
	if len(mapped.Rows) == 0 {
		return nil, fmt.Errorf("entry could not be normalized")
	}

	result := records.Merge(a.datasets[kind], mapped.Rows, mapped.Headers, "manual entry")
	if result.Added == 0 {
		key := records.TimestampKey(mapped.Rows[0], mapped.Headers)
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, key)
	}
	a.datasets[kind] = result.Dataset

	if err := a.save(ctx, kind); err != nil {
		return mapped.Rows[0], err
	}
	return mapped.Rows[0], nil
}

// BuildContext renders recent entries from both datasets as flat text.
func (a *App) BuildContext(rangeDays, limit int) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return chatctx.BuildContext(a.datasets[records.KindDiary], a.datasets[records.KindPain], rangeDays, limit)
}

// Purge resets every dataset to empty and persists the empty documents.
// The tag catalog survives a purge; only entries are dropped.
func (a *App) Purge(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, kind := range records.Kinds {
		ds := records.NewDataset(kind)
		ds.Source = "purge"
		ds.ImportedAt = time.Now().UTC().Format(time.RFC3339)
		a.datasets[kind] = ds
		if err := a.save(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}

// ExportBackup writes a snapshot of every dataset as a JSON backup.
func (a *App) ExportBackup(w io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	snapshot := make(map[records.Kind]*records.Dataset, len(a.datasets))
	for kind, ds := range a.datasets {
		snapshot[kind] = ds
	}
	return importer.WriteBackup(w, importer.NewBackup(snapshot))
}

// RestoreBackup merges a backup document into the current datasets,
// deduplicating against existing entries kind by kind.
func (a *App) RestoreBackup(ctx context.Context, r io.Reader) (map[records.Kind]records.MergeResult, error) {
	b, err := importer.ReadBackup(r)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	results := make(map[records.Kind]records.MergeResult, len(b.Datasets))
	for name, ds := range b.Datasets {
		kind, err := records.ParseKind(name)
		if err != nil {
			return nil, err
		}
		canonical, _ := records.CanonicalizeDataset(kind, ds)
		result := records.Merge(a.datasets[kind], canonical.Rows, canonical.Headers, "backup "+b.ID)
		a.datasets[kind] = result.Dataset
		results[kind] = result
		if err := a.save(ctx, kind); err != nil {
			return results, err
		}
	}
	return results, nil
}

// TagValues lists the active values for one tag field.
func (a *App) TagValues(field string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkCatalog(); err != nil {
		return nil, err
	}
	if !contains(records.TagFields, field) {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownField, field)
	}
	return a.cat.Values(field), nil
}

// AddTag adds a value to a tag field's catalog, clearing any tombstone.
func (a *App) AddTag(ctx context.Context, field, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkCatalog(); err != nil {
		return err
	}
	if err := a.cat.Add(field, value); err != nil {
		return err
	}
	return a.save(ctx, records.KindPain)
}

// DeleteTag removes a value from a tag field and tombstones it so it is
// not re-derived from historical rows.
func (a *App) DeleteTag(ctx context.Context, field, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkCatalog(); err != nil {
		return err
	}
	if err := a.cat.Delete(field, value); err != nil {
		return err
	}
	return a.save(ctx, records.KindPain)
}

// RenameTag replaces a catalog value, tombstoning the old spelling.
func (a *App) RenameTag(ctx context.Context, field, oldValue, newValue string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkCatalog(); err != nil {
		return err
	}
	if err := a.cat.Rename(field, oldValue, newValue); err != nil {
		return err
	}
	return a.save(ctx, records.KindPain)
}

func (a *App) checkCatalog() error {
	if a.cat == nil {
		return errors.New("catalog not loaded; call Load first")
	}
	return nil
}

func contains(vals []string, v string) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}

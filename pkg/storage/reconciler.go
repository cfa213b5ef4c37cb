package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/healthlog-app/healthlog/pkg/records"
)

// Mode selects which blob store backs the datasets.
type Mode int

const (
	// ModeGuest keeps everything in the local SQLite store.
	ModeGuest Mode = iota
	// ModeAuthenticated writes through to the remote file API.
	ModeAuthenticated
)

func (m Mode) String() string {
	if m == ModeAuthenticated {
		return "authenticated"
	}
	return "guest"
}

// ErrSessionExpired reports that the remote session lapsed mid-flight and
// the reconciler fell back to guest mode. The accompanying dataset is the
// local copy and is still usable.
var ErrSessionExpired = errors.New("session expired, switched to guest storage")

// DefaultSaveDelay batches rapid successive saves into one write.
const DefaultSaveDelay = 300 * time.Millisecond

// Reconciler owns the mapping between in-memory datasets and the active
// blob store. Loads prefer the remote store when authenticated and degrade
// to guest mode on a dead session. Saves are debounced and written through
// to whichever store is active at flush time.
type Reconciler struct {
	mu     sync.Mutex
	mode   Mode
	local  BlobStore
	remote BlobStore
	delay  time.Duration

	pending map[records.Kind][]byte
	timer   *time.Timer
}

// NewReconciler starts in guest mode against the local store. remote may be
// nil until a session is established.
func NewReconciler(local BlobStore) *Reconciler {
	return &Reconciler{
		mode:    ModeGuest,
		local:   local,
		delay:   DefaultSaveDelay,
		pending: make(map[records.Kind][]byte),
	}
}

// SetSaveDelay overrides the debounce window. Zero disables debouncing and
// makes Save synchronous.
func (r *Reconciler) SetSaveDelay(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delay = d
}

// Authenticate switches the reconciler to write-through mode against the
// given remote store. Local and remote copies are not merged automatically;
// callers should surface that to the user.
func (r *Reconciler) Authenticate(remote BlobStore) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remote = remote
	r.mode = ModeAuthenticated
}

// Demote drops back to guest mode, keeping the local store active.
func (r *Reconciler) Demote() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = ModeGuest
}

// Mode reports the currently active storage mode.
func (r *Reconciler) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *Reconciler) activeStore() BlobStore {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == ModeAuthenticated && r.remote != nil {
		return r.remote
	}
	return r.local
}

// Load fetches the dataset for kind from the active store. A missing blob
// yields a fresh empty dataset. A blob that does not parse as a dataset is
// treated the same, so one corrupt document never wedges the app. When an
// authenticated fetch comes back unauthorized the reconciler demotes itself
// and returns the local copy along with ErrSessionExpired.
func (r *Reconciler) Load(ctx context.Context, kind records.Kind) (*records.Dataset, error) {
	store := r.activeStore()
	raw, err := store.Get(ctx, kind.BlobName())
	if errors.Is(err, ErrUnauthorized) {
		r.Demote()
		ds, localErr := r.Load(ctx, kind)
		if localErr != nil {
			return nil, localErr
		}
		return ds, ErrSessionExpired
	}
	if errors.Is(err, ErrNotFound) {
		return records.NewDataset(kind), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}

	ds := records.NewDataset(kind)
	if err := json.Unmarshal(raw, ds); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: stored %s document is not valid JSON, starting empty\n", kind)
		return records.NewDataset(kind), nil
	}
	return ds, nil
}

// Save schedules the dataset for persistence. Repeated saves inside the
// debounce window collapse into a single write per kind. Call Flush before
// exiting to guarantee the last state hits the store.
func (r *Reconciler) Save(ctx context.Context, kind records.Kind, ds *records.Dataset) error {
	doc, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}

	r.mu.Lock()
	if r.delay <= 0 {
		r.mu.Unlock()
		return r.write(ctx, kind, doc)
	}
	r.pending[kind] = doc
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, func() {
		if err := r.Flush(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing datasets: %v\n", err)
		}
	})
	r.mu.Unlock()
	return nil
}

// Flush writes every pending dataset immediately.
func (r *Reconciler) Flush(ctx context.Context) error {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	batch := r.pending
	r.pending = make(map[records.Kind][]byte)
	r.mu.Unlock()

	for kind, doc := range batch {
		if err := r.write(ctx, kind, doc); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) write(ctx context.Context, kind records.Kind, doc []byte) error {
	store := r.activeStore()
	err := store.Put(ctx, kind.BlobName(), doc)
	if errors.Is(err, ErrUnauthorized) {
		r.Demote()
		if localErr := r.local.Put(ctx, kind.BlobName(), doc); localErr != nil {
			return fmt.Errorf("save %s after session loss: %w", kind, localErr)
		}
		return ErrSessionExpired
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", kind, err)
	}
	return nil
}

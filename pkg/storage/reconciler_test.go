package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/healthlog-app/healthlog/pkg/records"
)

// memStore is an in-memory BlobStore that can simulate session loss.
type memStore struct {
	mu   sync.Mutex
	docs map[string][]byte
	fail error
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string][]byte)}
}

func (m *memStore) Get(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	doc, ok := m.docs[name]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (m *memStore) Put(ctx context.Context, name string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.docs[name] = append([]byte(nil), doc...)
	return nil
}

func newTestReconciler(local BlobStore) *Reconciler {
	r := NewReconciler(local)
	r.SetSaveDelay(0) // synchronous saves in tests
	return r
}

func TestReconcilerLoadMissingYieldsEmptyDataset(t *testing.T) {
	r := newTestReconciler(newMemStore())

	ds, err := r.Load(context.Background(), records.KindDiary)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(ds.Rows) != 0 {
		t.Errorf("expected empty dataset, got %d rows", len(ds.Rows))
	}
	if len(ds.Headers) == 0 {
		t.Error("expected canonical headers on a fresh dataset")
	}
}

func TestReconcilerLoadMalformedYieldsEmptyDataset(t *testing.T) {
	local := newMemStore()
	local.docs["pain.json"] = []byte("not json at all")
	r := newTestReconciler(local)

	ds, err := r.Load(context.Background(), records.KindPain)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(ds.Rows) != 0 {
		t.Errorf("expected corrupt document to read as empty, got %d rows", len(ds.Rows))
	}
}

func TestReconcilerSaveLoadRoundTrip(t *testing.T) {
	r := newTestReconciler(newMemStore())
	ctx := context.Background()

	ds := records.NewDataset(records.KindDiary)
	ds.Rows = append(ds.Rows, records.Row{"date": "2024-03-01", "hour": "09:00", "mood level": "4"})
	if err := r.Save(ctx, records.KindDiary, ds); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := r.Load(ctx, records.KindDiary)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Rows) != 1 || got.Rows[0]["mood level"] != "4" {
		t.Errorf("round trip lost data: %+v", got.Rows)
	}
}

func TestReconcilerDemotesOnExpiredSession(t *testing.T) {
	local := newMemStore()
	local.docs["diary.json"] = []byte(`{"headers":["date"],"rows":[{"date":"2024-01-01"}]}`)
	remote := newMemStore()
	remote.fail = ErrUnauthorized

	r := newTestReconciler(local)
	r.Authenticate(remote)

	ds, err := r.Load(context.Background(), records.KindDiary)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if len(ds.Rows) != 1 {
		t.Errorf("expected local fallback dataset, got %d rows", len(ds.Rows))
	}
	if r.Mode() != ModeGuest {
		t.Errorf("Mode = %v, want guest after session loss", r.Mode())
	}
}

func TestReconcilerWriteFallsBackToLocal(t *testing.T) {
	local := newMemStore()
	remote := newMemStore()
	remote.fail = ErrUnauthorized

	r := newTestReconciler(local)
	r.Authenticate(remote)

	ds := records.NewDataset(records.KindPain)
	ds.Rows = append(ds.Rows, records.Row{"date": "2024-02-02", "hour": "21:00", "pain level": "3"})
	err := r.Save(context.Background(), records.KindPain, ds)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	if _, err := local.Get(context.Background(), "pain.json"); err != nil {
		t.Errorf("expected document saved locally after session loss: %v", err)
	}
}

func TestReconcilerFlushWritesPending(t *testing.T) {
	local := newMemStore()
	r := NewReconciler(local) // default debounce active
	ctx := context.Background()

	ds := records.NewDataset(records.KindDiary)
	if err := r.Save(ctx, records.KindDiary, ds); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := r.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if _, err := local.Get(ctx, "diary.json"); err != nil {
		t.Errorf("expected flushed document in store: %v", err)
	}
}

func TestReconcilerWritesToRemoteWhenAuthenticated(t *testing.T) {
	local := newMemStore()
	remote := newMemStore()

	r := newTestReconciler(local)
	r.Authenticate(remote)
	if r.Mode() != ModeAuthenticated {
		t.Fatalf("Mode = %v, want authenticated", r.Mode())
	}

	ds := records.NewDataset(records.KindDiary)
	if err := r.Save(context.Background(), records.KindDiary, ds); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := remote.Get(context.Background(), "diary.json"); err != nil {
		t.Errorf("expected document on remote store: %v", err)
	}
	if _, err := local.Get(context.Background(), "diary.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("local store should stay untouched while authenticated, got %v", err)
	}
}

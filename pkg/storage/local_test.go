package storage

import (
	"context"
	"errors"
	"testing"

	pkgdb "github.com/healthlog-app/healthlog/pkg/db"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	conn, err := pkgdb.OpenDBConnection(":memory:", false, "")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := pkgdb.UpgradeDB(conn, ":memory:", pkgdb.TargetSchemaVersion); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}
	store := NewLocalStore(conn)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "diary.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing document, got %v", err)
	}

	doc := []byte(`{"headers":["date"],"rows":[]}`)
	if err := store.Put(ctx, "diary.json", doc); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "diary.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("Get = %s, want %s", got, doc)
	}
}

func TestLocalStorePutOverwrites(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "pain.json", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("first Put failed: %v", err)
	}
	if err := store.Put(ctx, "pain.json", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := store.Get(ctx, "pain.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Errorf("Get = %s, want {\"v\":2}", got)
	}
}

func TestLocalStoreListAndDelete(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	for _, name := range []string{"pain.json", "diary.json"} {
		if err := store.Put(ctx, name, []byte("{}")); err != nil {
			t.Fatalf("Put %s failed: %v", name, err)
		}
	}

	infos, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("List returned %d documents, want 2", len(infos))
	}
	// Names come back sorted.
	if infos[0].Name != "diary.json" || infos[1].Name != "pain.json" {
		t.Errorf("List order = %s, %s", infos[0].Name, infos[1].Name)
	}

	if err := store.Delete(ctx, "diary.json"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "diary.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

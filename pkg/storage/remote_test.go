package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fileAPIHandler mimics the session-gated file API: a SESSID cookie is
// required for document operations and is issued by the login endpoint.
func fileAPIHandler(docs map[string]string) http.Handler {
	mux := http.NewServeMux()
	authed := func(r *http.Request) bool {
		c, err := r.Cookie("SESSID")
		return err == nil && c.Value == "secret"
	}

	mux.HandleFunc("/api/files/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "SESSID", Value: "secret"})
		w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("/api/files/logout", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("/api/files/session", func(w http.ResponseWriter, r *http.Request) {
		if authed(r) {
			w.Write([]byte(`{"authed":true}`))
			return
		}
		w.Write([]byte(`{"authed":false}`))
	})
	mux.HandleFunc("/api/files/", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/api/files/")
		switch r.Method {
		case http.MethodGet:
			doc, ok := docs[name]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(doc))
		case http.MethodPut:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			docs[name] = string(body)
			w.Write([]byte(`{"ok":true}`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func TestRemoteStoreRequiresSession(t *testing.T) {
	srv := httptest.NewServer(fileAPIHandler(map[string]string{}))
	defer srv.Close()

	store, err := NewRemoteStore(srv.URL, "")
	if err != nil {
		t.Fatalf("NewRemoteStore failed: %v", err)
	}

	if _, err := store.Get(context.Background(), "diary.json"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized without a session, got %v", err)
	}
	if err := store.Put(context.Background(), "diary.json", []byte("{}")); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized on Put without a session, got %v", err)
	}
}

func TestRemoteStoreLoginRoundTrip(t *testing.T) {
	docs := map[string]string{}
	srv := httptest.NewServer(fileAPIHandler(docs))
	defer srv.Close()

	store, err := NewRemoteStore(srv.URL, "")
	if err != nil {
		t.Fatalf("NewRemoteStore failed: %v", err)
	}
	ctx := context.Background()

	if err := store.Login(ctx, "user@example.com", "hunter2"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if store.Cookie() == "" {
		t.Fatal("expected session cookie to be captured after login")
	}

	alive, err := store.SessionAlive(ctx)
	if err != nil || !alive {
		t.Fatalf("SessionAlive = %v, %v; want true, nil", alive, err)
	}

	if err := store.Put(ctx, "pain.json", []byte(`{"rows":[]}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := store.Get(ctx, "pain.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"rows":[]}` {
		t.Errorf("Get = %s", got)
	}

	if _, err := store.Get(ctx, "missing.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown document, got %v", err)
	}
}

func TestRemoteStoreResumesFromSavedCookie(t *testing.T) {
	docs := map[string]string{"diary.json": `{"rows":[]}`}
	srv := httptest.NewServer(fileAPIHandler(docs))
	defer srv.Close()

	store, err := NewRemoteStore(srv.URL, "SESSID=secret")
	if err != nil {
		t.Fatalf("NewRemoteStore failed: %v", err)
	}

	got, err := store.Get(context.Background(), "diary.json")
	if err != nil {
		t.Fatalf("Get with saved cookie failed: %v", err)
	}
	if string(got) != `{"rows":[]}` {
		t.Errorf("Get = %s", got)
	}
}

func TestNewRemoteStoreRejectsBadURL(t *testing.T) {
	if _, err := NewRemoteStore("ftp://example.com", ""); err == nil {
		t.Error("expected error for unsupported scheme")
	}
}

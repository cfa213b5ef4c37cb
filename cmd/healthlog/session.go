package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/healthlog-app/healthlog/pkg/app"
	"github.com/healthlog-app/healthlog/pkg/storage"
	"github.com/healthlog-app/healthlog/pkg/utils"
)

// session bundles the loaded application with its storage handles.
type session struct {
	App   *app.App
	Rec   *storage.Reconciler
	local *storage.LocalStore
}

// openSession opens the local store, attaches the remote store when a
// saved session cookie is still alive, and loads every dataset. The
// caller must Close the session to flush debounced saves.
func openSession(ctx context.Context) (*session, error) {
	resolvedPath, err := utils.ResolveAndEnsureDBPath(dbPath)
	if err != nil {
		return nil, err
	}

	local, err := storage.OpenLocalStore(resolvedPath, walMode, syncMode)
	if err != nil {
		return nil, err
	}

	rec := storage.NewReconciler(local)

	if remoteURL != "" {
		cookie, err := utils.LoadSessionCookie("")
		if err != nil {
			local.Close()
			return nil, err
		}
		if cookie != "" {
			remote, err := storage.NewRemoteStore(remoteURL, cookie)
			if err != nil {
				local.Close()
				return nil, err
			}
			alive, err := remote.SessionAlive(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not reach %s, continuing in guest mode: %v\n", remoteURL, err)
			} else if alive {
				rec.Authenticate(remote)
			} else {
				fmt.Fprintln(os.Stderr, "Session expired; run 'healthlog login' to sync again. Continuing in guest mode.")
			}
		}
	}

	a := app.New(rec)
	if err := a.Load(ctx); err != nil {
		if errors.Is(err, storage.ErrSessionExpired) {
			fmt.Fprintln(os.Stderr, "Session expired mid-load; using the local copy. Guest and remote data are not merged automatically.")
		} else {
			local.Close()
			return nil, err
		}
	}

	return &session{App: a, Rec: rec, local: local}, nil
}

// Close flushes pending writes and releases the local store.
func (s *session) Close() {
	if err := s.App.Flush(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error flushing datasets: %v\n", err)
	}
	if err := s.local.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing local store: %v\n", err)
	}
}

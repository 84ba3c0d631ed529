// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/copilot-tui/internal/storage"
)

// DefaultDebounce coalesces the burst of writes SQLite makes for a single
// commit (database, WAL and shared-memory files).
const DefaultDebounce = 150 * time.Millisecond

// TokenChange reports that the persisted token differs from the last value
// the watcher observed. Present is false when the token was cleared.
type TokenChange struct {
	Token   string
	Present bool
}

// =============================================================================
// TOKEN WATCHER
// =============================================================================

// Watch observes dir for writes to the local storage files and emits a
// TokenChange whenever store.Get returns something new. Changes made by this
// process are reported too; callers compare against their own state.
// The channel is closed when ctx is cancelled.
func Watch(ctx context.Context, dir string, store *Store, debounce time.Duration) (<-chan TokenChange, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	last, _ := store.Get()
	out := make(chan TokenChange, 1)

	go func() {
		defer close(out)
		defer w.Close()

		var pending <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !isStorageFile(event.Name) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					pending = time.After(debounce)
				}

			case <-pending:
				pending = nil
				token, present := store.Get()
				if token == last {
					continue
				}
				last = token
				select {
				case out <- TokenChange{Token: token, Present: present}:
				case <-ctx.Done():
					return
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("SESSION_WATCH_ERROR | dir=%s error=%v", dir, err)
			}
		}
	}()

	return out, nil
}

// isStorageFile matches local.db and its -wal/-shm companions.
func isStorageFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), storage.FileName)
}

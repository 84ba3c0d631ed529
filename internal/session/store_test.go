// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"testing"

	"github.com/jeranaias/copilot-tui/internal/storage"
)

// failingKV fails every operation.
type failingKV struct{}

var errDisk = errors.New("disk on fire")

func (failingKV) Get(string) (string, bool, error) { return "", false, errDisk }
func (failingKV) Set(string, string) error         { return errDisk }
func (failingKV) Remove(string) error              { return errDisk }

func newTestStore(t *testing.T) (*Store, *storage.Local) {
	t.Helper()
	local, err := storage.Open(storage.InMemory)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { local.Close() })
	return NewStore(local), local
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestStore_EmptyByDefault(t *testing.T) {
	s, _ := newTestStore(t)

	if token, ok := s.Get(); ok || token != "" {
		t.Errorf("Get() = %q, %v, want absent", token, ok)
	}
}

func TestStore_SetGetClear(t *testing.T) {
	s, local := newTestStore(t)

	if err := s.Set("jwt-abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	token, ok := s.Get()
	if !ok || token != "jwt-abc" {
		t.Errorf("Get() = %q, %v, want jwt-abc, true", token, ok)
	}

	// Stored under the well-known key.
	raw, ok, err := local.Get(TokenKey)
	if err != nil || !ok || raw != "jwt-abc" {
		t.Errorf("local.Get(%q) = %q, %v, %v", TokenKey, raw, ok, err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := s.Get(); ok {
		t.Error("Get() after Clear reported a token")
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear = %v, want nil", err)
	}
}

func TestStore_EmptyTokenIsAbsent(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Set(""); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get(); ok {
		t.Error("empty token reported as present")
	}
}

func TestStore_StorageFailures(t *testing.T) {
	s := NewStore(failingKV{})

	if _, ok := s.Get(); ok {
		t.Error("Get() on failing storage reported a token")
	}
	if err := s.Set("x"); !errors.Is(err, errDisk) {
		t.Errorf("Set() = %v, want errDisk", err)
	}
	if err := s.Clear(); !errors.Is(err, errDisk) {
		t.Errorf("Clear() = %v, want errDisk", err)
	}
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	l1, err := storage.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := NewStore(l1).Set("persisted"); err != nil {
		t.Fatal(err)
	}
	l1.Close()

	l2, err := storage.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer l2.Close()

	if token, ok := NewStore(l2).Get(); !ok || token != "persisted" {
		t.Errorf("Get() = %q, %v, want persisted", token, ok)
	}
}

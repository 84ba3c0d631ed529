// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"log"
	"sync"
)

// TokenKey is the local storage key holding the credential token.
const TokenKey = "authToken"

// KV is the slice of local storage the session store needs.
// *storage.Local satisfies it.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// =============================================================================
// SESSION STORE
// =============================================================================

// Store persists the single credential token that proves the user logged
// in. There is no expiry tracking: a token stays until Clear or until the
// service rejects it.
type Store struct {
	mu sync.Mutex
	kv KV
}

// NewStore creates a session store over kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Get returns the persisted token. ok is false when no token is stored.
// Storage read failures are logged and reported as absent, so callers
// fall back to the logged-out state.
func (s *Store) Get() (token string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok, err := s.kv.Get(TokenKey)
	if err != nil {
		log.Printf("SESSION_READ_FAILED | error=%v", err)
		return "", false
	}
	if token == "" {
		return "", false
	}
	return token, ok
}

// Set persists token, replacing any previous one.
func (s *Store) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(TokenKey, token); err != nil {
		log.Printf("SESSION_WRITE_FAILED | error=%v", err)
		return err
	}
	return nil
}

// Clear removes the persisted token. Clearing when nothing is stored is
// not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(TokenKey); err != nil {
		log.Printf("SESSION_CLEAR_FAILED | error=%v", err)
		return err
	}
	return nil
}

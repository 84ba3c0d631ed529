// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLocal(t *testing.T) *Local {
	t.Helper()
	l, err := Open(InMemory)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

// =============================================================================
// KEY/VALUE TESTS
// =============================================================================

func TestLocal_GetMissing(t *testing.T) {
	l := openTestLocal(t)

	v, ok, err := l.Get("authToken")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestLocal_SetGetReplace(t *testing.T) {
	l := openTestLocal(t)

	require.NoError(t, l.Set("authToken", "first"))
	require.NoError(t, l.Set("authToken", "second"))

	v, ok, err := l.Get("authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestLocal_EmptyValueIsPresent(t *testing.T) {
	l := openTestLocal(t)

	require.NoError(t, l.Set("k", ""))
	_, ok, err := l.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocal_Remove(t *testing.T) {
	l := openTestLocal(t)

	require.NoError(t, l.Set("authToken", "abc"))
	require.NoError(t, l.Remove("authToken"))
	require.NoError(t, l.Remove("authToken"), "removing an absent key")

	_, ok, err := l.Get("authToken")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocal_Keys(t *testing.T) {
	l := openTestLocal(t)

	require.NoError(t, l.Set("b", "2"))
	require.NoError(t, l.Set("a", "1"))

	keys, err := l.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestLocal_Closed(t *testing.T) {
	l, err := Open(InMemory)
	require.NoError(t, err)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "double close")

	_, _, err = l.Get("x")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, l.Set("x", "y"), ErrClosed)
	assert.ErrorIs(t, l.Remove("x"), ErrClosed)
}

// =============================================================================
// DURABILITY TESTS
// =============================================================================

func TestLocal_SurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	l1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, l1.Set("authToken", "persisted"))
	require.NoError(t, l1.Close())

	_, err = os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err, "database file should exist")

	l2, err := Open(dir)
	require.NoError(t, err)
	defer l2.Close()

	v, ok, err := l2.Get("authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestLocal_TwoHandlesShareFile(t *testing.T) {
	dir := t.TempDir()

	writer, err := Open(dir)
	require.NoError(t, err)
	defer writer.Close()
	reader, err := Open(dir)
	require.NoError(t, err)
	defer reader.Close()

	require.NoError(t, writer.Set("authToken", "from-writer"))

	v, ok, err := reader.Get("authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "from-writer", v)
}

func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	l1, err := Open(dir)
	require.NoError(t, err)
	v1, err := l1.SchemaVersion()
	require.NoError(t, err)
	require.NoError(t, l1.Close())

	l2, err := Open(dir)
	require.NoError(t, err)
	defer l2.Close()
	v2, err := l2.SchemaVersion()
	require.NoError(t, err)

	assert.Equal(t, 1, v1)
	assert.Equal(t, v1, v2)
}

func TestMigrationVersion(t *testing.T) {
	v, err := migrationVersion("001_local_storage.sql")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = migrationVersion("nounderscore.sql")
	assert.Error(t, err)
	_, err = migrationVersion("abc_x.sql")
	assert.Error(t, err)
}

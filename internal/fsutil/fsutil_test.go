// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTempDir_RemovedAfterSuccess(t *testing.T) {
	var seen string
	err := WithTempDir(func(dir string) error {
		seen = dir
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "temp dir should start empty")

		return os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0o600)
	})
	require.NoError(t, err)
	assert.NoDirExists(t, seen)
}

func TestWithTempDir_RemovedAfterError(t *testing.T) {
	boom := errors.New("boom")
	var seen string
	err := WithTempDir(func(dir string) error {
		seen = dir
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))
		return boom
	})
	assert.Same(t, boom, err)
	assert.NoDirExists(t, seen)
}

func TestWithTempDir_RemovedAfterPanic(t *testing.T) {
	var seen string
	assert.PanicsWithValue(t, "kaboom", func() {
		_ = WithTempDir(func(dir string) error {
			seen = dir
			panic("kaboom")
		})
	})
	assert.NotEmpty(t, seen)
	assert.NoDirExists(t, seen)
}

func TestWithTempDir_AlreadyRemoved(t *testing.T) {
	err := WithTempDir(func(dir string) error {
		return os.RemoveAll(dir)
	})
	assert.NoError(t, err)
}

func TestWithTempDir_Options(t *testing.T) {
	base := t.TempDir()
	err := WithTempDir(func(dir string) error {
		assert.Equal(t, base, filepath.Dir(dir))
		assert.True(t, strings.HasPrefix(filepath.Base(dir), "hookctl-"))
		return nil
	}, WithBaseDir(base), WithPrefix("hookctl-"))
	require.NoError(t, err)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWithTempDir_CreateFailure(t *testing.T) {
	called := false
	err := WithTempDir(func(string) error {
		called = true
		return nil
	}, WithBaseDir(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, called)
}

func TestCleanPathOnFailure(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name       string
		create     bool
		fn         func(path string) error
		wantErr    error
		wantExists bool
	}{
		{
			name:       "success leaves path",
			create:     true,
			fn:         func(string) error { return nil },
			wantExists: true,
		},
		{
			name:   "failure removes path",
			create: true,
			fn: func(path string) error {
				_ = os.WriteFile(filepath.Join(path, "partial"), []byte("x"), 0o600)
				return boom
			},
			wantErr:    boom,
			wantExists: false,
		},
		{
			name:       "failure with missing path",
			create:     false,
			fn:         func(string) error { return boom },
			wantErr:    boom,
			wantExists: false,
		},
		{
			name:   "failure after body created path",
			create: false,
			fn: func(path string) error {
				_ = os.MkdirAll(filepath.Join(path, "nested"), 0o755)
				return boom
			},
			wantErr:    boom,
			wantExists: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "target")
			if tt.create {
				require.NoError(t, os.Mkdir(path, 0o755))
			}

			err := CleanPathOnFailure(path, func() error { return tt.fn(path) })
			if tt.wantErr != nil {
				assert.Same(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}

			if tt.wantExists {
				assert.DirExists(t, path)
			} else {
				assert.NoDirExists(t, path)
			}
		})
	}
}

func TestCleanPathOnFailure_Panic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target")
	require.NoError(t, os.Mkdir(path, 0o755))

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = CleanPathOnFailure(path, func() error { panic("kaboom") })
	})
	assert.NoDirExists(t, path)
}

func TestNoop(t *testing.T) {
	boom := errors.New("boom")
	assert.NoError(t, Noop(func() error { return nil }))
	assert.Same(t, boom, Noop(func() error { return boom }))
}

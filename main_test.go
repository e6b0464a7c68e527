// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/hookctl/internal/config"
)

func withConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hookctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("HOOKCTL_CFG", path)
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })
}

const setsConfig = `
list:
  defaults:
    - --titles
  big:
    - -s -size
    - -f size>1024
`

func TestMangleArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "defaults inserted after command",
			args: []string{"hookctl", "list", "a.tar"},
			want: []string{"hookctl", "list", "--titles", "a.tar"},
		},
		{
			name: "explicit set replaces marker",
			args: []string{"hookctl", "list", "a.tar", "@big", "-o", "json"},
			want: []string{"hookctl", "list", "a.tar", "-s", "-size", "-f", "size>1024", "-o", "json"},
		},
		{
			name: "unknown set is dropped",
			args: []string{"hookctl", "list", "@nope", "a.tar"},
			want: []string{"hookctl", "list", "a.tar"},
		},
		{
			name: "command without sets untouched",
			args: []string{"hookctl", "md5", "x"},
			want: []string{"hookctl", "md5", "x"},
		},
		{
			name: "help short circuit",
			args: []string{"hookctl", "list", "a.tar", "-h"},
			want: []string{"hookctl", "list", "--help"},
		},
		{
			name: "nothing after double dash",
			args: []string{"hookctl", "scratch", "--", "echo", "@big", "-h"},
			want: []string{"hookctl", "scratch", "--", "echo", "@big", "-h"},
		},
		{
			name: "global flag first",
			args: []string{"hookctl", "-C", "/tmp", "list"},
			want: []string{"hookctl", "-C", "/tmp", "list"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfig(t, setsConfig)
			assert.Equal(t, tt.want, mangleArguments(tt.args))
		})
	}
}

func TestRealMain(t *testing.T) {
	withConfig(t, "output: text\n")
	t.Setenv("HOOKCTL_CACHE_DIR", t.TempDir())

	assert.Equal(t, 0, realMain([]string{"--version"}))
	assert.Equal(t, 0, realMain([]string{"quote", "x"}))
	assert.Equal(t, 2, realMain([]string{"md5"}))
	assert.Equal(t, 2, realMain([]string{"list", filepath.Join(t.TempDir(), "missing.tar")}))
}

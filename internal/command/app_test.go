// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run builds the app the way main does and captures what it writes.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	argv := append([]string{"hookctl"}, args...)
	app, err := InitApp(context.Background(), argv)
	require.NoError(t, err)

	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = &buf
	err = app.Run(context.Background(), argv)
	return buf.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	cache := t.TempDir()
	t.Setenv("HOOKCTL_CFG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("HOOKCTL_CACHE_DIR", cache)
	t.Setenv("HOOKCTL_CACHE", "")
	return cache
}

func writeTarGz(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.tar.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: "pkg/", Typeflag: tar.TypeDir, Mode: 0o755, ModTime: time.Unix(1700000000, 0),
	}))
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(body)),
			ModTime: time.Unix(1700000000, 0),
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return path
}

func TestMd5Command(t *testing.T) {
	isolate(t)

	out, err := run(t, "md5", "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e\n5d41402abc4b2a76b9719d911017c592\n", out)

	_, err = run(t, "md5")
	assert.Error(t, err)
}

func TestQuoteCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "quote", "it's", "a b")
	require.NoError(t, err)
	assert.Equal(t, `'it'"'"'s' 'a b'`+"\n", out)
}

func TestRootCommand(t *testing.T) {
	isolate(t)

	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(base, ".hookroot"), 0o755))
	deep := filepath.Join(base, "a", "b")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	t.Chdir(deep)

	out, err := run(t, "root", "--marker", ".hookroot")
	require.NoError(t, err)
	assert.Equal(t, base+"\n", out)

	_, err = run(t, "root", "--marker", ".no-such-marker-anywhere")
	assert.Error(t, err)
}

func TestListCommand(t *testing.T) {
	isolate(t)
	archive := writeTarGz(t, map[string]string{"pkg/a.txt": "aaaa", "pkg/b.txt": "b"})

	out, err := run(t, "list", archive, "-o", "json", "-s", "name", "-a", "type,compression")
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "pkg/", rows[0]["name"])
	assert.Equal(t, "dir", rows[0]["type"])
	assert.Equal(t, "pkg/a.txt", rows[1]["name"])
	assert.Equal(t, float64(4), rows[1]["size"])
	assert.Equal(t, "gzip", rows[1]["compression"])

	out, err = run(t, "list", archive, "-f", "type=file", "--sort=-size", "-t")
	require.NoError(t, err)
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "4 B")
	assert.Less(t, strings.Index(out, "a.txt"), strings.Index(out, "b.txt"))
	assert.NotContains(t, out, "pkg/\n")

	out, err = run(t, "list", archive, "-o", "json", "--include", "pkg/*", "--exclude", "**b.txt")
	require.NoError(t, err)
	rows = nil
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "pkg/a.txt", rows[0]["name"])

	_, err = run(t, "list")
	assert.Error(t, err)
}

func TestUnpackStorePurge(t *testing.T) {
	cache := isolate(t)
	archive := writeTarGz(t, map[string]string{"pkg/a.txt": "hello"})

	out, err := run(t, "unpack", archive)
	require.NoError(t, err)
	dest := strings.TrimSpace(out)
	body, err := os.ReadFile(filepath.Join(dest, "pkg", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	again, err := run(t, "unpack", archive)
	require.NoError(t, err)
	assert.Equal(t, out, again)

	out, err = run(t, "store", "-o", "json")
	require.NoError(t, err)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	abs, _ := filepath.Abs(archive)
	assert.Equal(t, abs, rows[0]["archive"])

	out, err = run(t, "purge", "--hours", "1")
	require.NoError(t, err)
	assert.Equal(t, "removed 0\n", out)

	old := time.Now().Add(-3 * time.Hour)
	for _, sub := range []string{"repos", "manifests"} {
		entries, err := os.ReadDir(filepath.Join(cache, sub))
		require.NoError(t, err)
		for _, e := range entries {
			require.NoError(t, os.Chtimes(filepath.Join(cache, sub, e.Name()), old, old))
		}
	}

	out, err = run(t, "purge", "--hours", "1")
	require.NoError(t, err)
	assert.Equal(t, "removed 1\n", out)
	assert.NoDirExists(t, dest)

	out, err = run(t, "store", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestUnpackCommand_Disabled(t *testing.T) {
	isolate(t)
	t.Setenv("HOOKCTL_CACHE", "false")

	_, err := run(t, "unpack", writeTarGz(t, map[string]string{"x": "y"}))
	assert.Error(t, err)
}

func TestPurgeCommand_NegativeHours(t *testing.T) {
	isolate(t)

	_, err := run(t, "purge", "--hours", "-1")
	assert.Error(t, err)
}

func TestScratchCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	isolate(t)
	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	out, err := run(t, "scratch", "--base", base, "--prefix", "scr-", "--",
		"sh", "-c", `touch made && printf '%s|%s' "$PWD" "$HOOKCTL_SCRATCH"`)
	require.NoError(t, err)

	parts := strings.Split(out, "|")
	require.Len(t, parts, 2)
	assert.Equal(t, parts[0], parts[1])
	assert.True(t, strings.HasPrefix(filepath.Base(parts[1]), "scr-"))
	assert.NoDirExists(t, parts[1], "scratch dir is removed afterwards")

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScratchCommand_FailureStillCleans(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	isolate(t)
	base := t.TempDir()

	_, err := run(t, "scratch", "--base", base, "--", "false")
	assert.Error(t, err)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _hookctl hookctl")

	out, err = run(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef hookctl")
}

func TestOutputFlag_Invalid(t *testing.T) {
	isolate(t)

	_, err := run(t, "store", "-o", "xml")
	assert.Error(t, err)
}

func TestLicenseHeaderIsNotPackageDoc(t *testing.T) {
	entries, err := os.ReadDir(".")
	require.NoError(t, err)

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") {
			continue
		}
		f, err := parser.ParseFile(token.NewFileSet(), e.Name(), nil, parser.ParseComments|parser.PackageClauseOnly)
		require.NoError(t, err)
		if f.Doc != nil {
			assert.NotContains(t, f.Doc.Text(), "SPDX-License-Identifier", e.Name())
		}
	}
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

// ErrUnsafePath is returned when an archive entry would land outside the
// extraction directory.
var ErrUnsafePath = errors.New("archive entry escapes destination")

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
)

// Tarfile is an open tar archive. Close releases the decompressor and the
// underlying file.
type Tarfile struct {
	*tar.Reader
	Path        string
	Compression string

	f  *os.File
	gz *gzip.Reader
}

// OpenTarfile opens a tar archive, sniffing gzip and bzip2 compression from
// the leading bytes.
func OpenTarfile(path string) (*Tarfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	head, err := br.Peek(3)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) &&
		!errors.Is(err, bufio.ErrBufferFull) {
		_ = f.Close()
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	tf := &Tarfile{Path: path, f: f, Compression: "none"}
	var r io.Reader = br
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		tf.gz = gz
		tf.Compression = "gzip"
		r = gz
	case bytes.HasPrefix(head, bzip2Magic):
		tf.Compression = "bzip2"
		r = bzip2.NewReader(br)
	}

	tf.Reader = tar.NewReader(r)
	log.Debugf("opened %s (compression=%s)", path, tf.Compression)
	return tf, nil
}

// Close releases everything OpenTarfile acquired. Calling it twice is safe.
func (t *Tarfile) Close() error {
	var errs []error
	if t.gz != nil {
		errs = append(errs, t.gz.Close())
		t.gz = nil
	}
	if t.f != nil {
		errs = append(errs, t.f.Close())
		t.f = nil
	}
	return errors.Join(errs...)
}

// WithTarfile opens path, runs fn against it and closes it on every exit path.
// fn's error takes precedence over a Close error.
func WithTarfile(path string, fn func(*Tarfile) error) (err error) {
	tf, err := OpenTarfile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := tf.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(tf)
}

// Extract writes every entry of tf beneath dest. Directories, regular files
// and symlinks are materialized; other entry types are skipped. Entries whose
// names, or symlink targets, resolve outside dest fail with ErrUnsafePath,
// including paths that only escape through symlinks written earlier.
func (t *Tarfile) Extract(dest string) error {
	root, err := os.OpenRoot(dest)
	if err != nil {
		return err
	}
	defer root.Close()

	realDest, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return err
	}
	if realDest, err = filepath.Abs(realDest); err != nil {
		return err
	}

	for {
		hdr, err := t.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, tar.ErrInsecurePath) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, hdr.Name)
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", t.Path, err)
		}

		name := filepath.FromSlash(strings.TrimPrefix(hdr.Name, "./"))
		if name == "" || name == "." {
			continue
		}
		if !filepath.IsLocal(name) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, hdr.Name)
		}
		mode := fs.FileMode(hdr.Mode).Perm()

		switch hdr.Typeflag {
		case tar.TypeDir, tar.TypeReg, tar.TypeSymlink:
		default:
			log.Debugf("skipping %s (type %c)", hdr.Name, hdr.Typeflag)
			continue
		}

		parent := filepath.Dir(name)
		if escapes(realDest, filepath.Join(realDest, parent)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, hdr.Name)
		}
		if err := mkdirAllIn(root, parent, 0o755); err != nil { //nolint:mnd
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if escapes(realDest, filepath.Join(realDest, name)) {
				return fmt.Errorf("%w: %s", ErrUnsafePath, hdr.Name)
			}
			err = mkdirAllIn(root, name, mode|0o700) //nolint:mnd
		case tar.TypeReg:
			if escapes(realDest, filepath.Join(realDest, name)) {
				return fmt.Errorf("%w: %s", ErrUnsafePath, hdr.Name)
			}
			err = writeEntry(root, name, t.Reader, mode)
		case tar.TypeSymlink:
			err = symlinkWithin(realDest, name, hdr.Linkname)
		}
		if err != nil {
			return err
		}
	}
}

// escapes reports whether p, with every symlink along it resolved, lands
// outside realDest. Components that do not exist yet are taken literally.
// Other lookup failures are left for the write itself to report.
func escapes(realDest, p string) bool {
	rest := ""
	for {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			return !within(realDest, filepath.Join(resolved, rest))
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return false
		}
		parent := filepath.Dir(p)
		if parent == p {
			return true
		}
		rest = filepath.Join(filepath.Base(p), rest)
		p = parent
	}
}

func within(base, p string) bool {
	rel, err := filepath.Rel(base, p)
	return err == nil && (rel == "." || filepath.IsLocal(rel))
}

// mkdirAllIn creates name and any missing parents inside root. Existing
// entries, including symlinks that resolve to directories inside root, are
// accepted.
func mkdirAllIn(root *os.Root, name string, perm fs.FileMode) error {
	if name == "." || name == "" {
		return nil
	}
	if err := mkdirAllIn(root, filepath.Dir(name), 0o755); err != nil { //nolint:mnd
		return err
	}
	err := root.Mkdir(name, perm)
	if err == nil || !errors.Is(err, fs.ErrExist) {
		return err
	}
	info, err := root.Stat(name)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", name)
	}
	return nil
}

// symlinkWithin creates name -> linkname under realDest. The target must be
// relative, may only climb with leading "..", and must stay inside realDest
// when joined to the real directory the link lands in.
func symlinkWithin(realDest, name, linkname string) error {
	unsafe := fmt.Errorf("%w: %s -> %s", ErrUnsafePath, filepath.ToSlash(name), linkname)
	if linkname == "" || filepath.IsAbs(linkname) || !climbsThenDescends(linkname) {
		return unsafe
	}

	parent, err := filepath.EvalSymlinks(filepath.Join(realDest, filepath.Dir(name)))
	if err != nil {
		return err
	}
	if !within(realDest, parent) || !within(realDest, filepath.Join(parent, filepath.FromSlash(linkname))) {
		return unsafe
	}
	return os.Symlink(linkname, filepath.Join(parent, filepath.Base(name)))
}

// climbsThenDescends reports whether every ".." in target precedes its first
// named component, so lexical cleaning matches what the kernel resolves.
func climbsThenDescends(target string) bool {
	descending := false
	for _, c := range strings.Split(filepath.ToSlash(target), "/") {
		switch c {
		case "", ".":
		case "..":
			if descending {
				return false
			}
		default:
			descending = true
		}
	}
	return true
}

func writeEntry(root *os.Root, name string, r io.Reader, mode fs.FileMode) error {
	f, err := root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode|0o600) //nolint:mnd
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

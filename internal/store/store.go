// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"

	"github.com/staranto/hookctl/internal/cacheutil"
	"github.com/staranto/hookctl/internal/fsutil"
)

const (
	reposDir     = "repos"
	manifestsDir = "manifests"
)

// ErrDisabled is returned by Open when HOOKCTL_CACHE turns the store off or
// no cache directory can be resolved.
var ErrDisabled = errors.New("store is disabled")

// Manifest describes one unpacked archive. Its presence marks the entry as
// complete.
type Manifest struct {
	Key     string    `yaml:"key" json:"key"`
	Archive string    `yaml:"archive" json:"archive"`
	Path    string    `yaml:"path" json:"path"`
	Size    int64     `yaml:"size" json:"size"`
	Created time.Time `yaml:"created" json:"created"`
}

// Store unpacks archives into the cache directory, one directory per archive
// content key.
type Store struct {
	Dir string
}

// UnpackOptions tunes Unpack.
type UnpackOptions struct {
	// KeepPartial leaves a half-extracted directory in place on failure.
	KeepPartial bool
}

// Result reports where an archive was unpacked.
type Result struct {
	Manifest
	Cached bool
}

// Open resolves and creates the store directory.
func Open() (*Store, error) {
	base, ok, err := cacheutil.EnsureBaseDir()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDisabled
	}
	return &Store{Dir: base}, nil
}

// Key derives the store key for archive from its absolute path, size and
// modification time, so a rewritten archive unpacks fresh.
func (s *Store) Key(archive string) (string, os.FileInfo, error) {
	abs, err := filepath.Abs(archive)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", nil, err
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("%s is a directory", archive)
	}
	return fmt.Sprintf("%s|%d|%d", abs, info.Size(), info.ModTime().UnixNano()), info, nil
}

// Unpack extracts archive into the store unless a complete entry for it
// already exists. A failed extraction removes the entry directory unless
// opts.KeepPartial is set. A leftover directory without a manifest is
// discarded before extracting again.
func (s *Store) Unpack(archive string, opts UnpackOptions) (Result, error) {
	key, info, err := s.Key(archive)
	if err != nil {
		return Result{}, err
	}

	if e, ok := cacheutil.Read([]string{manifestsDir}, key); ok {
		var m Manifest
		if err := yaml.Unmarshal(e.Data, &m); err == nil {
			if _, err := os.Stat(m.Path); err == nil {
				log.Debugf("store hit for %s: %s", archive, m.Path)
				return Result{Manifest: m, Cached: true}, nil
			}
		}
		log.Debugf("ignoring stale manifest %s", e.Path)
	}

	dest, exists := cacheutil.EntryPath([]string{reposDir}, key)
	if dest == "" {
		return Result{}, ErrDisabled
	}
	if exists {
		log.Debugf("discarding incomplete entry %s", dest)
		if err := os.RemoveAll(dest); err != nil {
			return Result{}, err
		}
	}

	abs, _ := filepath.Abs(archive)
	m := Manifest{
		Key:     cacheutil.EncodeKey(key),
		Archive: abs,
		Path:    dest,
		Size:    info.Size(),
		Created: time.Now().UTC().Truncate(time.Second),
	}

	guard := func(fn func() error) error { return fsutil.CleanPathOnFailure(dest, fn) }
	if opts.KeepPartial {
		guard = fsutil.Noop
	}

	err = guard(func() error {
		if err := os.MkdirAll(dest, 0o755); err != nil { //nolint:mnd
			return err
		}
		if err := fsutil.WithTarfile(archive, func(tf *fsutil.Tarfile) error {
			return tf.Extract(dest)
		}); err != nil {
			return err
		}
		raw, err := yaml.Marshal(m)
		if err != nil {
			return err
		}
		return cacheutil.Write([]string{manifestsDir}, key, raw)
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to unpack %s: %w", archive, err)
	}

	log.Debugf("unpacked %s into %s", archive, dest)
	return Result{Manifest: m}, nil
}

// List returns the manifests of every complete entry, oldest first.
func (s *Store) List() ([]Manifest, error) {
	dir := filepath.Join(s.Dir, manifestsDir)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			log.WithError(err).Warnf("skipping manifest %s", e.Name())
			continue
		}
		var m Manifest
		if err := yaml.Unmarshal(raw, &m); err != nil {
			log.WithError(err).Warnf("skipping manifest %s", e.Name())
			continue
		}
		manifests = append(manifests, m)
	}

	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].Created.Before(manifests[j].Created)
	})
	return manifests, nil
}

// Purge removes entries, and their manifests, older than hours.
func (s *Store) Purge(hours int) (int, error) {
	n, err := cacheutil.Purge([]string{reposDir}, hours)
	if err != nil {
		return n, err
	}
	if _, err := cacheutil.Purge([]string{manifestsDir}, hours); err != nil {
		return n, err
	}
	return n, nil
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"os"

	"github.com/apex/log"
)

const defaultTempPrefix = "tmp"

type tempDirOptions struct {
	prefix  string
	baseDir string
}

// TempDirOption configures WithTempDir.
type TempDirOption func(*tempDirOptions)

// WithPrefix sets the name hint for the directory. Empty leaves the default.
func WithPrefix(prefix string) TempDirOption {
	return func(o *tempDirOptions) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithBaseDir sets the parent directory. Empty means os.TempDir().
func WithBaseDir(dir string) TempDirOption {
	return func(o *tempDirOptions) {
		o.baseDir = dir
	}
}

// WithTempDir creates a fresh directory, hands it to fn and removes it with
// everything beneath it once fn returns or panics.
//
// If the directory cannot be created fn is not called and the creation error
// is returned. fn's error is returned unchanged. A failed removal is returned
// only when fn succeeded; otherwise it is logged and fn's error wins. A
// directory that fn already removed is not a failure.
func WithTempDir(fn func(dir string) error, opts ...TempDirOption) (err error) {
	o := tempDirOptions{prefix: defaultTempPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	dir, err := os.MkdirTemp(o.baseDir, o.prefix)
	if err != nil {
		return err
	}
	log.Debugf("created temp dir %s", dir)

	// returned stays false while a panic unwinds through the deferred removal.
	returned := false
	defer func() {
		rerr := os.RemoveAll(dir)
		if rerr == nil {
			log.Debugf("removed temp dir %s", dir)
			return
		}
		if returned && err == nil {
			err = rerr
			return
		}
		log.WithError(rerr).Warnf("failed to remove temp dir %s", dir)
	}()

	err = fn(dir)
	returned = true
	return err
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"os"

	"github.com/apex/log"
)

// CleanPathOnFailure runs fn and, if it returns an error or panics, removes
// path recursively before passing the failure on untouched. On success path is
// left alone. path is not created here; it may or may not exist when fn fails.
//
// A removal error while handling a failure is logged and dropped so the caller
// always sees fn's own error.
func CleanPathOnFailure(path string, fn func() error) error {
	returned := false
	defer func() {
		if !returned {
			removeAfterFailure(path)
		}
	}()

	err := fn()
	returned = true
	if err != nil {
		removeAfterFailure(path)
	}
	return err
}

// Noop runs fn with no surrounding scope. It stands in for a guard that the
// caller has chosen not to apply.
func Noop(fn func() error) error {
	return fn()
}

func removeAfterFailure(path string) {
	if _, err := os.Lstat(path); err != nil {
		return
	}
	if err := os.RemoveAll(path); err != nil {
		log.WithError(err).Warnf("failed to clean %s after failure", path)
		return
	}
	log.Debugf("cleaned %s after failure", path)
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package project locates the root of the project the working directory sits
// in.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"

	"github.com/staranto/hookctl/internal/memo"
)

// DefaultMarker is the entry whose presence marks a project root.
const DefaultMarker = ".git"

// ErrNoRoot is returned when no ancestor of the working directory holds the
// marker.
var ErrNoRoot = errors.New("no project root found")

var root = memo.ByCwd(findRoot)

// Root returns the nearest directory, starting at the working directory and
// walking up, that contains marker. Results are memoized per working
// directory for the life of the process.
func Root(marker string) (string, error) {
	if marker == "" {
		marker = DefaultMarker
	}
	return root.Call(marker)
}

func findRoot(marker string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := wd
	for {
		if _, err := os.Lstat(filepath.Join(dir, marker)); err == nil {
			log.Debugf("project root for %s: %s", wd, dir)
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s above %s", ErrNoRoot, marker, wd)
		}
		dir = parent
	}
}

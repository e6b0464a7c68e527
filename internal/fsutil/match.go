// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// PatternMatcher selects archive entry names with glob patterns. Patterns use
// '/' as the separator, so '*' stays within one path segment and '**' spans
// several.
type PatternMatcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewPatternMatcher compiles the include and exclude patterns. With no
// include patterns every name is included.
func NewPatternMatcher(include, exclude []string) (*PatternMatcher, error) {
	pm := &PatternMatcher{}
	for _, p := range include {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		pm.include = append(pm.include, g)
	}
	for _, p := range exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		pm.exclude = append(pm.exclude, g)
	}
	return pm, nil
}

// Match reports whether name passes the patterns. Excludes win.
func (pm *PatternMatcher) Match(name string) bool {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")

	for _, g := range pm.exclude {
		if g.Match(name) {
			return false
		}
	}
	if len(pm.include) == 0 {
		return true
	}
	for _, g := range pm.include {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"crypto/md5" //nolint:gosec
	"encoding/hex"
	"os"
	"strings"
)

// Entry adapts fn for use as a program entry point. A nil argv is replaced by
// the process arguments without the program name; any non-nil argv, even an
// empty one, is passed through as given.
func Entry[R any](fn func(argv []string) R) func(argv []string) R {
	return func(argv []string) R {
		if argv == nil {
			argv = []string{}
			if len(os.Args) > 1 {
				argv = os.Args[1:]
			}
		}
		return fn(argv)
	}
}

// ShellEscape single-quotes arg for a POSIX shell. Embedded single quotes
// close the quoted run, emit a double-quoted ', and reopen it.
func ShellEscape(arg string) string {
	return "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
}

// ShellJoin escapes each arg and joins them with spaces.
func ShellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = ShellEscape(a)
	}
	return strings.Join(quoted, " ")
}

// HexMD5 returns the lowercase hex MD5 digest of s.
func HexMD5(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

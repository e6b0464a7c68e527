// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package fsutil provides scoped filesystem helpers: temporary directories
// that are always removed, a guard that removes a path when the work
// populating it fails, and a tar archive opener that is always closed.
package fsutil

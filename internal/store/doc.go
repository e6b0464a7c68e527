// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package store unpacks tar archives into the hookctl cache directory and
// keeps a manifest for each complete entry.
package store

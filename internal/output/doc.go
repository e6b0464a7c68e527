// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output filters, sorts and renders result rows as a text table, JSON
// or YAML for the listing commands.
package output

// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package memo provides result memoization, including a wrapper keyed on the
// process working directory. Caches grow without bound for the life of the
// owning value.
package memo

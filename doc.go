// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package forest provides a keyed multi-root tree collection.
//
// Nodes are addressed by string keys, each optionally parented to another
// key. Keys are unique across the whole forest, the empty string is
// reserved for "no parent" and is never a valid key.
//
// Two variants share the same query surface:
//
//   - Forest: children in insertion order
//   - Sorted: children in [Comparator] order, plus a flattened pre-order
//     key sequence with index based queries
//
// Every mutation validates its preconditions first and fails with a
// [*KeyError] wrapping one of the Err* sentinels, leaving the forest
// unchanged. Read-only queries never fail, missing keys give empty results.
//
// The backing store is copy-on-write: a mutation never edits the current
// store, it commits a new one where only the touched nodes are copied.
// A [Snapshot] is therefore a stable, immutable view, cheap to take and
// safe to read from other goroutines, and [Snapshot.Changed] reports the
// touched keys by reference comparison.
//
// A Forest or Sorted itself is not safe for concurrent mutation,
// a single writer publishing snapshots is the supported pattern.
package forest

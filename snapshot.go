// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import "github.com/gaissmai/forest/internal/store"

// Snapshot is an immutable state of a forest. It offers all read-only
// queries and stays valid and unchanged while the forest it was taken
// from is mutated further.
//
// Mutations only rewrite the nodes they touch, so an observer can compare
// two snapshots by reference:
//
//	prev := f.Snapshot()
//	_ = f.Update("alpha/1", 42)
//	cur := f.Snapshot()
//	cur.Same(prev)     // false
//	cur.Changed(prev)  // [alpha/1]
type Snapshot[V any] struct {
	view[V]
}

// Snapshot returns s itself, a snapshot is a [Tree].
func (s *Snapshot[V]) Snapshot() *Snapshot[V] {
	return s
}

// Same reports whether both snapshots share the identical store,
// i.e. no mutation happened in between.
func (s *Snapshot[V]) Same(o *Snapshot[V]) bool {
	return s.s == o.s
}

// Changed returns, in byte order, the keys that were added, removed or
// rewritten between prev and s.
//
// A node is rewritten when its value, parent or children list changed.
func (s *Snapshot[V]) Changed(prev *Snapshot[V]) []string {
	return store.Diff(prev.s, s.s)
}

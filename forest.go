// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"go.uber.org/zap"
)

// Forest is a keyed collection of one or more trees with payload V.
// The zero value is ready to use.
//
// Every mutation validates its preconditions first and then replaces the
// whole store by a new copy-on-write version; on error the forest is left
// untouched. A [Snapshot] taken before a mutation never changes.
//
// A Forest is not safe for concurrent mutation, see [Snapshot] for readers.
type Forest[V any] struct {
	view[V]
	cfg config
}

// Tree is implemented by [Forest], [Sorted] and [Snapshot].
// It is accepted wherever another forest is the source of data.
type Tree[V any] interface {
	Snapshot() *Snapshot[V]
}

// New returns an empty forest configured by opts.
func New[V any](opts ...Option) *Forest[V] {
	return &Forest[V]{cfg: newConfig(opts)}
}

func (f *Forest[V]) log() *zap.Logger {
	if f.cfg.log == nil {
		return zap.NewNop()
	}
	return f.cfg.log
}

// Snapshot returns the current immutable state.
func (f *Forest[V]) Snapshot() *Snapshot[V] {
	return &Snapshot[V]{view: f.view}
}

// Clear removes all nodes.
func (f *Forest[V]) Clear() {
	f.s = nil
}

// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"github.com/gaissmai/forest/internal/store"
	"github.com/gaissmai/forest/internal/value"
)

// Cloner is an interface that enables deep cloning of values of type V.
// If a value implements Cloner[V], the methods handing values over to
// another forest, Clone, Prune, Graft and Subtrees, use its Clone method
// to perform deep copies.
type Cloner[V any] interface {
	Clone() V
}

// Clone returns an independent copy of the forest. Values implementing
// [Cloner] are deep-cloned.
func (f *Forest[V]) Clone() *Forest[V] {
	c := &Forest[V]{cfg: f.cfg}
	c.s = cloneStore(f.view)
	return c
}

// cloneStore rebuilds all trees of v with cloned values.
func cloneStore[V any](v view[V]) *store.Store[V] {
	tx := store.New[V]().Txn()
	for _, root := range v.s.Roots() {
		copySubtree(tx, v, root, "")
	}
	return tx.Commit()
}

// copySubtree adds the subtree of v at key under parent to tx,
// children order preserved, values cloned.
// Deep order guarantees parents before children.
func copySubtree[V any](tx *store.Txn[V], v view[V], key, parent string) {
	cloneFn := value.CloneFnFactory[V]()

	for k, val := range v.Deep(key) {
		p := parent
		if k != key {
			n, _ := v.s.Node(k)
			p = n.Parent
		}
		tx.Add(k, p, cloneFn(val))
	}
}

// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"slices"

	"go.uber.org/zap"

	"github.com/gaissmai/forest/internal/store"
)

// sortedKeys returns list in comparator order, ties keep their relative order.
func (s *Sorted[V]) sortedKeys(st *store.Store[V], list []string) []string {
	if len(list) < 2 {
		return list
	}

	cmp := s.compare()
	entries := make([]Entry[V], len(list))
	for i, k := range list {
		n, _ := st.Node(k)
		entries[i] = Entry[V]{Key: k, Value: n.Value}
	}
	slices.SortStableFunc(entries, cmp)

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// sortChildren restores the order below parent, the roots for an empty
// parent. It reports whether the order changed.
func (s *Sorted[V]) sortChildren(parent string) bool {
	f := s.forest

	var list []string
	if parent == "" {
		list = f.s.Roots()
	} else {
		n, _ := f.s.Node(parent)
		list = n.Children
	}

	order := s.sortedKeys(f.s, list)
	if slices.Equal(order, list) {
		return false
	}

	tx := f.s.Txn()
	if parent == "" {
		tx.SetRoots(order)
	} else {
		tx.SetChildren(parent, order)
	}
	f.s = tx.Commit()
	return true
}

// resort sorts every sibling group and rebuilds the flattened sequence.
// Sibling groups already in order keep their identity.
func (s *Sorted[V]) resort(op string) {
	f := s.forest

	var tx *store.Txn[V]
	reorder := func(parent string, list []string) {
		order := s.sortedKeys(f.s, list)
		if slices.Equal(order, list) {
			return
		}
		if tx == nil {
			tx = f.s.Txn()
		}
		if parent == "" {
			tx.SetRoots(order)
		} else {
			tx.SetChildren(parent, order)
		}
	}

	reorder("", f.s.Roots())
	for _, k := range f.s.Keys() {
		if n, _ := f.s.Node(k); len(n.Children) > 1 {
			reorder(k, n.Children)
		}
	}
	if tx != nil {
		f.s = tx.Commit()
	}

	s.sync()
	s.flat = s.DeepKeys()

	s.log().Debug("full resort",
		zap.String("op", op),
		zap.Int("size", len(s.flat)))
}

// subtreeSize returns the number of nodes in the subtree of key, key included.
func (s *Sorted[V]) subtreeSize(key string) int {
	n, ok := s.forest.s.Node(key)
	if !ok {
		return 0
	}
	size := 1
	for _, c := range n.Children {
		size += s.subtreeSize(c)
	}
	return size
}

// place inserts the flattened block of key at its position: right after
// the parent for a first child, otherwise after the block of the previous
// sibling. The siblings must already be in order.
func (s *Sorted[V]) place(key string, block []string) {
	siblings := s.forest.siblingGroup(key)
	idx := slices.Index(siblings, key)

	var pos int
	switch {
	case idx > 0:
		prev := siblings[idx-1]
		pos = slices.Index(s.flat, prev) + s.subtreeSize(prev)
	default:
		if parent, _ := s.forest.ParentKey(key); parent != "" {
			pos = slices.Index(s.flat, parent) + 1
		}
	}

	s.flat = slices.Insert(s.flat, pos, block...)
}

// inserted repairs the order after key was added as a leaf.
func (s *Sorted[V]) inserted(key string) {
	parent, _ := s.forest.ParentKey(key)
	s.sortChildren(parent)
	s.sync()
	s.place(key, []string{key})
}

// updated repairs the order after the value of key changed,
// only the block of key is relocated and only if its rank changed.
func (s *Sorted[V]) updated(key string) {
	parent, _ := s.forest.ParentKey(key)
	if !s.sortChildren(parent) {
		s.sync()
		return
	}
	s.sync()

	i := slices.Index(s.flat, key)
	n := s.subtreeSize(key)
	block := slices.Clone(s.flat[i : i+n])

	s.flat = slices.Delete(s.flat, i, i+n)
	s.place(key, block)
}

// sprouted repairs the order after n new children were added to key.
func (s *Sorted[V]) sprouted(key string, n int) {
	s.sortChildren(key)
	s.sync()

	i := slices.Index(s.flat, key)
	size := s.subtreeSize(key)
	s.flat = slices.Replace(s.flat, i, i+size-n, s.DeepKeys(key)...)
}

// cut removes count keys at index i of the flattened sequence.
func (s *Sorted[V]) cut(i, count int) {
	s.sync()
	if i < 0 || count == 0 {
		return
	}
	s.flat = slices.Delete(s.flat, i, i+count)
}

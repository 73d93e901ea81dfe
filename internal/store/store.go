// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package store implements the copy-on-write node store of a forest.
//
// A committed [Store] is never modified again. Every edit runs in a [Txn],
// which clones the top-level mapping once and each node at most once,
// the first time it is written. All untouched nodes are shared by pointer
// between the old and the new store, so two stores can be diffed by
// reference comparison.
//
// The primitives assume valid input. Precondition violations are
// programming errors and panic, the forest layer validates first.
//
// This is an internal package used by the forest data structure implementation.
package store

import (
	"fmt"
	"slices"
	"sort"
)

// Node is a store entry. The empty Parent marks a root.
//
// Nodes reachable from a committed Store are shared, callers must not
// modify them.
type Node[V any] struct {
	Key      string
	Parent   string
	Children []string
	Value    V
}

// clone returns a shallow copy with its own children slice.
func (n *Node[V]) clone() *Node[V] {
	c := *n
	c.Children = slices.Clone(n.Children)
	return &c
}

// Store is an immutable keyed node mapping plus the ordered list of roots.
// The nil *Store is the empty store.
type Store[V any] struct {
	nodes map[string]*Node[V]
	roots []string
}

// New returns an empty store.
func New[V any]() *Store[V] {
	return &Store[V]{nodes: map[string]*Node[V]{}}
}

// Len returns the number of nodes.
func (s *Store[V]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

// Has reports whether key is present.
func (s *Store[V]) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.nodes[key]
	return ok
}

// Node returns the entry for key. The node is shared, don't modify.
func (s *Store[V]) Node(key string) (*Node[V], bool) {
	if s == nil {
		return nil, false
	}
	n, ok := s.nodes[key]
	return n, ok
}

// Roots returns the ordered root keys. The slice is shared, don't modify.
func (s *Store[V]) Roots() []string {
	if s == nil {
		return nil
	}
	return s.roots
}

// Keys returns all keys in byte order.
func (s *Store[V]) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.nodes))
	for k := range s.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Add is the one-shot form of [Txn.Add].
func (s *Store[V]) Add(key, parent string, val V) *Store[V] {
	tx := s.Txn()
	tx.Add(key, parent, val)
	return tx.Commit()
}

// Move is the one-shot form of [Txn.Move].
func (s *Store[V]) Move(key, parent string) *Store[V] {
	tx := s.Txn()
	tx.Move(key, parent)
	return tx.Commit()
}

// Update is the one-shot form of [Txn.Update].
func (s *Store[V]) Update(key string, fn func(n *Node[V])) *Store[V] {
	tx := s.Txn()
	tx.Update(key, fn)
	return tx.Commit()
}

// Remove is the one-shot form of [Txn.Remove], it returns the removed
// entity together with the new store.
func (s *Store[V]) Remove(key string) (*Node[V], *Store[V]) {
	tx := s.Txn()
	n := tx.Remove(key)
	return n, tx.Commit()
}

// Same reports whether key refers to the identical entry in a and b.
// A key missing in both stores counts as same.
func Same[V any](a, b *Store[V], key string) bool {
	na, okA := a.Node(key)
	nb, okB := b.Node(key)
	return okA == okB && na == nb
}

// Diff returns the keys, in byte order, whose entries differ by identity
// between a and b: added, removed or rewritten nodes.
func Diff[V any](a, b *Store[V]) []string {
	if a == b {
		return nil
	}

	var keys []string
	if a != nil {
		for k, na := range a.nodes {
			if nb, ok := b.Node(k); !ok || na != nb {
				keys = append(keys, k)
			}
		}
	}
	if b != nil {
		for k := range b.nodes {
			if !a.Has(k) {
				keys = append(keys, k)
			}
		}
	}

	sort.Strings(keys)
	return keys
}

// mustNode panics if key is missing, used by the primitives for preconditions.
func mustNode[V any](nodes map[string]*Node[V], op, key string) *Node[V] {
	n, ok := nodes[key]
	if !ok {
		panic(fmt.Sprintf("store: %s: missing key %q", op, key))
	}
	return n
}

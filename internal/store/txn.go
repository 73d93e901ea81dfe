// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package store

import (
	"fmt"
	"maps"
	"slices"
)

// Txn collects edits on a private copy of a store.
// It is not safe for concurrent use and must not be used after Commit.
type Txn[V any] struct {
	nodes map[string]*Node[V]
	roots []string

	// nodes already cloned by this txn, safe to write in place
	owned map[string]bool

	// roots slice already copied
	ownedRoots bool
}

// Txn opens a transaction based on s, s itself stays untouched.
func (s *Store[V]) Txn() *Txn[V] {
	tx := &Txn[V]{owned: map[string]bool{}}
	if s == nil {
		tx.nodes = map[string]*Node[V]{}
		return tx
	}

	tx.nodes = maps.Clone(s.nodes)
	tx.roots = s.roots
	return tx
}

// Commit returns the new immutable store.
func (tx *Txn[V]) Commit() *Store[V] {
	s := &Store[V]{nodes: tx.nodes, roots: tx.roots}
	tx.nodes, tx.roots, tx.owned = nil, nil, nil
	return s
}

// Len returns the number of nodes in the txn.
func (tx *Txn[V]) Len() int {
	return len(tx.nodes)
}

// Has reports whether key is present in the txn.
func (tx *Txn[V]) Has(key string) bool {
	_, ok := tx.nodes[key]
	return ok
}

// Node returns the current entry for key, don't modify it.
func (tx *Txn[V]) Node(key string) (*Node[V], bool) {
	n, ok := tx.nodes[key]
	return n, ok
}

// Roots returns the current root order, don't modify it.
func (tx *Txn[V]) Roots() []string {
	return tx.roots
}

// mut returns a writable node for key, cloning it on first write.
func (tx *Txn[V]) mut(op, key string) *Node[V] {
	n := mustNode(tx.nodes, op, key)
	if tx.owned[key] {
		return n
	}
	n = n.clone()
	tx.nodes[key] = n
	tx.owned[key] = true
	return n
}

// mutRoots returns a writable roots slice.
func (tx *Txn[V]) mutRoots() []string {
	if !tx.ownedRoots {
		tx.roots = slices.Clone(tx.roots)
		tx.ownedRoots = true
	}
	return tx.roots
}

// Add inserts a new node. The key must be absent and the parent,
// if not empty, present. The key is appended to the parent's children,
// or to the roots.
func (tx *Txn[V]) Add(key, parent string, val V) {
	if _, ok := tx.nodes[key]; ok {
		panic(fmt.Sprintf("store: add: duplicate key %q", key))
	}

	if parent == "" {
		tx.roots = append(tx.mutRoots(), key)
	} else {
		p := tx.mut("add", parent)
		p.Children = append(p.Children, key)
	}

	tx.nodes[key] = &Node[V]{Key: key, Parent: parent, Value: val}
	tx.owned[key] = true
}

// Move detaches key from its parent (or the roots) and appends it
// to the children of parent, or to the roots if parent is empty.
func (tx *Txn[V]) Move(key, parent string) {
	n := tx.mut("move", key)
	tx.unlink(n)

	n.Parent = parent
	if parent == "" {
		tx.roots = append(tx.mutRoots(), key)
		return
	}
	p := tx.mut("move", parent)
	p.Children = append(p.Children, key)
}

// Update applies fn to a writable copy of the node for key.
// fn must not change Key or Parent, use Move for the latter.
func (tx *Txn[V]) Update(key string, fn func(n *Node[V])) {
	fn(tx.mut("update", key))
}

// Remove deletes key and unlinks it from its parent or the roots.
// The children of the removed node still point to it, the caller
// decides where they go.
func (tx *Txn[V]) Remove(key string) *Node[V] {
	n := mustNode(tx.nodes, "remove", key)
	tx.unlink(n)
	delete(tx.nodes, key)
	delete(tx.owned, key)
	return n
}

// Drop deletes key without touching its parent or its children.
// Used for the descendants of a node removed in the same txn.
func (tx *Txn[V]) Drop(key string) *Node[V] {
	n := mustNode(tx.nodes, "drop", key)
	delete(tx.nodes, key)
	delete(tx.owned, key)
	return n
}

// SetChildren replaces the children order of key, order must be
// a permutation of the current children.
func (tx *Txn[V]) SetChildren(key string, order []string) {
	n := mustNode(tx.nodes, "set children", key)
	if slices.Equal(n.Children, order) {
		return
	}
	n = tx.mut("set children", key)
	n.Children = slices.Clone(order)
}

// SetRoots replaces the root order, order must be a permutation
// of the current roots.
func (tx *Txn[V]) SetRoots(order []string) {
	if slices.Equal(tx.roots, order) {
		return
	}
	tx.roots = slices.Clone(order)
	tx.ownedRoots = true
}

// unlink removes n.Key from the children of its parent or from the roots.
// A parent already removed in this txn has nothing to unlink from.
func (tx *Txn[V]) unlink(n *Node[V]) {
	if n.Parent == "" {
		roots := tx.mutRoots()
		if i := slices.Index(roots, n.Key); i >= 0 {
			tx.roots = slices.Delete(roots, i, i+1)
		}
		return
	}

	if _, ok := tx.nodes[n.Parent]; !ok {
		return
	}
	p := tx.mut("unlink", n.Parent)
	if i := slices.Index(p.Children, n.Key); i >= 0 {
		p.Children = slices.Delete(p.Children, i, i+1)
	}
}

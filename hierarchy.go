// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"slices"

	"github.com/gaissmai/forest/internal/store"
)

// Entry is a key with its value.
type Entry[V any] struct {
	Key   string `json:"key"   yaml:"key"`
	Value V      `json:"value" yaml:"value"`
}

// view holds one immutable store and implements all read-only queries.
// Forest, Sorted and Snapshot embed it, mutations just swap the store.
//
// Queries never fail for missing keys, they return empty results.
type view[V any] struct {
	s *store.Store[V]
}

// Size returns the number of nodes in the forest.
func (v view[V]) Size() int {
	return v.s.Len()
}

// Has reports whether key is in the forest.
func (v view[V]) Has(key string) bool {
	return v.s.Has(key)
}

// Get returns the value for key and true, or the zero value and false.
func (v view[V]) Get(key string) (val V, ok bool) {
	if n, ok := v.s.Node(key); ok {
		return n.Value, true
	}
	return
}

// NodeInfo is a detached copy of one node.
type NodeInfo[V any] struct {
	Key      string
	Parent   string
	Children []string
	Value    V
}

// Node returns a copy of the node for key.
func (v view[V]) Node(key string) (info NodeInfo[V], ok bool) {
	n, ok := v.s.Node(key)
	if !ok {
		return info, false
	}
	return NodeInfo[V]{
		Key:      n.Key,
		Parent:   n.Parent,
		Children: slices.Clone(n.Children),
		Value:    n.Value,
	}, true
}

// RootKeys returns the keys of all roots in forest order.
func (v view[V]) RootKeys() []string {
	return slices.Clone(v.s.Roots())
}

// ParentKey returns the parent of key, the empty string for a root.
// ok is false if key is missing.
func (v view[V]) ParentKey(key string) (parent string, ok bool) {
	if n, ok := v.s.Node(key); ok {
		return n.Parent, true
	}
	return "", false
}

// AncestorKeys returns the ancestors of key, nearest first.
func (v view[V]) AncestorKeys(key string) []string {
	n, ok := v.s.Node(key)
	if !ok {
		return nil
	}

	var keys []string
	for n.Parent != "" {
		keys = append(keys, n.Parent)
		n, _ = v.s.Node(n.Parent)
	}
	return keys
}

// ChildrenKeys returns the direct children of key in order.
func (v view[V]) ChildrenKeys(key string) []string {
	if n, ok := v.s.Node(key); ok {
		return slices.Clone(n.Children)
	}
	return nil
}

// SiblingKeys returns the other children of the parent of key.
// The siblings of a root are all other roots.
func (v view[V]) SiblingKeys(key string) []string {
	group := v.siblingGroup(key)
	if group == nil {
		return nil
	}

	keys := make([]string, 0, len(group)-1)
	for _, k := range group {
		if k != key {
			keys = append(keys, k)
		}
	}
	return keys
}

// SiblingIndexOf returns the position of key among its siblings,
// or -1 if key is missing.
func (v view[V]) SiblingIndexOf(key string) int {
	return slices.Index(v.siblingGroup(key), key)
}

// Depth returns the number of ancestors of key, 0 for a root,
// -1 if key is missing.
func (v view[V]) Depth(key string) int {
	n, ok := v.s.Node(key)
	if !ok {
		return -1
	}

	depth := 0
	for n.Parent != "" {
		depth++
		n, _ = v.s.Node(n.Parent)
	}
	return depth
}

// IsRoot reports whether key is present and has no parent.
func (v view[V]) IsRoot(key string) bool {
	n, ok := v.s.Node(key)
	return ok && n.Parent == ""
}

// IsLeaf reports whether key is present and has no children.
func (v view[V]) IsLeaf(key string) bool {
	n, ok := v.s.Node(key)
	return ok && len(n.Children) == 0
}

// IsAncestor reports whether ancestor is a proper ancestor of key.
func (v view[V]) IsAncestor(ancestor, key string) bool {
	n, ok := v.s.Node(key)
	if !ok || ancestor == "" {
		return false
	}

	for n.Parent != "" {
		if n.Parent == ancestor {
			return true
		}
		n, _ = v.s.Node(n.Parent)
	}
	return false
}

// siblingGroup returns the shared children slice of the parent,
// or the roots, including key itself. Don't modify.
func (v view[V]) siblingGroup(key string) []string {
	n, ok := v.s.Node(key)
	if !ok {
		return nil
	}
	if n.Parent == "" {
		return v.s.Roots()
	}
	p, _ := v.s.Node(n.Parent)
	return p.Children
}

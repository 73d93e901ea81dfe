// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"iter"
	"slices"
)

// Order selects a traversal family.
type Order int

const (
	// DeepOrder is pre-order depth-first: a node, then the deep traversal
	// of each child from left to right.
	DeepOrder Order = iota

	// WideOrder is level-order breadth-first.
	WideOrder

	// DeepUpwardOrder starts at each leaf below an origin and walks its
	// ancestor chain up to that origin before taking the next leaf.
	DeepUpwardOrder

	// WideUpwardOrder yields all leaves first and then moves up level by
	// level. A node follows all of its descendants.
	WideUpwardOrder
)

func (o Order) String() string {
	switch o {
	case DeepOrder:
		return "deep"
	case WideOrder:
		return "wide"
	case DeepUpwardOrder:
		return "deep-upward"
	case WideUpwardOrder:
		return "wide-upward"
	default:
		return "unknown"
	}
}

// Traverse returns an iterator over key and value pairs in the given order.
//
// Without origins the whole forest is traversed. Otherwise only the subtrees
// rooted at the origins, missing origins are ignored and every key is
// yielded at most once, even for overlapping origins.
//
// The iterator runs on the store current at the time of the call,
// later mutations are not visible.
func (v view[V]) Traverse(order Order, origins ...string) iter.Seq2[string, V] {
	origins = v.origins(origins)

	return func(yield func(string, V) bool) {
		switch order {
		case DeepOrder:
			v.deep(origins, yield)
		case WideOrder:
			v.wide(origins, yield)
		case DeepUpwardOrder:
			v.yieldKeys(v.deepUpward(origins), yield)
		case WideUpwardOrder:
			v.yieldKeys(v.wideUpward(origins), yield)
		}
	}
}

// TraverseKeys returns the keys of [Forest.Traverse].
func (v view[V]) TraverseKeys(order Order, origins ...string) []string {
	var keys []string
	for k := range v.Traverse(order, origins...) {
		keys = append(keys, k)
	}
	return keys
}

// TraverseValues returns the values of [Forest.Traverse].
func (v view[V]) TraverseValues(order Order, origins ...string) []V {
	var vals []V
	for _, val := range v.Traverse(order, origins...) {
		vals = append(vals, val)
	}
	return vals
}

// TraverseEntries returns the key and value pairs of [Forest.Traverse].
func (v view[V]) TraverseEntries(order Order, origins ...string) []Entry[V] {
	var entries []Entry[V]
	for k, val := range v.Traverse(order, origins...) {
		entries = append(entries, Entry[V]{Key: k, Value: val})
	}
	return entries
}

// Deep is Traverse in DeepOrder.
func (v view[V]) Deep(origins ...string) iter.Seq2[string, V] {
	return v.Traverse(DeepOrder, origins...)
}

// Wide is Traverse in WideOrder.
func (v view[V]) Wide(origins ...string) iter.Seq2[string, V] {
	return v.Traverse(WideOrder, origins...)
}

// DeepUpward is Traverse in DeepUpwardOrder.
func (v view[V]) DeepUpward(origins ...string) iter.Seq2[string, V] {
	return v.Traverse(DeepUpwardOrder, origins...)
}

// WideUpward is Traverse in WideUpwardOrder.
func (v view[V]) WideUpward(origins ...string) iter.Seq2[string, V] {
	return v.Traverse(WideUpwardOrder, origins...)
}

// DeepKeys returns the keys in DeepOrder.
func (v view[V]) DeepKeys(origins ...string) []string {
	return v.TraverseKeys(DeepOrder, origins...)
}

// WideKeys returns the keys in WideOrder.
func (v view[V]) WideKeys(origins ...string) []string {
	return v.TraverseKeys(WideOrder, origins...)
}

// DeepUpwardKeys returns the keys in DeepUpwardOrder.
func (v view[V]) DeepUpwardKeys(origins ...string) []string {
	return v.TraverseKeys(DeepUpwardOrder, origins...)
}

// WideUpwardKeys returns the keys in WideUpwardOrder.
func (v view[V]) WideUpwardKeys(origins ...string) []string {
	return v.TraverseKeys(WideUpwardOrder, origins...)
}

// LeafKeys returns, in deep order, all leaves inside the subtrees
// of the origins, or of the whole forest without origins.
func (v view[V]) LeafKeys(origins ...string) []string {
	var leaves []string
	for k := range v.Traverse(DeepOrder, origins...) {
		if n, _ := v.s.Node(k); len(n.Children) == 0 {
			leaves = append(leaves, k)
		}
	}
	return leaves
}

// Reduce folds the pairs of seq into acc, e.g.
//
//	sum := forest.Reduce(f.Deep("alpha"), 0, func(acc int, _ string, v int) int { return acc + v })
func Reduce[V, A any](seq iter.Seq2[string, V], acc A, fn func(acc A, key string, val V) A) A {
	for k, v := range seq {
		acc = fn(acc, k, v)
	}
	return acc
}

// Map returns fn applied to every pair of seq, in iteration order.
func Map[V, R any](seq iter.Seq2[string, V], fn func(key string, val V) R) []R {
	var out []R
	for k, v := range seq {
		out = append(out, fn(k, v))
	}
	return out
}

// origins returns the roots for no origins, otherwise the present
// origins without duplicates.
func (v view[V]) origins(origins []string) []string {
	if len(origins) == 0 {
		return slices.Clone(v.s.Roots())
	}

	seen := make(map[string]bool, len(origins))
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if v.s.Has(o) && !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}

func (v view[V]) yieldKeys(keys []string, yield func(string, V) bool) {
	for _, k := range keys {
		n, _ := v.s.Node(k)
		if !yield(k, n.Value) {
			return
		}
	}
}

// deep walks pre-order with an explicit stack.
func (v view[V]) deep(origins []string, yield func(string, V) bool) {
	seen := map[string]bool{}
	stack := make([]string, 0, len(origins))

	for _, o := range origins {
		stack = append(stack[:0], o)

		for len(stack) > 0 {
			k := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if seen[k] {
				continue
			}
			seen[k] = true

			n, _ := v.s.Node(k)
			if !yield(k, n.Value) {
				return
			}

			// push in reverse, leftmost child on top
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, n.Children[i])
			}
		}
	}
}

// wide walks level by level, all origins form the first level.
func (v view[V]) wide(origins []string, yield func(string, V) bool) {
	seen := map[string]bool{}
	queue := slices.Clone(origins)

	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]

		if seen[k] {
			continue
		}
		seen[k] = true

		n, _ := v.s.Node(k)
		if !yield(k, n.Value) {
			return
		}
		queue = append(queue, n.Children...)
	}
}

// deepUpward collects, for each origin and each leaf below it in deep order,
// the chain from the leaf up to the origin. Keys already collected through
// an earlier origin are skipped, the ascent still runs up to the origin.
func (v view[V]) deepUpward(origins []string) []string {
	seen := map[string]bool{}
	var keys []string

	for _, o := range origins {
		for _, leaf := range v.LeafKeys(o) {
			for k := leaf; ; {
				if !seen[k] {
					seen[k] = true
					keys = append(keys, k)
				}
				if k == o {
					break
				}
				k, _ = v.ParentKey(k)
			}
		}
	}
	return keys
}

// wideUpward yields the leaves of the scope first, then each node as soon
// as all its children are done, level by level.
func (v view[V]) wideUpward(origins []string) []string {
	scope := v.TraverseKeys(DeepOrder, origins...)

	pending := make(map[string]int, len(scope))
	var level []string
	for _, k := range scope {
		n, _ := v.s.Node(k)
		pending[k] = len(n.Children)
		if len(n.Children) == 0 {
			level = append(level, k)
		}
	}

	keys := make([]string, 0, len(scope))
	for len(level) > 0 {
		keys = append(keys, level...)

		var next []string
		for _, k := range level {
			n, _ := v.s.Node(k)
			cnt, inScope := pending[n.Parent]
			if n.Parent == "" || !inScope {
				continue
			}
			pending[n.Parent] = cnt - 1
			if cnt == 1 {
				next = append(next, n.Parent)
			}
		}
		level = next
	}
	return keys
}

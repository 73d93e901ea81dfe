// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gaissmai/forest/internal/store"
)

// Allocation describes one node to be inserted by Populate.
// An empty Parent allocates a root.
type Allocation[V any] struct {
	Key    string
	Parent string
	Value  V

	// Implied marks an allocation that only fills a gap, e.g. an
	// intermediate path prefix. It never replaces an explicit
	// allocation of the same key.
	Implied bool
}

// Allocator maps an external record to zero, one or many allocations.
type Allocator[R, V any] func(record R) []Allocation[V]

// Populator is implemented by [Forest] and [Sorted].
type Populator[V any] interface {
	Populate(allocs []Allocation[V]) error
}

// PopulateFrom runs allocate over all records and populates p with
// the collected allocations, see [Forest.Populate].
func PopulateFrom[R, V any](p Populator[V], records []R, allocate Allocator[R, V]) error {
	var allocs []Allocation[V]
	for _, r := range records {
		allocs = append(allocs, allocate(r)...)
	}
	return p.Populate(allocs)
}

// Populate bulk-inserts allocations given in any order. A parent is
// always inserted before its children, siblings keep allocation order.
// Parents may also be nodes already in the forest.
//
// A key allocated more than once takes the last explicit allocation,
// or the last implied one if there is none, at the position of its first one.
//
// All references are resolved before anything is inserted. Every parent
// that is neither allocated nor present and every allocation on or below
// a cycle is reported as ErrUnallocatedReference, all combined into one
// error. Allocations below a missing parent are not reported again. Keys already present fail with ErrDuplicateKey.
// Nothing is inserted on error.
func (f *Forest[V]) Populate(allocs []Allocation[V]) error {
	order, byKey := dedupAllocations(allocs)

	// dependency edges: parent -> children in allocation order
	children := make(map[string][]string, len(order))
	missing := map[string]bool{}
	var ready []string
	var errs error

	for _, k := range order {
		a := byKey[k]
		switch {
		case k == "":
			return keyErr("populate", k, ErrInvalidKey)
		case f.s.Has(k):
			return keyErr("populate", k, ErrDuplicateKey)
		case a.Parent == "" || f.s.Has(a.Parent):
			ready = append(ready, k)
		case byKey[a.Parent] == nil:
			missing[k] = true
			errs = multierr.Append(errs, keyErr("populate", a.Parent, ErrUnallocatedReference))
		default:
			children[a.Parent] = append(children[a.Parent], k)
		}
	}

	// resolve parents before children, depth-first from the ready keys
	tx := f.s.Txn()
	stack := make([]string, 0, len(ready))
	for i := len(ready) - 1; i >= 0; i-- {
		stack = append(stack, ready[i])
	}
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		a := byKey[k]
		tx.Add(k, a.Parent, a.Value)

		kids := children[k]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}

	// whatever is left hangs below a missing parent, on a cycle or below one
	if errs != nil || tx.Len() != f.s.Len()+len(order) {
		for _, k := range order {
			if !tx.Has(k) && !dangling(k, byKey, missing) {
				errs = multierr.Append(errs, keyErr("populate", byKey[k].Parent, ErrUnallocatedReference))
			}
		}
		return errs
	}

	f.log().Debug("populate",
		zap.Int("allocations", len(allocs)),
		zap.Int("inserted", len(order)),
		zap.Int("size", tx.Len()))

	f.s = tx.Commit()
	return nil
}

// dedupAllocations returns the keys in order of first appearance and the
// last allocation per key.
func dedupAllocations[V any](allocs []Allocation[V]) ([]string, map[string]*Allocation[V]) {
	order := make([]string, 0, len(allocs))
	byKey := make(map[string]*Allocation[V], len(allocs))

	for i := range allocs {
		a := &allocs[i]
		prev, ok := byKey[a.Key]
		if !ok {
			order = append(order, a.Key)
		}
		if ok && a.Implied && !prev.Implied {
			continue
		}
		byKey[a.Key] = a
	}
	return order, byKey
}

// dangling reports whether the parent chain of k inside the batch ends
// at an allocation with a missing parent.
func dangling[V any](k string, byKey map[string]*Allocation[V], missing map[string]bool) bool {
	visited := map[string]bool{}
	for !visited[k] {
		if missing[k] {
			return true
		}
		visited[k] = true

		a := byKey[k]
		if a == nil {
			return false
		}
		k = a.Parent
	}
	return false
}

// PathAllocator returns an allocator for separated paths like "a/b/c".
// Each path allocates itself and all its missing intermediate prefixes,
// here "a", "a/b" and "a/b/c", each parented to the next shorter prefix.
// The values are computed by fn, leaf reports whether key is the full path.
//
// The prefixes are allocated as Implied, a path given as input keeps its
// leaf value regardless of the input order.
func PathAllocator[V any](sep string, fn func(key string, leaf bool) V) Allocator[string, V] {
	return func(path string) []Allocation[V] {
		path = strings.Trim(path, sep)
		if path == "" {
			return nil
		}

		parts := strings.Split(path, sep)
		allocs := make([]Allocation[V], 0, len(parts))
		parent := ""
		for i := range parts {
			key := strings.Join(parts[:i+1], sep)
			leaf := i == len(parts)-1
			allocs = append(allocs, Allocation[V]{
				Key:     key,
				Parent:  parent,
				Value:   fn(key, leaf),
				Implied: !leaf,
			})
			parent = key
		}
		return allocs
	}
}

// populated is a helper for the bulk constructors of Sorted and the
// decoders: a fresh store built from allocations.
func populated[V any](allocs []Allocation[V]) (*store.Store[V], error) {
	f := new(Forest[V])
	if err := f.Populate(allocs); err != nil {
		return nil, err
	}
	return f.s, nil
}

// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"iter"
	"slices"
)

// FlatKeys returns a copy of the flattened key sequence.
func (s *Sorted[V]) FlatKeys() []string {
	return slices.Clone(s.flat)
}

// Flat iterates keys and values in flattened order.
func (s *Sorted[V]) Flat() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		s.yieldKeys(slices.Clone(s.flat), yield)
	}
}

// KeyAt returns the key at index i of the flattened sequence.
func (s *Sorted[V]) KeyAt(i int) (string, bool) {
	if i < 0 || i >= len(s.flat) {
		return "", false
	}
	return s.flat[i], true
}

// ValueAt returns the value at index i of the flattened sequence.
func (s *Sorted[V]) ValueAt(i int) (val V, ok bool) {
	key, ok := s.KeyAt(i)
	if !ok {
		return val, false
	}
	return s.Get(key)
}

// IndexOf returns the index of key in the flattened sequence, or -1.
func (s *Sorted[V]) IndexOf(key string) int {
	if !s.Has(key) {
		return -1
	}
	return slices.Index(s.flat, key)
}

// FindIndexOf returns the index of the first key in flattened order
// satisfying pred, or -1.
func (s *Sorted[V]) FindIndexOf(pred func(key string, val V) bool) int {
	for i, k := range s.flat {
		if val, _ := s.Get(k); pred(k, val) {
			return i
		}
	}
	return -1
}

// NextKey returns the successor of key in flattened order.
func (s *Sorted[V]) NextKey(key string) (string, bool) {
	i := s.IndexOf(key)
	if i < 0 {
		return "", false
	}
	return s.KeyAt(i + 1)
}

// PrevKey returns the predecessor of key in flattened order.
func (s *Sorted[V]) PrevKey(key string) (string, bool) {
	i := s.IndexOf(key)
	if i < 0 {
		return "", false
	}
	return s.KeyAt(i - 1)
}

// FindNextKey returns the first key after key in flattened order
// satisfying pred.
func (s *Sorted[V]) FindNextKey(key string, pred func(key string, val V) bool) (string, bool) {
	i := s.IndexOf(key)
	if i < 0 {
		return "", false
	}
	for _, k := range s.flat[i+1:] {
		if val, _ := s.Get(k); pred(k, val) {
			return k, true
		}
	}
	return "", false
}

// FindPrevKey returns the nearest key before key in flattened order
// satisfying pred.
func (s *Sorted[V]) FindPrevKey(key string, pred func(key string, val V) bool) (string, bool) {
	i := s.IndexOf(key)
	if i < 0 {
		return "", false
	}
	for j := i - 1; j >= 0; j-- {
		k := s.flat[j]
		if val, _ := s.Get(k); pred(k, val) {
			return k, true
		}
	}
	return "", false
}

// FindSiblingIndexOf returns the index of the first sibling of key,
// key included, satisfying pred, or -1. The index counts within the
// sorted sibling group.
func (s *Sorted[V]) FindSiblingIndexOf(key string, pred func(key string, val V) bool) int {
	if !s.Has(key) {
		return -1
	}
	for i, k := range s.siblingGroup(key) {
		if val, _ := s.Get(k); pred(k, val) {
			return i
		}
	}
	return -1
}

// FlatPathKeys returns the keys of the flattened sequence from from to to,
// both included. The slice runs backwards if to precedes from.
// It returns nil if either key is missing.
func (s *Sorted[V]) FlatPathKeys(from, to string) []string {
	i, j := s.IndexOf(from), s.IndexOf(to)
	if i < 0 || j < 0 {
		return nil
	}
	if i <= j {
		return slices.Clone(s.flat[i : j+1])
	}

	keys := slices.Clone(s.flat[j : i+1])
	slices.Reverse(keys)
	return keys
}

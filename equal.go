// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"slices"

	"github.com/gaissmai/forest/internal/value"
)

// Equaler is a generic interface for types that can decide their own
// equality logic. It can be used to override the potentially expensive
// default comparison with [reflect.DeepEqual].
type Equaler[V any] interface {
	Equal(other V) bool
}

// Equal reports whether both forests have the same keys, parents,
// children order and values. Values implementing [Equaler] decide
// their own equality, otherwise [reflect.DeepEqual] is used.
func (f *Forest[V]) Equal(o Tree[V]) bool {
	return equalView(f.view, o.Snapshot().view)
}

// equalView compares structure and values, shared entries are
// equal by identity.
func equalView[V any](a, b view[V]) bool {
	if a.s == b.s {
		return true
	}
	if a.s.Len() != b.s.Len() || !slices.Equal(a.s.Roots(), b.s.Roots()) {
		return false
	}

	for _, k := range a.s.Keys() {
		na, _ := a.s.Node(k)
		nb, ok := b.s.Node(k)
		if !ok {
			return false
		}
		if na == nb {
			continue
		}
		if na.Parent != nb.Parent || !slices.Equal(na.Children, nb.Children) {
			return false
		}
		if !value.Equal(na.Value, nb.Value) {
			return false
		}
	}
	return true
}

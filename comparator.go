// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import "github.com/gaissmai/forest/internal/natural"

// Comparator orders siblings in a [Sorted] forest, it returns a negative
// number if a sorts before b, a positive number if after and 0 if equal.
// Ties keep the previous relative order.
type Comparator[V any] func(a, b Entry[V]) int

// NaturalOrder compares keys case-insensitively with embedded numbers
// compared by value, "a2" before "a10" before "B". The value is ignored.
func NaturalOrder[V any](a, b Entry[V]) int {
	return natural.Compare(a.Key, b.Key)
}

// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package natural compares strings in a human friendly order:
// case-insensitive and with digit runs compared by numeric value,
// so "a2" sorts before "a10" and "B" after "a".
//
// This is an internal package used by the forest data structure implementation.
package natural

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// a collate.Collator keeps internal buffers and is not safe for
// concurrent use, keep a pool of them.
var pool = sync.Pool{
	New: func() any {
		return collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
	},
}

// Compare returns -1, 0 or +1. Strings that collate equal are ordered
// by byte value, so the result is 0 only for identical strings.
func Compare(a, b string) int {
	if a == b {
		return 0
	}

	c := pool.Get().(*collate.Collator)
	r := c.CompareString(a, b)
	pool.Put(c)

	if r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

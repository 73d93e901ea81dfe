// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"errors"
	"fmt"
)

// Errors returned by the mutating methods, wrapped in a [*KeyError].
// Test with [errors.Is].
var (
	// ErrDuplicateKey, the key is already in the forest.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidParent, the parent is missing or would create a cycle.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrKeyNotFound, the key is not in the forest.
	ErrKeyNotFound = errors.New("key not found")

	// ErrMustBeLeaf, the node still has children.
	ErrMustBeLeaf = errors.New("must be leaf")

	// ErrUnallocatedReference, a parent referenced during Populate
	// is neither allocated nor present in the forest.
	ErrUnallocatedReference = errors.New("unallocated reference")

	// ErrInvalidKey, the empty string is reserved for "no parent".
	ErrInvalidKey = errors.New("invalid key")
)

// KeyError records a failed operation and the key that caused it.
type KeyError struct {
	Op  string // operation, e.g. "add", "trim"
	Key string // offending key
	Err error  // one of the Err* sentinels
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("forest: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }

func keyErr(op, key string, err error) error {
	return &KeyError{Op: op, Key: key, Err: err}
}

// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package value provides helpers for the generic payload V of a forest.
//
// Values are copied, deep-cloned or compared at the boundaries where one
// forest hands data to another one (Prune, Graft, Subtrees, Clone) and where
// two forests are compared (Equal). Payload types can take over these
// decisions by implementing [Cloner] or [Equaler].
//
// Zero-sized payloads like struct{} carry no information, IsZST lets the
// tree dumps omit them and reduce line noise.
//
// This is an internal package used by the forest data structure implementation.
package value

import (
	"reflect"
)

// IsZST reports whether type V is a zero-sized type (ZST).
//
// The Go runtime returns the same address for all allocations of a
// zero-sized type, so two fresh heap allocations of V compare equal
// exactly when V is a ZST.
func IsZST[V any]() bool {
	a, b := escapeToHeap[V]()
	return a == b
}

// escapeToHeap must not be inlined, otherwise the compiler could prove
// a != b statically.
//
//go:noinline
func escapeToHeap[V any]() (*V, *V) {
	return new(V), new(V)
}

// Equaler is a generic interface for types that can decide their own
// equality logic. It can be used to override the potentially expensive
// default comparison with [reflect.DeepEqual].
type Equaler[V any] interface {
	Equal(other V) bool
}

// Equal compares two values of type V for equality.
// If V implements Equaler[V], that custom equality method is used.
// Otherwise, reflect.DeepEqual is used as a fallback.
func Equal[V any](v1, v2 V) bool {
	// you can't assert directly on a type parameter
	if v1, ok := any(v1).(Equaler[V]); ok {
		return v1.Equal(v2)
	}
	return reflect.DeepEqual(v1, v2)
}

// Cloner is an interface that enables deep cloning of values of type V.
type Cloner[V any] interface {
	Clone() V
}

// CloneFunc returns the (possibly cloned) value.
type CloneFunc[V any] func(V) V

// CloneFnFactory returns CloneVal if V implements Cloner[V],
// otherwise CopyVal.
func CloneFnFactory[V any]() CloneFunc[V] {
	var zero V
	// you can't assert directly on a type parameter
	if _, ok := any(zero).(Cloner[V]); ok {
		return CloneVal[V]
	}
	return CopyVal[V]
}

// CloneVal returns a deep clone of val by calling Clone when
// val implements Cloner[V]. If val does not implement
// Cloner[V] or the Cloner receiver is nil (val is a nil pointer),
// CloneVal returns val unchanged.
func CloneVal[V any](val V) V {
	c, ok := any(val).(Cloner[V])
	if !ok || c == nil || isNilPtr(val) {
		return val
	}
	return c.Clone()
}

// CopyVal just copies the value of any type V.
func CopyVal[V any](val V) V {
	return val
}

// isNilPtr catches typed nil pointers hidden in the interface.
func isNilPtr[V any](val V) bool {
	rv := reflect.ValueOf(val)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest_test

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/gaissmai/forest"
)

// SyncForest demonstrates how to wrap a [forest.Forest] for concurrent access.
//
// Readers load the current immutable snapshot lock-free via an atomic pointer,
// writers are serialized by a mutex and publish a new snapshot after every
// successful mutation.
type SyncForest[V any] struct {
	// current published version, readers never lock
	atomicPtr atomic.Pointer[forest.Snapshot[V]]

	// guards the forest, one writer at a time
	mutex  sync.Mutex
	forest *forest.Forest[V]
}

// NewSyncForest creates and publishes an empty forest.
func NewSyncForest[V any]() *SyncForest[V] {
	sf := &SyncForest[V]{forest: forest.New[V]()}
	sf.atomicPtr.Store(sf.forest.Snapshot())
	return sf
}

// Get is a lock-free adapter for [forest.Forest.Get].
func (sf *SyncForest[V]) Get(key string) (V, bool) {
	return sf.atomicPtr.Load().Get(key)
}

// Snapshot returns the current version.
func (sf *SyncForest[V]) Snapshot() *forest.Snapshot[V] {
	return sf.atomicPtr.Load()
}

// Add is a sync adapter for [forest.Forest.Add].
func (sf *SyncForest[V]) Add(key, parent string, val V) error {
	return sf.write(func(f *forest.Forest[V]) error { return f.Add(key, parent, val) })
}

// Move is a sync adapter for [forest.Forest.Move].
func (sf *SyncForest[V]) Move(key, parent string) error {
	return sf.write(func(f *forest.Forest[V]) error { return f.Move(key, parent) })
}

// write runs fn under the writer lock and publishes the result.
func (sf *SyncForest[V]) write(fn func(f *forest.Forest[V]) error) error {
	sf.mutex.Lock()
	defer sf.mutex.Unlock()

	if err := fn(sf.forest); err != nil {
		return err
	}
	sf.atomicPtr.Store(sf.forest.Snapshot())
	return nil
}

func ExampleSnapshot_concurrent() {
	sf := NewSyncForest[int]()
	_ = sf.Add("root", "", 0)

	var g errgroup.Group

	// one writer
	g.Go(func() error {
		for i := range 1_000 {
			if err := sf.Add(fmt.Sprintf("n%d", i), "root", i); err != nil {
				return err
			}
		}
		return sf.Move("n999", "n0")
	})

	// many readers, every snapshot they see is consistent
	for range 4 {
		g.Go(func() error {
			for range 1_000 {
				snap := sf.Snapshot()
				if got, want := len(snap.DeepKeys()), snap.Size(); got != want {
					return fmt.Errorf("inconsistent snapshot: %d keys, size %d", got, want)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Println(err)
		return
	}

	snap := sf.Snapshot()
	fmt.Println(snap.Size(), snap.PathKeys("n999", "n1"))

	// Output:
	// 1001 [n999 n0 root n1]
}

// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"iter"
	"slices"
	"sort"

	"github.com/gaissmai/forest/internal/store"
)

// validateNew checks the preconditions for inserting key under parent.
func (v view[V]) validateNew(op, key, parent string) error {
	if key == "" {
		return keyErr(op, key, ErrInvalidKey)
	}
	if v.s.Has(key) {
		return keyErr(op, key, ErrDuplicateKey)
	}
	if parent != "" && !v.s.Has(parent) {
		return keyErr(op, parent, ErrInvalidParent)
	}
	return nil
}

// validateMove checks that key exists and parent is a valid new parent:
// empty, present and not inside the subtree of key.
func (v view[V]) validateMove(op, key, parent string) error {
	if !v.s.Has(key) {
		return keyErr(op, key, ErrKeyNotFound)
	}
	if parent == "" {
		return nil
	}
	if !v.s.Has(parent) || parent == key || v.IsAncestor(key, parent) {
		return keyErr(op, parent, ErrInvalidParent)
	}
	return nil
}

// Add inserts key with val as child of parent, or as a new root if parent
// is empty. It fails with ErrDuplicateKey, ErrInvalidParent or ErrInvalidKey.
func (f *Forest[V]) Add(key, parent string, val V) error {
	if err := f.validateNew("add", key, parent); err != nil {
		return err
	}
	f.s = f.s.Add(key, parent, val)
	return nil
}

// AddRoot inserts key with val as a new root.
func (f *Forest[V]) AddRoot(key string, val V) error {
	return f.Add(key, "", val)
}

// AddLeaf inserts key with val below parent, parent must not be empty.
func (f *Forest[V]) AddLeaf(key, parent string, val V) error {
	if parent == "" {
		return keyErr("add leaf", parent, ErrInvalidParent)
	}
	return f.Add(key, parent, val)
}

// Update replaces the value of key. It fails with ErrKeyNotFound.
func (f *Forest[V]) Update(key string, val V) error {
	return f.UpdateWith(key, func(V) V { return val })
}

// UpdateWith replaces the value of key with the result of fn applied to
// the old value. It fails with ErrKeyNotFound.
func (f *Forest[V]) UpdateWith(key string, fn func(old V) V) error {
	n, ok := f.s.Node(key)
	if !ok {
		return keyErr("update", key, ErrKeyNotFound)
	}

	val := fn(n.Value)
	f.s = f.s.Update(key, func(n *store.Node[V]) { n.Value = val })
	return nil
}

// Upsert updates key if present, the parent is ignored then,
// otherwise it inserts key below parent.
func (f *Forest[V]) Upsert(key, parent string, val V) error {
	return f.UpsertWith(key, parent, func(V, bool) V { return val })
}

// UpsertWith is [Forest.Upsert] with a callback, fn gets the old value
// and whether key was found.
func (f *Forest[V]) UpsertWith(key, parent string, fn func(old V, found bool) V) error {
	if n, ok := f.s.Node(key); ok {
		val := fn(n.Value, true)
		f.s = f.s.Update(key, func(n *store.Node[V]) { n.Value = val })
		return nil
	}

	if err := f.validateNew("upsert", key, parent); err != nil {
		return err
	}
	var zero V
	f.s = f.s.Add(key, parent, fn(zero, false))
	return nil
}

// Move re-parents key together with its subtree below parent, or makes it
// a root if parent is empty. The moved key becomes the last child.
// Moving to the current parent is a no-op.
//
// It fails with ErrKeyNotFound, or with ErrInvalidParent if parent is
// missing or inside the subtree of key.
func (f *Forest[V]) Move(key, parent string) error {
	if err := f.validateMove("move", key, parent); err != nil {
		return err
	}
	if n, _ := f.s.Node(key); n.Parent == parent {
		return nil
	}
	f.s = f.s.Move(key, parent)
	return nil
}

// Emplace updates and moves key if present, otherwise inserts it.
func (f *Forest[V]) Emplace(key, parent string, val V) error {
	return f.EmplaceWith(key, parent, func(V, bool) V { return val })
}

// EmplaceWith is [Forest.Emplace] with a callback, fn gets the old value
// and whether key was found.
func (f *Forest[V]) EmplaceWith(key, parent string, fn func(old V, found bool) V) error {
	n, ok := f.s.Node(key)
	if !ok {
		if err := f.validateNew("emplace", key, parent); err != nil {
			return err
		}
		var zero V
		f.s = f.s.Add(key, parent, fn(zero, false))
		return nil
	}

	if err := f.validateMove("emplace", key, parent); err != nil {
		return err
	}

	val := fn(n.Value, true)
	tx := f.s.Txn()
	tx.Update(key, func(n *store.Node[V]) { n.Value = val })
	if n.Parent != parent {
		tx.Move(key, parent)
	}
	f.s = tx.Commit()
	return nil
}

// Detach makes key a root in place, its subtree stays attached to it.
// Detaching a root is a no-op. It fails with ErrKeyNotFound.
func (f *Forest[V]) Detach(key string) error {
	return f.Move(key, "")
}

// Trim removes the leaf key and returns its value.
// It fails with ErrKeyNotFound or ErrMustBeLeaf.
func (f *Forest[V]) Trim(key string) (val V, err error) {
	n, ok := f.s.Node(key)
	if !ok {
		return val, keyErr("trim", key, ErrKeyNotFound)
	}
	if len(n.Children) != 0 {
		return val, keyErr("trim", key, ErrMustBeLeaf)
	}

	_, f.s = f.s.Remove(key)
	return n.Value, nil
}

// Truncate removes key together with its whole subtree and returns
// all removed keys with their values. It fails with ErrKeyNotFound.
func (f *Forest[V]) Truncate(key string) (map[string]V, error) {
	if !f.s.Has(key) {
		return nil, keyErr("truncate", key, ErrKeyNotFound)
	}

	removed := make(map[string]V)
	tx := f.s.Txn()
	for k, val := range f.Deep(key) {
		removed[k] = val
		if k == key {
			tx.Remove(k)
			continue
		}
		tx.Drop(k)
	}
	f.s = tx.Commit()
	return removed, nil
}

// Pluck removes only key and returns its value. The children of key
// become roots, in their sibling order. A plucked root is replaced by its
// children in the root list, otherwise they are appended to the roots.
// It fails with ErrKeyNotFound.
func (f *Forest[V]) Pluck(key string) (val V, err error) {
	n, ok := f.s.Node(key)
	if !ok {
		return val, keyErr("pluck", key, ErrKeyNotFound)
	}

	roots := f.s.Roots()
	if n.Parent == "" {
		roots = replaceKey(roots, key, n.Children)
	} else {
		roots = append(slices.Clone(roots), n.Children...)
	}

	tx := f.s.Txn()
	tx.Remove(key)
	for _, c := range n.Children {
		tx.Move(c, "")
	}
	tx.SetRoots(roots)
	f.s = tx.Commit()
	return n.Value, nil
}

// Splice removes only key and returns its value. The children of key take
// its place in the children of its former parent, or in the roots.
// It fails with ErrKeyNotFound.
func (f *Forest[V]) Splice(key string) (val V, err error) {
	n, ok := f.s.Node(key)
	if !ok {
		return val, keyErr("splice", key, ErrKeyNotFound)
	}

	order := replaceKey(f.siblingGroup(key), key, n.Children)

	tx := f.s.Txn()
	tx.Remove(key)
	for _, c := range n.Children {
		tx.Move(c, n.Parent)
	}
	if n.Parent == "" {
		tx.SetRoots(order)
	} else {
		tx.SetChildren(n.Parent, order)
	}
	f.s = tx.Commit()
	return n.Value, nil
}

// Sprout adds the entries as new children of key, in the given order.
// It fails with ErrKeyNotFound for key, ErrDuplicateKey or ErrInvalidKey
// for an entry. Nothing is added on error.
func (f *Forest[V]) Sprout(key string, entries ...Entry[V]) error {
	if !f.s.Has(key) {
		return keyErr("sprout", key, ErrKeyNotFound)
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if err := f.validateNew("sprout", e.Key, key); err != nil {
			return err
		}
		if seen[e.Key] {
			return keyErr("sprout", e.Key, ErrDuplicateKey)
		}
		seen[e.Key] = true
	}

	tx := f.s.Txn()
	for _, e := range entries {
		tx.Add(e.Key, key, e.Value)
	}
	f.s = tx.Commit()
	return nil
}

// EntriesOf normalizes a map to entries, sorted by key in byte order.
func EntriesOf[V any](m map[string]V) []Entry[V] {
	entries := make([]Entry[V], 0, len(m))
	for k, v := range m {
		entries = append(entries, Entry[V]{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// EntriesFrom normalizes key and value pairs to entries, in iteration order.
func EntriesFrom[V any](seq iter.Seq2[string, V]) []Entry[V] {
	var entries []Entry[V]
	for k, v := range seq {
		entries = append(entries, Entry[V]{Key: k, Value: v})
	}
	return entries
}

// replaceKey returns a copy of list with key replaced by repl.
func replaceKey(list []string, key string, repl []string) []string {
	i := slices.Index(list, key)
	out := make([]string, 0, len(list)-1+len(repl))
	out = append(out, list[:i]...)
	out = append(out, repl...)
	return append(out, list[i+1:]...)
}

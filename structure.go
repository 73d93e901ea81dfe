// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"slices"

	"go.uber.org/zap"

	"github.com/gaissmai/forest/internal/store"
)

// Graft copies the subtree rooted at saplingRoot out of sapling into this
// forest, as the last child of graftPoint or as a new root if graftPoint
// is empty. The inner structure and order of the subtree are preserved,
// values implementing [Cloner] are deep-cloned. The sapling is not modified.
//
// It fails with ErrKeyNotFound if saplingRoot is missing in the sapling or
// graftPoint in this forest, and with ErrDuplicateKey if any key of the
// subtree already exists here.
func (f *Forest[V]) Graft(sapling Tree[V], saplingRoot, graftPoint string) error {
	return f.graft("graft", sapling, saplingRoot, graftPoint, -1)
}

// GraftAt is [Forest.Graft] with a position, the grafted subtree becomes
// the child of graftPoint (or the root) at index. An index out of range
// appends it last.
//
// Prune and GraftAt with the former [Forest.SiblingIndexOf] restore the
// forest exactly.
func (f *Forest[V]) GraftAt(sapling Tree[V], saplingRoot, graftPoint string, index int) error {
	return f.graft("graft at", sapling, saplingRoot, graftPoint, index)
}

func (f *Forest[V]) graft(op string, sapling Tree[V], saplingRoot, graftPoint string, index int) error {
	src := sapling.Snapshot().view
	if !src.Has(saplingRoot) {
		return keyErr(op, saplingRoot, ErrKeyNotFound)
	}
	if graftPoint != "" && !f.s.Has(graftPoint) {
		return keyErr(op, graftPoint, ErrKeyNotFound)
	}
	for k := range src.Deep(saplingRoot) {
		if f.s.Has(k) {
			return keyErr(op, k, ErrDuplicateKey)
		}
	}

	tx := f.s.Txn()
	copySubtree(tx, src, saplingRoot, graftPoint)

	if graftPoint == "" {
		if order := moveLast(tx.Roots(), index); order != nil {
			tx.SetRoots(order)
		}
	} else {
		n, _ := tx.Node(graftPoint)
		if order := moveLast(n.Children, index); order != nil {
			tx.SetChildren(graftPoint, order)
		}
	}

	f.s = tx.Commit()
	return nil
}

// moveLast returns group with its last key moved to index,
// or nil if index does not address an earlier position.
func moveLast(group []string, index int) []string {
	if index < 0 || index >= len(group)-1 {
		return nil
	}
	last := group[len(group)-1]
	order := slices.Clone(group[:len(group)-1])
	return slices.Insert(order, index, last)
}

// Prune removes the subtree rooted at key from this forest and returns it
// as a new independent forest with key as its only root.
// It fails with ErrKeyNotFound.
func (f *Forest[V]) Prune(key string) (*Forest[V], error) {
	if !f.s.Has(key) {
		return nil, keyErr("prune", key, ErrKeyNotFound)
	}

	tx := store.New[V]().Txn()
	copySubtree(tx, f.view, key, "")
	pruned := &Forest[V]{cfg: f.cfg}
	pruned.s = tx.Commit()

	if _, err := f.Truncate(key); err != nil {
		return nil, err
	}
	return pruned, nil
}

// Subtrees partitions the forest, it returns one independent forest per
// root, in root order. The receiver is not modified.
func (f *Forest[V]) Subtrees() []*Forest[V] {
	trees := make([]*Forest[V], 0, len(f.s.Roots()))
	for _, root := range f.s.Roots() {
		tx := store.New[V]().Txn()
		copySubtree(tx, f.view, root, "")

		t := &Forest[V]{cfg: f.cfg}
		t.s = tx.Commit()
		trees = append(trees, t)
	}
	return trees
}

// MergeFunc decides whether a node a and its only child b are collapsed
// into one node. It returns the replacement and true, or false to keep both.
type MergeFunc[V any] func(a, b Entry[V]) (Entry[V], bool)

// Condense collapses single-child chains, walking down from every root.
//
// Whenever a node a has exactly one child b, merge is called. If it
// returns a replacement, a and b are both removed and replaced by one node
// with the returned key and value, at the position of a, below the parent
// of a and with the children of b; the walk continues at the new node.
// If merge declines, the walk continues into the chain of b without merging
// a. Nodes with no or several children are descended into child by child.
//
// It fails with ErrInvalidKey or ErrDuplicateKey if a replacement key is
// empty or already used by another node; the forest is unchanged then.
func (f *Forest[V]) Condense(merge MergeFunc[V]) error {
	tx := f.s.Txn()
	merges := 0

	var condense func(key string) error
	condense = func(key string) error {
		for {
			a, _ := tx.Node(key)
			if len(a.Children) != 1 {
				for _, c := range slices.Clone(a.Children) {
					if err := condense(c); err != nil {
						return err
					}
				}
				return nil
			}

			b, _ := tx.Node(a.Children[0])
			m, ok := merge(Entry[V]{Key: a.Key, Value: a.Value}, Entry[V]{Key: b.Key, Value: b.Value})
			if !ok {
				key = b.Key
				continue
			}

			if m.Key == "" {
				return keyErr("condense", m.Key, ErrInvalidKey)
			}
			if m.Key != a.Key && m.Key != b.Key && tx.Has(m.Key) {
				return keyErr("condense", m.Key, ErrDuplicateKey)
			}

			replacePair(tx, a, b, m)
			merges++
			key = m.Key
		}
	}

	for _, root := range slices.Clone(tx.Roots()) {
		if err := condense(root); err != nil {
			return err
		}
	}

	f.log().Debug("condense", zap.Int("merges", merges), zap.Int("size", tx.Len()))
	if merges == 0 {
		return nil
	}
	f.s = tx.Commit()
	return nil
}

// replacePair replaces a and its only child b by m, at the position of a.
func replacePair[V any](tx *store.Txn[V], a, b *store.Node[V], m Entry[V]) {
	var group []string
	if a.Parent == "" {
		group = tx.Roots()
	} else {
		p, _ := tx.Node(a.Parent)
		group = p.Children
	}
	order := replaceKey(group, a.Key, []string{m.Key})
	grandChildren := slices.Clone(b.Children)

	// park the grandchildren as roots while a and b are replaced
	for _, g := range grandChildren {
		tx.Move(g, "")
	}
	tx.Remove(b.Key)
	tx.Remove(a.Key)
	tx.Add(m.Key, a.Parent, m.Value)
	for _, g := range grandChildren {
		tx.Move(g, m.Key)
	}

	if a.Parent == "" {
		tx.SetRoots(order)
	} else {
		tx.SetChildren(a.Parent, order)
	}
}

// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"go.uber.org/zap"
)

// Sorted is a [Forest] whose siblings are kept in [Comparator] order,
// together with the flattened key sequence: a pre-order walk of the whole
// forest, so a parent precedes all its descendants and siblings follow
// each other in comparator order.
//
// Sorted wraps every mutation of the underlying forest and repairs the
// sequence afterwards, incrementally where possible:
//
//   - insert below a parent: resort that parent's children, splice the key in
//   - insert as root: resort the roots, relocate the root blocks
//   - value update: move only the block of the updated node, if its rank changed
//   - trim, truncate, prune: cut the removed range
//   - move, detach, splice, pluck, condense, graft, populate: full resort
//
// The zero value is ready to use and sorts in [NaturalOrder].
type Sorted[V any] struct {
	view[V]

	forest *Forest[V]
	cmp    Comparator[V]
	flat   []string
}

// NewSorted returns an empty sorted forest. A nil cmp selects [NaturalOrder].
func NewSorted[V any](cmp Comparator[V], opts ...Option) *Sorted[V] {
	return &Sorted[V]{
		forest: New[V](opts...),
		cmp:    cmp,
	}
}

// base returns the wrapped forest, initialized on first use.
func (s *Sorted[V]) base() *Forest[V] {
	if s.forest == nil {
		s.forest = new(Forest[V])
	}
	return s.forest
}

// sync publishes the store of the wrapped forest.
func (s *Sorted[V]) sync() {
	s.view = s.forest.view
}

func (s *Sorted[V]) compare() Comparator[V] {
	if s.cmp == nil {
		return NaturalOrder[V]
	}
	return s.cmp
}

// Comparator returns the sibling order in use.
func (s *Sorted[V]) Comparator() Comparator[V] {
	return s.compare()
}

// Snapshot returns the current immutable state.
func (s *Sorted[V]) Snapshot() *Snapshot[V] {
	return &Snapshot[V]{view: s.view}
}

// Equal, see [Forest.Equal].
func (s *Sorted[V]) Equal(o Tree[V]) bool {
	return equalView(s.view, o.Snapshot().view)
}

// Clone returns an independent copy, see [Forest.Clone].
func (s *Sorted[V]) Clone() *Sorted[V] {
	c := &Sorted[V]{
		forest: s.base().Clone(),
		cmp:    s.cmp,
		flat:   append([]string(nil), s.flat...),
	}
	c.sync()
	return c
}

// Clear removes all nodes.
func (s *Sorted[V]) Clear() {
	s.base().Clear()
	s.flat = nil
	s.sync()
}

// Add inserts key below parent, or as root, see [Forest.Add].
func (s *Sorted[V]) Add(key, parent string, val V) error {
	if err := s.base().Add(key, parent, val); err != nil {
		return err
	}
	s.inserted(key)
	return nil
}

// AddRoot inserts key as a new root.
func (s *Sorted[V]) AddRoot(key string, val V) error {
	return s.Add(key, "", val)
}

// AddLeaf inserts key below parent, parent must not be empty.
func (s *Sorted[V]) AddLeaf(key, parent string, val V) error {
	if err := s.base().AddLeaf(key, parent, val); err != nil {
		return err
	}
	s.inserted(key)
	return nil
}

// Update replaces the value of key, see [Forest.Update].
func (s *Sorted[V]) Update(key string, val V) error {
	return s.UpdateWith(key, func(V) V { return val })
}

// UpdateWith replaces the value of key, see [Forest.UpdateWith].
func (s *Sorted[V]) UpdateWith(key string, fn func(old V) V) error {
	if err := s.base().UpdateWith(key, fn); err != nil {
		return err
	}
	s.updated(key)
	return nil
}

// Upsert updates or inserts key, see [Forest.Upsert].
func (s *Sorted[V]) Upsert(key, parent string, val V) error {
	return s.UpsertWith(key, parent, func(V, bool) V { return val })
}

// UpsertWith updates or inserts key, see [Forest.UpsertWith].
func (s *Sorted[V]) UpsertWith(key, parent string, fn func(old V, found bool) V) error {
	found := s.Has(key)
	if err := s.base().UpsertWith(key, parent, fn); err != nil {
		return err
	}
	if found {
		s.updated(key)
	} else {
		s.inserted(key)
	}
	return nil
}

// Move re-parents key with its subtree, see [Forest.Move].
func (s *Sorted[V]) Move(key, parent string) error {
	if err := s.base().Move(key, parent); err != nil {
		return err
	}
	s.resort("move")
	return nil
}

// Emplace updates and moves, or inserts key, see [Forest.Emplace].
func (s *Sorted[V]) Emplace(key, parent string, val V) error {
	return s.EmplaceWith(key, parent, func(V, bool) V { return val })
}

// EmplaceWith updates and moves, or inserts key, see [Forest.EmplaceWith].
func (s *Sorted[V]) EmplaceWith(key, parent string, fn func(old V, found bool) V) error {
	oldParent, found := s.ParentKey(key)
	if err := s.base().EmplaceWith(key, parent, fn); err != nil {
		return err
	}

	switch {
	case !found:
		s.inserted(key)
	case oldParent == parent:
		s.updated(key)
	default:
		s.resort("emplace")
	}
	return nil
}

// Detach makes key a root in place, see [Forest.Detach].
func (s *Sorted[V]) Detach(key string) error {
	wasRoot := s.IsRoot(key)
	if err := s.base().Detach(key); err != nil {
		return err
	}
	if !wasRoot {
		s.resort("detach")
	}
	return nil
}

// Trim removes the leaf key, see [Forest.Trim].
func (s *Sorted[V]) Trim(key string) (V, error) {
	i := s.IndexOf(key)
	val, err := s.base().Trim(key)
	if err != nil {
		return val, err
	}
	s.cut(i, 1)
	return val, nil
}

// Truncate removes key and its subtree, see [Forest.Truncate].
func (s *Sorted[V]) Truncate(key string) (map[string]V, error) {
	i := s.IndexOf(key)
	removed, err := s.base().Truncate(key)
	if err != nil {
		return nil, err
	}
	s.cut(i, len(removed))
	return removed, nil
}

// Prune removes the subtree of key and returns it as a new sorted forest
// with the same comparator, see [Forest.Prune].
func (s *Sorted[V]) Prune(key string) (*Sorted[V], error) {
	i := s.IndexOf(key)
	pruned, err := s.base().Prune(key)
	if err != nil {
		return nil, err
	}

	n := pruned.Size()
	p := &Sorted[V]{
		forest: pruned,
		cmp:    s.cmp,
		flat:   append([]string(nil), s.flat[i:i+n]...),
	}
	p.sync()

	s.cut(i, n)
	return p, nil
}

// Pluck removes only key, its children become roots, see [Forest.Pluck].
func (s *Sorted[V]) Pluck(key string) (V, error) {
	val, err := s.base().Pluck(key)
	if err != nil {
		return val, err
	}
	s.resort("pluck")
	return val, nil
}

// Splice removes only key, its children move up, see [Forest.Splice].
func (s *Sorted[V]) Splice(key string) (V, error) {
	val, err := s.base().Splice(key)
	if err != nil {
		return val, err
	}
	s.resort("splice")
	return val, nil
}

// Sprout adds children to key, see [Forest.Sprout].
func (s *Sorted[V]) Sprout(key string, entries ...Entry[V]) error {
	if err := s.base().Sprout(key, entries...); err != nil {
		return err
	}
	s.sprouted(key, len(entries))
	return nil
}

// Condense collapses single-child chains, see [Forest.Condense].
func (s *Sorted[V]) Condense(merge MergeFunc[V]) error {
	if err := s.base().Condense(merge); err != nil {
		return err
	}
	s.resort("condense")
	return nil
}

// Graft copies a subtree of sapling below graftPoint, see [Forest.Graft].
func (s *Sorted[V]) Graft(sapling Tree[V], saplingRoot, graftPoint string) error {
	if err := s.base().Graft(sapling, saplingRoot, graftPoint); err != nil {
		return err
	}
	s.resort("graft")
	return nil
}

// GraftAt is [Sorted.Graft], the index is ignored since the comparator
// decides the position.
func (s *Sorted[V]) GraftAt(sapling Tree[V], saplingRoot, graftPoint string, _ int) error {
	return s.Graft(sapling, saplingRoot, graftPoint)
}

// Populate bulk-inserts allocations, see [Forest.Populate].
func (s *Sorted[V]) Populate(allocs []Allocation[V]) error {
	if err := s.base().Populate(allocs); err != nil {
		return err
	}
	s.resort("populate")
	return nil
}

// Subtrees returns one independent sorted forest per root, see [Forest.Subtrees].
func (s *Sorted[V]) Subtrees() []*Sorted[V] {
	forests := s.base().Subtrees()
	trees := make([]*Sorted[V], 0, len(forests))

	i := 0
	for _, f := range forests {
		t := &Sorted[V]{
			forest: f,
			cmp:    s.cmp,
			flat:   append([]string(nil), s.flat[i:i+f.Size()]...),
		}
		t.sync()
		trees = append(trees, t)
		i += f.Size()
	}
	return trees
}

// Sort switches to cmp, if not nil, and resorts the whole forest.
func (s *Sorted[V]) Sort(cmp Comparator[V]) {
	if cmp != nil {
		s.cmp = cmp
	}
	s.base()
	s.resort("sort")
}

func (s *Sorted[V]) log() *zap.Logger {
	return s.base().log()
}

// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import "slices"

// PathKeys returns the keys on the way from one node to another through
// their lowest common ancestor, both ends included, e.g.
//
//	alpha/2 -> alpha -> alpha/1 -> alpha/1/3
//
// PathKeys returns nil if a key is missing or the keys live in different
// trees, and [from] if from equals to.
//
// Both ends ascend toward their roots in lockstep. After every step the
// new head is looked up in the index of the other path (the searchlight),
// the first hit is the lowest common ancestor. The cost is proportional to
// the depths of both nodes, not to the size of the forest.
func (v view[V]) PathKeys(from, to string) []string {
	fromNode, ok := v.s.Node(from)
	if !ok {
		return nil
	}
	toNode, ok := v.s.Node(to)
	if !ok {
		return nil
	}
	if from == to {
		return []string{from}
	}

	pathFrom := []string{from}
	pathTo := []string{to}
	idxFrom := map[string]int{from: 0}
	idxTo := map[string]int{to: 0}

	var lca string
	for lca == "" {
		fromDone := fromNode.Parent == ""
		toDone := toNode.Parent == ""

		// both roots reached without any searchlight hit: different trees
		if fromDone && toDone {
			return nil
		}

		if !fromDone {
			head := fromNode.Parent
			fromNode, _ = v.s.Node(head)
			idxFrom[head] = len(pathFrom)
			pathFrom = append(pathFrom, head)

			if _, ok := idxTo[head]; ok {
				lca = head
				break
			}
		}

		if !toDone {
			head := toNode.Parent
			toNode, _ = v.s.Node(head)
			idxTo[head] = len(pathTo)
			pathTo = append(pathTo, head)

			if _, ok := idxFrom[head]; ok {
				lca = head
			}
		}
	}

	// from side up to the lca, the lca, then the to side downward
	path := make([]string, 0, idxFrom[lca]+idxTo[lca]+1)
	path = append(path, pathFrom[:idxFrom[lca]]...)
	path = append(path, lca)
	down := slices.Clone(pathTo[:idxTo[lca]])
	slices.Reverse(down)
	return append(path, down...)
}

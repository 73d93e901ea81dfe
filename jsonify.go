// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// DumpListNode is one node of the nested list produced by DumpList,
// children are a list, not a map, because the order matters.
type DumpListNode[V any] struct {
	Key      string            `json:"key"                yaml:"key"`
	Value    V                 `json:"value"              yaml:"value"`
	Children []DumpListNode[V] `json:"children,omitempty" yaml:"children,omitempty"`
}

// DumpList dumps the forest into a list of roots and their children,
// in forest order.
func (v view[V]) DumpList() []DumpListNode[V] {
	roots := v.s.Roots()
	if len(roots) == 0 {
		return nil
	}

	list := make([]DumpListNode[V], 0, len(roots))
	for _, root := range roots {
		list = append(list, v.dumpListRec(root))
	}
	return list
}

func (v view[V]) dumpListRec(key string) DumpListNode[V] {
	n, _ := v.s.Node(key)
	elem := DumpListNode[V]{Key: key, Value: n.Value}

	if len(n.Children) != 0 {
		elem.Children = make([]DumpListNode[V], 0, len(n.Children))
		for _, c := range n.Children {
			elem.Children = append(elem.Children, v.dumpListRec(c))
		}
	}
	return elem
}

// MarshalJSON dumps the forest as nested list, see [Forest.DumpList].
// An empty forest is an empty JSON array.
func (v view[V]) MarshalJSON() ([]byte, error) {
	list := v.DumpList()
	if list == nil {
		list = []DumpListNode[V]{}
	}
	return json.Marshal(list)
}

// MarshalYAML implements the [yaml.Marshaler] interface,
// same nested list as [Forest.MarshalJSON].
func (v view[V]) MarshalYAML() (any, error) {
	list := v.DumpList()
	if list == nil {
		list = []DumpListNode[V]{}
	}
	return list, nil
}

// UnmarshalJSON replaces the content of the forest with the decoded
// nested list. Keys must be unique and not empty, on error f is unchanged.
func (f *Forest[V]) UnmarshalJSON(data []byte) error {
	var list []DumpListNode[V]
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	return f.load(list)
}

// UnmarshalYAML implements the [yaml.Unmarshaler] interface,
// see [Forest.UnmarshalJSON].
func (f *Forest[V]) UnmarshalYAML(node *yaml.Node) error {
	var list []DumpListNode[V]
	if err := node.Decode(&list); err != nil {
		return err
	}
	return f.load(list)
}

// UnmarshalJSON, see [Forest.UnmarshalJSON], the decoded forest is sorted.
func (s *Sorted[V]) UnmarshalJSON(data []byte) error {
	if err := s.base().UnmarshalJSON(data); err != nil {
		return err
	}
	s.resort("unmarshal")
	return nil
}

// UnmarshalYAML, see [Forest.UnmarshalJSON], the decoded forest is sorted.
func (s *Sorted[V]) UnmarshalYAML(node *yaml.Node) error {
	if err := s.base().UnmarshalYAML(node); err != nil {
		return err
	}
	s.resort("unmarshal")
	return nil
}

// load rebuilds the store from a nested list.
func (f *Forest[V]) load(list []DumpListNode[V]) error {
	var allocs []Allocation[V]
	seen := make(map[string]bool)

	var flatten func(parent string, nodes []DumpListNode[V]) error
	flatten = func(parent string, nodes []DumpListNode[V]) error {
		for _, n := range nodes {
			if seen[n.Key] {
				return keyErr("unmarshal", n.Key, ErrDuplicateKey)
			}
			seen[n.Key] = true

			allocs = append(allocs, Allocation[V]{Key: n.Key, Parent: parent, Value: n.Value})
			if n.Key == "" {
				return keyErr("unmarshal", n.Key, ErrInvalidKey)
			}
			if err := flatten(n.Key, n.Children); err != nil {
				return err
			}
		}
		return nil
	}

	if err := flatten("", list); err != nil {
		return err
	}

	s, err := populated(allocs)
	if err != nil {
		return err
	}
	f.s = s
	return nil
}

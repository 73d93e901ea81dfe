// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/gaissmai/forest/internal/value"
)

// MarshalText implements the [encoding.TextMarshaler] interface,
// just a wrapper for [Forest.Fprint].
func (v view[V]) MarshalText() ([]byte, error) {
	w := new(bytes.Buffer)
	if err := v.Fprint(w); err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// String returns a hierarchical tree diagram of the forest,
// just a wrapper for [Forest.Fprint].
// If Fprint returns an error, String panics.
func (v view[V]) String() string {
	w := new(strings.Builder)
	if err := v.Fprint(w); err != nil {
		panic(err)
	}

	return w.String()
}

// Fprint writes a hierarchical tree diagram of the forest with default
// formatted payload V to w. If w is nil, Fprint panics.
// An empty forest writes nothing.
//
// Roots and children appear in forest order, for a [Sorted] forest
// this is comparator order.
//
//	.
//	├── alpha (19)
//	│   ├── alpha/1 (29)
//	│   │   └── alpha/1/3 (39)
//	│   └── alpha/2 (49)
//	└── beta (59)
//
// Values of zero-sized types, e.g. struct{}, are omitted.
func (v view[V]) Fprint(w io.Writer) error {
	if v.s.Len() == 0 {
		return nil
	}

	tree := treeprint.New()
	for _, root := range v.s.Roots() {
		v.fprintRec(tree, root)
	}

	_, err := io.WriteString(w, tree.String())
	return err
}

// fprintRec, rec-descent the subtree of key.
func (v view[V]) fprintRec(tree treeprint.Tree, key string) {
	n, _ := v.s.Node(key)

	label := key
	if !value.IsZST[V]() {
		label = fmt.Sprintf("%s (%v)", key, n.Value)
	}

	if len(n.Children) == 0 {
		tree.AddNode(label)
		return
	}

	branch := tree.AddBranch(label)
	for _, c := range n.Children {
		v.fprintRec(branch, c)
	}
}

// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest_test

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gaissmai/forest"
)

var paths = []string{
	"usr/bin/go",
	"usr/lib/go/src",
	"etc/hosts",
	"usr/bin/gofmt",
	"usr/lib/go/pkg",
	"etc/hostname",
}

func ExampleForest_Trim() {
	f := new(forest.Forest[int])
	_ = f.AddRoot("alpha", 19)
	_ = f.Add("alpha/1", "alpha", 29)

	_, err := f.Trim("alpha")
	fmt.Println(err, errors.Is(err, forest.ErrMustBeLeaf))

	val, err := f.Trim("alpha/1")
	fmt.Println(val, err, f.Size())

	// Output:
	// forest: trim "alpha": must be leaf true
	// 29 <nil> 1
}

func ExampleForest_PathKeys() {
	f := new(forest.Forest[int])
	_ = f.AddRoot("alpha", 0)
	_ = f.Add("alpha/1", "alpha", 1)
	_ = f.Add("alpha/2", "alpha", 2)
	_ = f.Add("alpha/1/3", "alpha/1", 3)

	fmt.Println(f.PathKeys("alpha/2", "alpha/1/3"))

	// Output:
	// [alpha/2 alpha alpha/1 alpha/1/3]
}

func ExamplePopulateFrom() {
	f := new(forest.Forest[int])
	depth := func(key string, _ bool) int { return strings.Count(key, "/") }

	if err := forest.PopulateFrom(f, paths, forest.PathAllocator("/", depth)); err != nil {
		fmt.Println(err)
		return
	}
	f.Fprint(os.Stdout)

	// Output:
	// .
	// ├── usr (0)
	// │   ├── usr/bin (1)
	// │   │   ├── usr/bin/go (2)
	// │   │   └── usr/bin/gofmt (2)
	// │   └── usr/lib (1)
	// │       └── usr/lib/go (2)
	// │           ├── usr/lib/go/src (3)
	// │           └── usr/lib/go/pkg (3)
	// └── etc (0)
	//     ├── etc/hosts (1)
	//     └── etc/hostname (1)
}

func ExampleSorted() {
	s := forest.NewSorted[struct{}](nil)
	alloc := forest.PathAllocator("/", func(string, bool) struct{} { return struct{}{} })
	_ = forest.PopulateFrom(s, paths, alloc)

	for i, key := range s.FlatKeys() {
		fmt.Println(i, key)
	}

	next, _ := s.NextKey("usr/bin/gofmt")
	fmt.Println("next:", next)

	// Output:
	// 0 etc
	// 1 etc/hostname
	// 2 etc/hosts
	// 3 usr
	// 4 usr/bin
	// 5 usr/bin/go
	// 6 usr/bin/gofmt
	// 7 usr/lib
	// 8 usr/lib/go
	// 9 usr/lib/go/pkg
	// 10 usr/lib/go/src
	// next: usr/lib
}

func ExampleForest_Condense() {
	f := new(forest.Forest[struct{}])
	alloc := forest.PathAllocator("/", func(string, bool) struct{} { return struct{}{} })
	_ = forest.PopulateFrom(f, []string{"a/b/c/d", "a/b/x", "e/f"}, alloc)

	// keep the deeper key of a single-child chain
	_ = f.Condense(func(a, b forest.Entry[struct{}]) (forest.Entry[struct{}], bool) {
		return b, true
	})
	fmt.Print(f)

	// Output:
	// .
	// ├── a/b
	// │   ├── a/b/c/d
	// │   └── a/b/x
	// └── e/f
}

func ExampleSnapshot_Changed() {
	f := new(forest.Forest[int])
	_ = f.AddRoot("a", 1)
	_ = f.Add("a/1", "a", 2)
	_ = f.AddRoot("b", 3)

	before := f.Snapshot()
	_ = f.Update("a/1", 42)
	_ = f.Add("b/1", "b", 4)

	fmt.Println(f.Snapshot().Changed(before))
	fmt.Println(before.Same(f.Snapshot()))

	// Output:
	// [a/1 b b/1]
	// false
}

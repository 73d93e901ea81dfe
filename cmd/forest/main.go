// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command forest builds a sorted forest from separated paths, one per
// line, and prints it as tree diagram, JSON or YAML.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gaissmai/forest"
)

func main() {
	app := cli.App{
		Name:  "forest",
		Usage: "build a sorted forest from separated paths",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "read paths from `FILE`, default stdin",
			},
			&cli.StringFlag{
				Name:  "sep",
				Value: "/",
				Usage: "path separator",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log forest internals to stderr",
			},
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "tree",
			Usage:  "print the tree diagram",
			Action: runTree,
		},
		{
			Name:   "json",
			Usage:  "print the nested JSON list",
			Action: runJSON,
		},
		{
			Name:   "yaml",
			Usage:  "print the nested YAML list",
			Action: runYAML,
		},
		{
			Name:      "path",
			Usage:     "print the hierarchy path between two keys",
			ArgsUsage: "FROM TO",
			Action:    runPath,
		},
		{
			Name:  "random",
			Usage: "print random paths, input for the other commands",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "count", Value: 20, Usage: "number of paths"},
				&cli.IntFlag{Name: "depth", Value: 4, Usage: "max path depth"},
				&cli.Uint64Flag{Name: "seed", Value: 42, Usage: "PCG seed"},
			},
			Action: runRandom,
		},
	}
	app.RunAndExitOnError()
}

// load reads the paths and populates a sorted forest.
func load(cctx *cli.Context) (*forest.Sorted[struct{}], error) {
	var r io.Reader = os.Stdin
	if name := cctx.String("file"); name != "" {
		fh, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		r = fh
	}

	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	log := zap.NewNop()
	if cctx.Bool("debug") {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	sorted := forest.NewSorted[struct{}](nil, forest.WithLogger(log))
	alloc := forest.PathAllocator(cctx.String("sep"), func(string, bool) struct{} { return struct{}{} })
	if err := forest.PopulateFrom(sorted, paths, alloc); err != nil {
		return nil, err
	}
	return sorted, nil
}

func runTree(cctx *cli.Context) error {
	f, err := load(cctx)
	if err != nil {
		return err
	}
	return f.Fprint(os.Stdout)
}

func runJSON(cctx *cli.Context) error {
	f, err := load(cctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

func runYAML(cctx *cli.Context) error {
	f, err := load(cctx)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(f)
}

func runPath(cctx *cli.Context) error {
	if cctx.NArg() != 2 {
		return cli.Exit("need FROM and TO as arguments", 1)
	}

	f, err := load(cctx)
	if err != nil {
		return err
	}

	from, to := cctx.Args().Get(0), cctx.Args().Get(1)
	path := f.PathKeys(from, to)
	if path == nil {
		return cli.Exit(fmt.Sprintf("no path from %q to %q", from, to), 1)
	}

	for _, key := range path {
		fmt.Println(key)
	}
	return nil
}

func runRandom(cctx *cli.Context) error {
	seed := cctx.Uint64("seed")
	prng := rand.New(rand.NewPCG(seed, seed))

	sep := cctx.String("sep")
	depth := max(cctx.Int("depth"), 1)

	for range cctx.Int("count") {
		fmt.Println(randomPath(prng, sep, depth))
	}
	return nil
}

// randomPath returns a path of 1 to depth segments from a small alphabet,
// so paths share prefixes.
func randomPath(prng *rand.Rand, sep string, depth int) string {
	segments := make([]string, 1+prng.IntN(depth))
	for i := range segments {
		segments[i] = fmt.Sprintf("%c%d", 'a'+rune(prng.IntN(3)), prng.IntN(12))
	}
	return strings.Join(segments, sep)
}

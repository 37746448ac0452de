// Package gen builds random expression trees for genetic programming:
// untyped and typed grow/full growers, closure synthesis for
// function-typed positions, and ramped half-and-half initialisation.
//
// Every entry point takes its random source explicitly and keeps no state
// between calls, so independent calls may run concurrently as long as
// each has its own source (or a rng.Locked one) and the palette is not
// modified meanwhile.
package gen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/rng"
)

// Params controls the shape of generated trees.
type Params struct {
	MaxDepth    int     // no root-to-leaf path is longer than this
	ConstProb   float64 // chance a terminal is a constant rather than a variable
	SubtreeProb float64 // chance a node below MaxDepth is internal

	// Depth is the depth of the position being filled; 0 means the root (1).
	Depth int
	// FormalIndex is the first free index for synthesized parameter names.
	// 0 picks the first index that cannot collide with an input name.
	FormalIndex int
	// FormalPrefix prefixes synthesized parameter names; default "arg".
	FormalPrefix string
}

const defaultFormalPrefix = "arg"

// DefaultParams returns the parameters used by the engine defaults.
func DefaultParams() Params {
	return Params{
		MaxDepth:     4,
		ConstProb:    0.3,
		SubtreeProb:  0.7,
		FormalPrefix: defaultFormalPrefix,
	}
}

var errNilSource = errors.New("gen: nil random source")

// generator carries the per-call state shared by the recursive growers.
// Everything in it is read-only during a call.
type generator struct {
	pal *registry.Palette
	src rng.Source
	prm Params
}

func newGenerator(pal *registry.Palette, src rng.Source, prm Params) (*generator, error) {
	if err := pal.Validate(); err != nil {
		return nil, fmt.Errorf("gen: %w", err)
	}
	if src == nil {
		return nil, errNilSource
	}
	if prm.Depth < 1 {
		prm.Depth = 1
	}
	if prm.FormalPrefix == "" {
		prm.FormalPrefix = defaultFormalPrefix
	}
	if prm.FormalIndex < 1 {
		prm.FormalIndex = firstFreeIndex(pal.Inputs, prm.FormalPrefix)
	}
	if pal.Constants.Len() == 0 {
		prm.ConstProb = 0
	}
	return &generator{pal: pal, src: src, prm: prm}, nil
}

// firstFreeIndex returns 1 + the largest k such that an input is named
// prefix+k, or 1 when there is none.
func firstFreeIndex(scope registry.Scope, prefix string) int {
	next := 1
	for _, v := range scope.All() {
		rest, ok := strings.CutPrefix(v.Name, prefix)
		if !ok {
			continue
		}
		if k, err := strconv.Atoi(rest); err == nil && k >= next {
			next = k + 1
		}
	}
	return next
}

func (g *generator) formalName(idx int) string {
	return g.prm.FormalPrefix + strconv.Itoa(idx)
}

// chance reports whether a uniform draw selects an event of probability p.
// A zero probability never fires, even on a zero draw.
func chance(draw, p float64) bool {
	return p > 0 && draw <= p
}

func pick[T any](src rng.Source, items []T) T {
	return items[src.Intn(len(items))]
}

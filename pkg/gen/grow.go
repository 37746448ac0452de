package gen

import (
	"github.com/wildfunctions/genetic_programs/pkg/expr"
	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/rng"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// Grower builds one expression tree for a position of type t. Untyped
// growers ignore t.
type Grower func(t types.Type, pal *registry.Palette, src rng.Source, prm Params) (expr.ExprNode, error)

var (
	_ Grower = Grow
	_ Grower = Full
	_ Grower = GrowTyped
	_ Grower = FullTyped
	_ Grower = RandomCall
)

// Grow builds an untyped tree: below MaxDepth each node is internal with
// probability SubtreeProb, using any operator regardless of its type.
func Grow(_ types.Type, pal *registry.Palette, src rng.Source, prm Params) (expr.ExprNode, error) {
	g, err := newGenerator(pal, src, prm)
	if err != nil {
		return nil, err
	}
	return g.grow(pal.Inputs, g.prm.Depth)
}

// Full is Grow with SubtreeProb pinned to 1, so every path reaches MaxDepth
// unless an operator has no arguments.
func Full(t types.Type, pal *registry.Palette, src rng.Source, prm Params) (expr.ExprNode, error) {
	prm.SubtreeProb = 1.0
	return Grow(t, pal, src, prm)
}

func (g *generator) grow(scope registry.Scope, depth int) (expr.ExprNode, error) {
	if depth >= g.prm.MaxDepth {
		return g.terminal(nil, scope)
	}
	if !chance(g.src.Float64(), g.prm.SubtreeProb) {
		return g.terminal(nil, scope)
	}

	ops := g.pal.Operators.All()
	if len(ops) == 0 {
		return nil, exhausted(nil, "no operator")
	}
	name := pick(g.src, ops)
	arity, _ := g.pal.Operators.Arity(name)

	args := make([]expr.ExprNode, arity)
	for i := range args {
		child, err := g.grow(scope, depth+1)
		if err != nil {
			return nil, err
		}
		args[i] = child
	}
	return &expr.CallNode{Op: name, Args: args}, nil
}

package gen

import (
	"github.com/wildfunctions/genetic_programs/pkg/expr"
	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/rng"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// RandomCall builds a one-shot random term of type t. It follows the typed
// grower for function types, but for value types it falls back to a
// terminal when no operator produces t instead of failing, and it does not
// record call signatures.
func RandomCall(t types.Type, pal *registry.Palette, src rng.Source, prm Params) (expr.ExprNode, error) {
	if err := types.Valid(t); err != nil {
		return nil, invalidType(t, err)
	}
	g, err := newGenerator(pal, src, prm)
	if err != nil {
		return nil, err
	}
	node, _, err := g.randomCall(t, pal.Inputs, g.prm.Depth, g.prm.FormalIndex)
	return node, err
}

func (g *generator) randomCall(t types.Type, scope registry.Scope, depth, idx int) (expr.ExprNode, int, error) {
	switch tt := t.(type) {
	case types.Func:
		return g.typedFunc(tt, scope, depth, idx, g.randomCall)
	case types.Base:
		return g.randomValue(tt, scope, depth, idx)
	default:
		return nil, idx, invalidType(t, types.Valid(t))
	}
}

func (g *generator) randomValue(t types.Base, scope registry.Scope, depth, idx int) (expr.ExprNode, int, error) {
	if depth < g.prm.MaxDepth && chance(g.src.Float64(), g.prm.SubtreeProb) {
		if ops := g.pal.Operators.ByRange(t); len(ops) > 0 {
			name := pick(g.src, ops)
			sig, _ := g.pal.Operators.Signature(name)
			args := make([]expr.ExprNode, len(sig.Domain))
			for i, d := range sig.Domain {
				child, next, err := g.randomCall(d, scope, depth+1, idx)
				if err != nil {
					return nil, idx, err
				}
				args[i], idx = child, next
			}
			return &expr.CallNode{Op: name, Args: args, Type: t}, idx, nil
		}
	}
	leaf, err := g.terminal(t, scope)
	return leaf, idx, err
}

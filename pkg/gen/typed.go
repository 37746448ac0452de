package gen

import (
	"github.com/wildfunctions/genetic_programs/pkg/expr"
	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/rng"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// GrowTyped builds a tree whose root is tagged with t and whose every node
// is tagged with the type its position requires. Function-typed positions
// get either an existing operator of that exact type or a new closure.
func GrowTyped(t types.Type, pal *registry.Palette, src rng.Source, prm Params) (expr.ExprNode, error) {
	if err := types.Valid(t); err != nil {
		return nil, invalidType(t, err)
	}
	g, err := newGenerator(pal, src, prm)
	if err != nil {
		return nil, err
	}
	node, _, err := g.typed(t, pal.Inputs, g.prm.Depth, g.prm.FormalIndex)
	return node, err
}

// FullTyped is GrowTyped with SubtreeProb pinned to 1.
func FullTyped(t types.Type, pal *registry.Palette, src rng.Source, prm Params) (expr.ExprNode, error) {
	prm.SubtreeProb = 1.0
	return GrowTyped(t, pal, src, prm)
}

// typed fills a position of type t at the given depth. idx is the next
// free formal index; the returned index is past every name the subtree
// allocated, so names stay unique across siblings as well.
func (g *generator) typed(t types.Type, scope registry.Scope, depth, idx int) (expr.ExprNode, int, error) {
	switch tt := t.(type) {
	case types.Base:
		return g.typedValue(tt, scope, depth, idx)
	case types.Func:
		return g.typedFunc(tt, scope, depth, idx, g.typed)
	default:
		return nil, idx, invalidType(t, types.Valid(t))
	}
}

func (g *generator) typedValue(t types.Base, scope registry.Scope, depth, idx int) (expr.ExprNode, int, error) {
	if depth >= g.prm.MaxDepth || !chance(g.src.Float64(), g.prm.SubtreeProb) {
		leaf, err := g.terminal(t, scope)
		return leaf, idx, err
	}

	ops := g.pal.Operators.ByRange(t)
	if len(ops) == 0 {
		return nil, idx, exhausted(t, "no operator with range")
	}
	name := pick(g.src, ops)
	sig, _ := g.pal.Operators.Signature(name)

	args := make([]expr.ExprNode, len(sig.Domain))
	argTypes := make([]types.Type, len(sig.Domain))
	for i, d := range sig.Domain {
		child, next, err := g.typed(d, scope, depth+1, idx)
		if err != nil {
			return nil, idx, err
		}
		args[i], argTypes[i], idx = child, child.TypeOf(), next
	}
	return &expr.CallNode{
		Op:        name,
		Args:      args,
		Type:      t,
		Signature: types.FuncOf(argTypes, t),
	}, idx, nil
}

type fillFunc func(t types.Type, scope registry.Scope, depth, idx int) (expr.ExprNode, int, error)

// typedFunc fills a function-typed position. At the depth bound, or when
// the draw misses SubtreeProb, an existing function of the exact type is
// used; otherwise a closure is synthesized with fresh parameters and a
// body built by fill.
func (g *generator) typedFunc(t types.Func, scope registry.Scope, depth, idx int, fill fillFunc) (expr.ExprNode, int, error) {
	draw := g.src.Float64()
	if depth >= g.prm.MaxDepth || !chance(draw, g.prm.SubtreeProb) {
		fn, err := g.existingFunc(t, scope)
		return fn, idx, err
	}

	params := make([]*expr.VarNode, len(t.Domain))
	bound := make([]registry.Variable, len(t.Domain))
	for i, d := range t.Domain {
		name := g.formalName(idx + i)
		params[i] = &expr.VarNode{Name: name, Type: d}
		bound[i] = registry.Variable{Name: name, Type: d}
	}

	body, next, err := fill(t.Range, scope.Extend(bound...), depth+1, idx+len(t.Domain))
	if err != nil {
		return nil, idx, err
	}
	return &expr.LambdaNode{Params: params, Body: body, Type: t}, next, nil
}

// existingFunc picks an operator whose full signature is t, or failing
// that a variable in scope of type t.
func (g *generator) existingFunc(t types.Func, scope registry.Scope) (expr.ExprNode, error) {
	if ops := g.pal.Operators.ByType(t); len(ops) > 0 {
		return &expr.FuncRefNode{Name: pick(g.src, ops), Type: t}, nil
	}
	if vars := scope.ByType(t); len(vars) > 0 {
		return &expr.VarNode{Name: pick(g.src, vars).Name, Type: t}, nil
	}
	return nil, exhausted(t, "no operator or variable")
}

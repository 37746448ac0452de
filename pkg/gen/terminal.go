package gen

import (
	"github.com/wildfunctions/genetic_programs/pkg/expr"
	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// terminalStrategy tries to produce a leaf of type t (any leaf when t is
// nil) and reports whether its class had a candidate.
type terminalStrategy func(g *generator, t types.Type, scope registry.Scope) (expr.ExprNode, bool)

// terminalOrder lists the strategies to try for one draw: the class the
// draw selects first, the other class as fallback.
func terminalOrder(draw, constProb float64) []terminalStrategy {
	if chance(draw, constProb) {
		return []terminalStrategy{pickConstant, pickVariable}
	}
	return []terminalStrategy{pickVariable, pickConstant}
}

// terminal emits a constant or a variable reference. Typed requests
// (t != nil) only consider members of exactly type t, fall back to the
// other class and tag the leaf with t. Untyped requests draw from the
// selected class alone.
func (g *generator) terminal(t types.Type, scope registry.Scope) (expr.ExprNode, error) {
	order := terminalOrder(g.src.Float64(), g.prm.ConstProb)
	if t == nil {
		if leaf, ok := order[0](g, nil, scope); ok {
			return leaf, nil
		}
		return nil, exhausted(nil, "empty terminal class")
	}
	for _, try := range order {
		if leaf, ok := try(g, t, scope); ok {
			return leaf, nil
		}
	}
	return nil, exhausted(t, "no constant factory and no input variable")
}

func pickConstant(g *generator, t types.Type, _ registry.Scope) (expr.ExprNode, bool) {
	var names []string
	if t == nil {
		names = g.pal.Constants.All()
	} else {
		names = g.pal.Constants.ByType(t)
	}
	if len(names) == 0 {
		return nil, false
	}
	k, _ := g.pal.Constants.Lookup(pick(g.src, names))
	return &expr.ConstNode{Name: k.Name, Val: k.Make(g.src), Type: t}, true
}

func pickVariable(g *generator, t types.Type, scope registry.Scope) (expr.ExprNode, bool) {
	var vars []registry.Variable
	if t == nil {
		vars = scope.All()
	} else {
		vars = scope.ByType(t)
	}
	if len(vars) == 0 {
		return nil, false
	}
	v := pick(g.src, vars)
	return &expr.VarNode{Name: v.Name, Type: t}, true
}

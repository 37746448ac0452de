package gen

import (
	"github.com/google/uuid"

	"github.com/wildfunctions/genetic_programs/pkg/expr"
	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/rng"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// RandFunc builds an untyped individual whose parameters are the palette
// inputs and whose body comes from grow.
func RandFunc(pal *registry.Palette, src rng.Source, prm Params, grow Grower) (*expr.Program, error) {
	body, err := grow(nil, pal, src, prm)
	if err != nil {
		return nil, err
	}
	return &expr.Program{
		ID:     uuid.New(),
		Params: formals(pal.Inputs, false),
		Body:   body,
	}, nil
}

// RandFuncTyped builds an individual returning t. Its type is the function
// from the input types to t.
func RandFuncTyped(t types.Type, pal *registry.Palette, src rng.Source, prm Params, grow Grower) (*expr.Program, error) {
	body, err := grow(t, pal, src, prm)
	if err != nil {
		return nil, err
	}
	return &expr.Program{
		ID:     uuid.New(),
		Params: formals(pal.Inputs, true),
		Body:   body,
		Type:   types.FuncOf(pal.Inputs.Types(), t),
	}, nil
}

func formals(inputs registry.Scope, typed bool) []*expr.VarNode {
	vars := inputs.All()
	params := make([]*expr.VarNode, len(vars))
	for i, v := range vars {
		params[i] = &expr.VarNode{Name: v.Name}
		if typed {
			params[i].Type = v.Type
		}
	}
	return params
}

// Ramped flips a fair coin per call: full when the draw exceeds 0.5,
// grow otherwise.
func Ramped(grow, full Grower) Grower {
	return func(t types.Type, pal *registry.Palette, src rng.Source, prm Params) (expr.ExprNode, error) {
		if src == nil {
			return nil, errNilSource
		}
		if src.Float64() > 0.5 {
			return full(t, pal, src, prm)
		}
		return grow(t, pal, src, prm)
	}
}

// RampedHalfAndHalf builds an untyped individual, half the time in full
// mode.
func RampedHalfAndHalf(pal *registry.Palette, src rng.Source, prm Params) (*expr.Program, error) {
	return RandFunc(pal, src, prm, Ramped(Grow, Full))
}

// RampedHalfAndHalfTyped is RampedHalfAndHalf for a typed individual
// returning t.
func RampedHalfAndHalfTyped(t types.Type, pal *registry.Palette, src rng.Source, prm Params) (*expr.Program, error) {
	return RandFuncTyped(t, pal, src, prm, Ramped(GrowTyped, FullTyped))
}

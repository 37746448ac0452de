package strategy

import (
	"github.com/wildfunctions/genetic_programs/pkg/expr"
	"github.com/wildfunctions/genetic_programs/pkg/gen"
	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/rng"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

func init() {
	Register("grow", func() Strategy { return &GrowerStrategy{name: "grow", untyped: gen.Grow, typed: gen.GrowTyped} })
	Register("full", func() Strategy { return &GrowerStrategy{name: "full", untyped: gen.Full, typed: gen.FullTyped} })
	Register("ramped", func() Strategy {
		return &GrowerStrategy{
			name:    "ramped",
			untyped: gen.Ramped(gen.Grow, gen.Full),
			typed:   gen.Ramped(gen.GrowTyped, gen.FullTyped),
		}
	})
}

// GrowerStrategy builds every individual with one pair of growers.
type GrowerStrategy struct {
	name    string
	untyped gen.Grower
	typed   gen.Grower
}

func (s *GrowerStrategy) Name() string { return s.name }

func (s *GrowerStrategy) Individual(t types.Type, pal *registry.Palette, src rng.Source, prm gen.Params) (*expr.Program, error) {
	if t == nil {
		return gen.RandFunc(pal, src, prm, s.untyped)
	}
	return gen.RandFuncTyped(t, pal, src, prm, s.typed)
}

package pool

import (
	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/rng"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// Fixed returns a factory that always yields v.
func Fixed(v any) func(rng.Source) any {
	return func(rng.Source) any { return v }
}

// Uniform returns a factory drawing a double in [lo, hi).
func Uniform(lo, hi float64) func(rng.Source) any {
	return func(src rng.Source) any { return lo + src.Float64()*(hi-lo) }
}

// IntRange returns a factory drawing an integer in [lo, hi], converted to
// a double when asDouble is set.
func IntRange(lo, hi int, asDouble bool) func(rng.Source) any {
	return func(src rng.Source) any {
		v := lo + src.Intn(hi-lo+1)
		if asDouble {
			return float64(v)
		}
		return v
	}
}

// Choice returns a factory picking one of values.
func Choice(values ...any) func(rng.Source) any {
	return func(src rng.Source) any { return values[src.Intn(len(values))] }
}

func constant(name string, t types.Type, factory func(rng.Source) any) registry.Constant {
	return registry.Constant{Name: name, Type: t, Make: factory}
}

func input(name string, t types.Type) registry.Variable {
	return registry.Variable{Name: name, Type: t}
}

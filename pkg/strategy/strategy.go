// Package strategy names the ways an initial population can be grown.
package strategy

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/wildfunctions/genetic_programs/pkg/expr"
	"github.com/wildfunctions/genetic_programs/pkg/gen"
	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/rng"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// Strategy builds one individual of an initial population. A nil type
// selects untyped generation.
type Strategy interface {
	Name() string
	Individual(t types.Type, pal *registry.Palette, src rng.Source, prm gen.Params) (*expr.Program, error)
}

var strategies = map[string]func() Strategy{}

// Register adds a strategy constructor to the registry.
func Register(name string, constructor func() Strategy) {
	strategies[name] = constructor
}

// Get returns a strategy by name.
func Get(name string) (Strategy, error) {
	ctor, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
	return ctor(), nil
}

// Names returns all registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for k := range strategies {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Initialize builds one individual per seed, running at most workers
// generations at a time. Individual i draws only from rng.New(seeds[i]),
// so the population does not depend on scheduling. check, when non-nil,
// sees every individual as soon as it is built; the first error from
// generation, check or ctx aborts the batch and no population is returned.
func Initialize(ctx context.Context, s Strategy, t types.Type, pal *registry.Palette, prm gen.Params, seeds []int64, workers int, check func(i int, p *expr.Program) error) ([]*expr.Program, error) {
	pop := make([]*expr.Program, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, seed := range seeds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := s.Individual(t, pal, rng.New(seed), prm)
			if err != nil {
				return fmt.Errorf("individual %d: %w", i, err)
			}
			if check != nil {
				if err := check(i, p); err != nil {
					return fmt.Errorf("individual %d: %w", i, err)
				}
			}
			pop[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pop, nil
}

// Package pool provides named palettes of operators, constants and inputs
// for tree generation, plus a loader for palettes described in YAML.
package pool

import (
	"fmt"
	"sort"

	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// Base types used by the builtin operators.
var (
	Double = types.Base{Name: "double"}
	Bool   = types.Base{Name: "bool"}
)

// Pool is a palette with a name and, optionally, one sample value per
// input so generated individuals can be evaluated.
type Pool struct {
	Name    string
	Palette *registry.Palette
	Samples map[string]any
}

// SampleArgs returns the sample values in input order, or false when some
// input has no sample.
func (p *Pool) SampleArgs() ([]any, bool) {
	vars := p.Palette.Inputs.All()
	args := make([]any, len(vars))
	for i, v := range vars {
		val, ok := p.Samples[v.Name]
		if !ok {
			return nil, false
		}
		args[i] = val
	}
	return args, true
}

var pools = map[string]func() (*Pool, error){}

// Register adds a pool constructor to the registry.
func Register(name string, constructor func() (*Pool, error)) {
	pools[name] = constructor
}

// Get returns a pool by name.
func Get(name string) (*Pool, error) {
	ctor, ok := pools[name]
	if !ok {
		return nil, fmt.Errorf("unknown pool: %s", name)
	}
	p, err := ctor()
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", name, err)
	}
	return p, nil
}

// Names returns all registered pool names, sorted.
func Names() []string {
	names := make([]string, 0, len(pools))
	for k := range pools {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// build assembles a pool from builtin operator names.
func build(name string, ops []string, consts []registry.Constant, inputs []registry.Variable, samples map[string]any) (*Pool, error) {
	list := make([]registry.Operator, 0, len(ops))
	for _, n := range ops {
		op, ok := Builtin(n)
		if !ok {
			return nil, fmt.Errorf("no builtin operator %q", n)
		}
		list = append(list, op)
	}
	o, err := registry.NewOperators(list...)
	if err != nil {
		return nil, err
	}
	c, err := registry.NewConstants(consts...)
	if err != nil {
		return nil, err
	}
	pal := &registry.Palette{Operators: o, Constants: c, Inputs: registry.NewScope(inputs...)}
	if err := pal.Validate(); err != nil {
		return nil, err
	}
	return &Pool{Name: name, Palette: pal, Samples: samples}, nil
}

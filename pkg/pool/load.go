package pool

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wildfunctions/genetic_programs/pkg/expr"
	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/rng"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// File is the YAML form of a palette.
//
//	name: mine
//	operators:
//	  - name: plus
//	    type: (double,double)->double
//	  - name: add
//	    type: (double,double)->double
//	    impl: plus
//	constants:
//	  - {name: one, type: double, value: 1}
//	  - {name: erc, type: double, uniform: [-1, 1]}
//	inputs:
//	  - {name: x, type: double, sample: 2.5}
type File struct {
	Name      string         `yaml:"name"`
	Operators []OperatorSpec `yaml:"operators"`
	Constants []ConstantSpec `yaml:"constants"`
	Inputs    []InputSpec    `yaml:"inputs"`
}

// OperatorSpec declares an operator. Impl names the builtin that
// implements it and defaults to Name; an operator without a builtin can
// still be generated but not evaluated.
type OperatorSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Impl string `yaml:"impl,omitempty"`
}

// ConstantSpec declares a constant factory. Exactly one of Value,
// Uniform, Intn and Choice must be set. Type may be empty for a constant
// only usable by untyped generation.
type ConstantSpec struct {
	Name    string    `yaml:"name"`
	Type    string    `yaml:"type,omitempty"`
	Value   any       `yaml:"value,omitempty"`
	Uniform []float64 `yaml:"uniform,omitempty"`
	Intn    []int     `yaml:"intn,omitempty"`
	Choice  []any     `yaml:"choice,omitempty"`
}

// InputSpec declares an input variable and an optional sample value. A
// function-typed sample names an operator of the palette.
type InputSpec struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Sample any    `yaml:"sample,omitempty"`
}

// LoadFile reads and parses a YAML palette.
func LoadFile(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pool %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse builds a pool from YAML content. The path argument is used only
// for error messages.
func Parse(data []byte, path string) (*Pool, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	p, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Build resolves types and implementations and assembles the pool.
func (f *File) Build() (*Pool, error) {
	ops := make([]registry.Operator, 0, len(f.Operators))
	for i, spec := range f.Operators {
		op, err := spec.operator()
		if err != nil {
			return nil, fmt.Errorf("operators[%d]: %w", i, err)
		}
		ops = append(ops, op)
	}
	o, err := registry.NewOperators(ops...)
	if err != nil {
		return nil, err
	}

	consts := make([]registry.Constant, 0, len(f.Constants))
	for i, spec := range f.Constants {
		c, err := spec.constant()
		if err != nil {
			return nil, fmt.Errorf("constants[%d]: %w", i, err)
		}
		consts = append(consts, c)
	}
	c, err := registry.NewConstants(consts...)
	if err != nil {
		return nil, err
	}

	vars := make([]registry.Variable, 0, len(f.Inputs))
	for i, spec := range f.Inputs {
		t, err := types.Parse(spec.Type)
		if err != nil {
			return nil, fmt.Errorf("inputs[%d] %s: %w", i, spec.Name, err)
		}
		vars = append(vars, registry.Variable{Name: spec.Name, Type: t})
	}

	pal := &registry.Palette{Operators: o, Constants: c, Inputs: registry.NewScope(vars...)}
	if err := pal.Validate(); err != nil {
		return nil, err
	}

	samples := map[string]any{}
	for i, spec := range f.Inputs {
		if spec.Sample == nil {
			continue
		}
		v, err := sampleValue(vars[i].Type, spec.Sample, o)
		if err != nil {
			return nil, fmt.Errorf("inputs[%d] %s: %w", i, spec.Name, err)
		}
		samples[spec.Name] = v
	}

	name := f.Name
	if name == "" {
		name = "custom"
	}
	return &Pool{Name: name, Palette: pal, Samples: samples}, nil
}

func (s OperatorSpec) operator() (registry.Operator, error) {
	t, err := types.Parse(s.Type)
	if err != nil {
		return registry.Operator{}, fmt.Errorf("%s: %w", s.Name, err)
	}
	ft, ok := t.(types.Func)
	if !ok {
		return registry.Operator{}, fmt.Errorf("%s: operator type %s is not a function type", s.Name, t)
	}
	op := registry.Operator{Name: s.Name, Type: ft}

	impl := s.Impl
	if impl == "" {
		impl = s.Name
	}
	b, ok := Builtin(impl)
	switch {
	case !ok && s.Impl != "":
		return registry.Operator{}, fmt.Errorf("%s: no builtin %q", s.Name, impl)
	case ok && !types.Equal(b.Type, ft):
		return registry.Operator{}, fmt.Errorf("%s: builtin %s has type %s, declared %s", s.Name, impl, b.Type, ft)
	case ok:
		op.Impl = b.Impl
	}
	return op, nil
}

func (s ConstantSpec) constant() (registry.Constant, error) {
	var t types.Type
	if s.Type != "" {
		var err error
		if t, err = types.Parse(s.Type); err != nil {
			return registry.Constant{}, fmt.Errorf("%s: %w", s.Name, err)
		}
	}

	set := 0
	for _, present := range []bool{s.Value != nil, s.Uniform != nil, s.Intn != nil, s.Choice != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return registry.Constant{}, fmt.Errorf("%s: exactly one of value, uniform, intn, choice is required", s.Name)
	}

	isDouble := types.Equal(t, Double)
	var factory func(rng.Source) any
	switch {
	case s.Value != nil:
		v, err := coerce(t, s.Value)
		if err != nil {
			return registry.Constant{}, fmt.Errorf("%s: %w", s.Name, err)
		}
		factory = Fixed(v)
	case s.Uniform != nil:
		if len(s.Uniform) != 2 || s.Uniform[0] > s.Uniform[1] {
			return registry.Constant{}, fmt.Errorf("%s: uniform needs [lo, hi]", s.Name)
		}
		factory = Uniform(s.Uniform[0], s.Uniform[1])
	case s.Intn != nil:
		if len(s.Intn) != 2 || s.Intn[0] > s.Intn[1] {
			return registry.Constant{}, fmt.Errorf("%s: intn needs [lo, hi]", s.Name)
		}
		factory = IntRange(s.Intn[0], s.Intn[1], isDouble)
	default:
		if len(s.Choice) == 0 {
			return registry.Constant{}, fmt.Errorf("%s: empty choice", s.Name)
		}
		values := make([]any, len(s.Choice))
		for i, c := range s.Choice {
			v, err := coerce(t, c)
			if err != nil {
				return registry.Constant{}, fmt.Errorf("%s: choice[%d]: %w", s.Name, i, err)
			}
			values[i] = v
		}
		factory = Choice(values...)
	}
	return registry.Constant{Name: s.Name, Type: t, Make: factory}, nil
}

// coerce converts a decoded YAML scalar to the runtime form of t. Unknown
// base types pass through unchanged.
func coerce(t types.Type, v any) (any, error) {
	switch {
	case types.Equal(t, Double):
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		}
		return nil, fmt.Errorf("%v is not a double", v)
	case types.Equal(t, Bool):
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("%v is not a bool", v)
	}
	return v, nil
}

func sampleValue(t types.Type, v any, ops *registry.Operators) (any, error) {
	ft, ok := t.(types.Func)
	if !ok {
		return coerce(t, v)
	}
	name, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("function sample must name an operator, got %v", v)
	}
	op, ok := ops.Lookup(name)
	if !ok || op.Impl == nil {
		return nil, fmt.Errorf("no evaluable operator %q", name)
	}
	if !types.Equal(op.Type, ft) {
		return nil, fmt.Errorf("operator %s has type %s, want %s", name, op.Type, ft)
	}
	return expr.Closure(op.Impl), nil
}

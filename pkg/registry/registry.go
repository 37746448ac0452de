// Package registry indexes the building blocks available to tree
// generation: operators, constant factories and input variables. Each
// collection is reachable as a whole, by exact type key and by range key.
package registry

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"github.com/wildfunctions/genetic_programs/pkg/rng"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// ErrDuplicate is returned when two members share a name.
var ErrDuplicate = errors.New("duplicate name")

// index maps a type key to the sorted names registered under it.
type index map[string]*set.TreeSet[string]

func newNameSet() *set.TreeSet[string] {
	return set.NewTreeSet[string](cmp.Compare[string])
}

func (ix index) add(key, name string) {
	s, ok := ix[key]
	if !ok {
		s = newNameSet()
		ix[key] = s
	}
	s.Insert(name)
}

func (ix index) members(t types.Type) []string {
	if t == nil {
		return nil
	}
	s, ok := ix[t.Key()]
	if !ok {
		return nil
	}
	return s.Slice()
}

// Operator is a named function usable as an internal tree node, or as a
// function value when its full signature is what a position requires.
type Operator struct {
	Name string
	Type types.Func
	Impl func(args []any) (any, error)
}

// Arity is the number of children a call to o takes.
func (o Operator) Arity() int { return len(o.Type.Domain) }

// Operators is an immutable operator set.
type Operators struct {
	byName  map[string]Operator
	all     *set.TreeSet[string]
	byType  index
	byRange index
}

// NewOperators indexes ops by name, by full signature and by range.
func NewOperators(ops ...Operator) (*Operators, error) {
	o := &Operators{
		byName:  make(map[string]Operator, len(ops)),
		all:     newNameSet(),
		byType:  index{},
		byRange: index{},
	}
	for _, op := range ops {
		if op.Name == "" {
			return nil, fmt.Errorf("operator with empty name")
		}
		if err := types.Valid(op.Type); err != nil {
			return nil, fmt.Errorf("operator %s: %w", op.Name, err)
		}
		if _, dup := o.byName[op.Name]; dup {
			return nil, fmt.Errorf("operator %s: %w", op.Name, ErrDuplicate)
		}
		o.byName[op.Name] = op
		o.all.Insert(op.Name)
		o.byType.add(op.Type.Key(), op.Name)
		o.byRange.add(op.Type.Range.Key(), op.Name)
	}
	return o, nil
}

// All returns every operator name, sorted.
func (o *Operators) All() []string {
	if o == nil {
		return nil
	}
	return o.all.Slice()
}

// ByType returns the operators whose full signature is t.
func (o *Operators) ByType(t types.Type) []string {
	if o == nil {
		return nil
	}
	return o.byType.members(t)
}

// ByRange returns the operators producing a value of type t.
func (o *Operators) ByRange(t types.Type) []string {
	if o == nil {
		return nil
	}
	return o.byRange.members(t)
}

func (o *Operators) Lookup(name string) (Operator, bool) {
	if o == nil {
		return Operator{}, false
	}
	op, ok := o.byName[name]
	return op, ok
}

func (o *Operators) Arity(name string) (int, bool) {
	op, ok := o.Lookup(name)
	if !ok {
		return 0, false
	}
	return op.Arity(), true
}

func (o *Operators) Signature(name string) (types.Func, bool) {
	op, ok := o.Lookup(name)
	if !ok {
		return types.Func{}, false
	}
	return op.Type, true
}

func (o *Operators) Len() int {
	if o == nil {
		return 0
	}
	return len(o.byName)
}

// Constant is a zero-input factory; each call to Make creates one fresh
// constant terminal.
type Constant struct {
	Name string
	Type types.Type
	Make func(src rng.Source) any
}

// Constants is an immutable constant factory set.
type Constants struct {
	byName  map[string]Constant
	all     *set.TreeSet[string]
	byType  index
	byRange index
}

// NewConstants indexes factories by name and, when typed, by type and range.
func NewConstants(cs ...Constant) (*Constants, error) {
	c := &Constants{
		byName:  make(map[string]Constant, len(cs)),
		all:     newNameSet(),
		byType:  index{},
		byRange: index{},
	}
	for _, k := range cs {
		if k.Name == "" {
			return nil, fmt.Errorf("constant with empty name")
		}
		if k.Make == nil {
			return nil, fmt.Errorf("constant %s: no factory", k.Name)
		}
		if _, dup := c.byName[k.Name]; dup {
			return nil, fmt.Errorf("constant %s: %w", k.Name, ErrDuplicate)
		}
		c.byName[k.Name] = k
		c.all.Insert(k.Name)
		if k.Type != nil {
			if err := types.Valid(k.Type); err != nil {
				return nil, fmt.Errorf("constant %s: %w", k.Name, err)
			}
			c.byType.add(k.Type.Key(), k.Name)
			c.byRange.add(types.RangeOf(k.Type).Key(), k.Name)
		}
	}
	return c, nil
}

func (c *Constants) All() []string {
	if c == nil {
		return nil
	}
	return c.all.Slice()
}

func (c *Constants) ByType(t types.Type) []string {
	if c == nil {
		return nil
	}
	return c.byType.members(t)
}

func (c *Constants) ByRange(t types.Type) []string {
	if c == nil {
		return nil
	}
	return c.byRange.members(t)
}

func (c *Constants) Lookup(name string) (Constant, bool) {
	if c == nil {
		return Constant{}, false
	}
	k, ok := c.byName[name]
	return k, ok
}

func (c *Constants) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byName)
}

// Palette bundles everything a generator may draw from.
type Palette struct {
	Operators *Operators
	Constants *Constants
	Inputs    Scope
}

// Validate reports a palette that cannot produce any tree.
func (p *Palette) Validate() error {
	if p == nil {
		return fmt.Errorf("nil palette")
	}
	if p.Operators == nil {
		return fmt.Errorf("palette has no operator set")
	}
	if p.Constants.Len() == 0 && p.Inputs.Len() == 0 {
		return fmt.Errorf("palette has neither constants nor inputs")
	}
	return nil
}

package registry

import (
	"maps"

	"src.elv.sh/pkg/persistent/vector"

	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// Variable is a named terminal reference: an input or a bound parameter.
// Type is nil in untyped palettes.
type Variable struct {
	Name string
	Type types.Type
}

// Scope is the persistent set of variables visible at a tree position.
// Extend returns a new scope sharing the receiver's entries; a Scope is
// never modified after construction. The zero value is an empty scope.
type Scope struct {
	all     vector.Vector
	byType  map[string]vector.Vector
	byRange map[string]vector.Vector
}

// NewScope returns a scope holding vars in order.
func NewScope(vars ...Variable) Scope {
	return Scope{}.Extend(vars...)
}

// Extend returns s plus vars.
func (s Scope) Extend(vars ...Variable) Scope {
	if len(vars) == 0 {
		return s
	}
	next := Scope{
		all:     s.all,
		byType:  make(map[string]vector.Vector, len(s.byType)+len(vars)),
		byRange: make(map[string]vector.Vector, len(s.byRange)+len(vars)),
	}
	maps.Copy(next.byType, s.byType)
	maps.Copy(next.byRange, s.byRange)

	for _, v := range vars {
		next.all = conj(next.all, v)
		if v.Type == nil {
			continue
		}
		k := v.Type.Key()
		next.byType[k] = conj(next.byType[k], v)
		r := types.RangeOf(v.Type).Key()
		next.byRange[r] = conj(next.byRange[r], v)
	}
	return next
}

func conj(vec vector.Vector, v Variable) vector.Vector {
	if vec == nil {
		vec = vector.Empty
	}
	return vec.Conj(v)
}

func variables(vec vector.Vector) []Variable {
	if vec == nil {
		return nil
	}
	out := make([]Variable, 0, vec.Len())
	for i := 0; i < vec.Len(); i++ {
		e, _ := vec.Index(i)
		out = append(out, e.(Variable))
	}
	return out
}

// All returns every visible variable, outermost first.
func (s Scope) All() []Variable { return variables(s.all) }

// ByType returns the variables of exactly type t.
func (s Scope) ByType(t types.Type) []Variable {
	if t == nil {
		return nil
	}
	return variables(s.byType[t.Key()])
}

// ByRange returns the variables whose range is t.
func (s Scope) ByRange(t types.Type) []Variable {
	if t == nil {
		return nil
	}
	return variables(s.byRange[t.Key()])
}

func (s Scope) Len() int {
	if s.all == nil {
		return 0
	}
	return s.all.Len()
}

// Lookup finds the innermost variable called name.
func (s Scope) Lookup(name string) (Variable, bool) {
	for i := s.Len() - 1; i >= 0; i-- {
		e, _ := s.all.Index(i)
		if v := e.(Variable); v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// Types returns the type of each variable in All order.
func (s Scope) Types() []types.Type {
	vars := s.All()
	ts := make([]types.Type, len(vars))
	for i, v := range vars {
		ts[i] = v.Type
	}
	return ts
}

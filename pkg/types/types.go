package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is returned for an absent or malformed type.
var ErrInvalid = errors.New("invalid type")

// Type is either a Base (value) type or a Func type. The set of
// implementations is closed.
type Type interface {
	Key() string
	String() string
	isType()
}

// Base is an opaque value type such as "double".
type Base struct {
	Name string
}

// Func has an ordered domain and a single range.
type Func struct {
	Domain []Type
	Range  Type
}

func (Base) isType() {}
func (Func) isType() {}

func (b Base) Key() string    { return b.Name }
func (b Base) String() string { return b.Name }

func (f Func) Key() string {
	keys := make([]string, len(f.Domain))
	for i, d := range f.Domain {
		keys[i] = keyOf(d)
	}
	return "(" + strings.Join(keys, ",") + ")->" + keyOf(f.Range)
}

func (f Func) String() string { return f.Key() }

// Arity is the number of domain entries.
func (f Func) Arity() int { return len(f.Domain) }

func keyOf(t Type) string {
	if t == nil {
		return "?"
	}
	return t.Key()
}

// FuncOf builds the function type with exactly the given domain and range.
func FuncOf(domain []Type, rng Type) Func {
	d := make([]Type, len(domain))
	copy(d, domain)
	return Func{Domain: d, Range: rng}
}

// Equal reports whether a and b are both set and share a key.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Key() == b.Key()
}

// RangeOf returns the result type of t: the range of a Func, or t itself.
func RangeOf(t Type) Type {
	if f, ok := t.(Func); ok {
		return f.Range
	}
	return t
}

// Valid checks that t and every type nested in it is set.
func Valid(t Type) error {
	switch tt := t.(type) {
	case nil:
		return fmt.Errorf("%w: type is unset", ErrInvalid)
	case Base:
		if tt.Name == "" {
			return fmt.Errorf("%w: empty base type name", ErrInvalid)
		}
		return nil
	case Func:
		for i, d := range tt.Domain {
			if err := Valid(d); err != nil {
				return fmt.Errorf("domain %d of %s: %w", i, tt.Key(), err)
			}
		}
		if err := Valid(tt.Range); err != nil {
			return fmt.Errorf("range of %s: %w", tt.Key(), err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown type variant %T", ErrInvalid, t)
	}
}

// Keys returns the keys of ts in order.
func Keys(ts []Type) []string {
	keys := make([]string, len(ts))
	for i, t := range ts {
		keys[i] = keyOf(t)
	}
	return keys
}

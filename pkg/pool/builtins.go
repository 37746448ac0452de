package pool

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/wildfunctions/genetic_programs/pkg/expr"
	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// ErrOperand is returned by a builtin applied to a value of the wrong kind.
var ErrOperand = errors.New("bad operand")

var (
	unaryDouble   = types.FuncOf([]types.Type{Double}, Double)
	binaryDouble  = types.FuncOf([]types.Type{Double, Double}, Double)
	compareDouble = types.FuncOf([]types.Type{Double, Double}, Bool)
	unaryBool     = types.FuncOf([]types.Type{Bool}, Bool)
	binaryBool    = types.FuncOf([]types.Type{Bool, Bool}, Bool)
	higherDouble  = types.FuncOf([]types.Type{unaryDouble, Double}, Double)
)

type builtin struct {
	typ  types.Func
	impl func(args []any) (any, error)
}

var builtins = map[string]builtin{
	"plus":  {binaryDouble, arith2(func(a, b float64) float64 { return a + b })},
	"minus": {binaryDouble, arith2(func(a, b float64) float64 { return a - b })},
	"times": {binaryDouble, arith2(func(a, b float64) float64 { return a * b })},
	"pdiv":  {binaryDouble, arith2(protectedDiv)},
	"neg":   {unaryDouble, arith1(func(a float64) float64 { return -a })},
	"sin":   {unaryDouble, arith1(math.Sin)},
	"cos":   {unaryDouble, arith1(math.Cos)},
	"psqrt": {unaryDouble, arith1(func(a float64) float64 { return math.Sqrt(math.Abs(a)) })},

	"lt": {compareDouble, compare(func(a, b float64) bool { return a < b })},
	"gt": {compareDouble, compare(func(a, b float64) bool { return a > b })},

	"and": {binaryBool, logic2(func(a, b bool) bool { return a && b })},
	"or":  {binaryBool, logic2(func(a, b bool) bool { return a || b })},
	"not": {unaryBool, func(args []any) (any, error) {
		a, err := boolArg(args, 0)
		if err != nil {
			return nil, err
		}
		return !a, nil
	}},

	"ifelse": {types.FuncOf([]types.Type{Bool, Double, Double}, Double), func(args []any) (any, error) {
		c, err := boolArg(args, 0)
		if err != nil {
			return nil, err
		}
		if c {
			return args[1], nil
		}
		return args[2], nil
	}},

	"apply": {higherDouble, func(args []any) (any, error) {
		return expr.Apply(args[0], args[1])
	}},
	"twice": {higherDouble, func(args []any) (any, error) {
		once, err := expr.Apply(args[0], args[1])
		if err != nil {
			return nil, err
		}
		return expr.Apply(args[0], once)
	}},
}

// Builtin returns the builtin operator registered under name.
func Builtin(name string) (registry.Operator, bool) {
	b, ok := builtins[name]
	if !ok {
		return registry.Operator{}, false
	}
	return registry.Operator{Name: name, Type: b.typ, Impl: b.impl}, true
}

// BuiltinNames lists the builtin operators, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for k := range builtins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// protectedDiv returns 1 when the divisor is zero.
func protectedDiv(a, b float64) float64 {
	if b == 0 {
		return 1
	}
	return a / b
}

func floatArg(args []any, i int) (float64, error) {
	switch v := args[i].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: want double, got %T", ErrOperand, args[i])
	}
}

func boolArg(args []any, i int) (bool, error) {
	v, ok := args[i].(bool)
	if !ok {
		return false, fmt.Errorf("%w: want bool, got %T", ErrOperand, args[i])
	}
	return v, nil
}

func arith1(f func(float64) float64) func([]any) (any, error) {
	return func(args []any) (any, error) {
		a, err := floatArg(args, 0)
		if err != nil {
			return nil, err
		}
		return f(a), nil
	}
}

func arith2(f func(a, b float64) float64) func([]any) (any, error) {
	return func(args []any) (any, error) {
		a, err := floatArg(args, 0)
		if err != nil {
			return nil, err
		}
		b, err := floatArg(args, 1)
		if err != nil {
			return nil, err
		}
		return f(a, b), nil
	}
}

func compare(f func(a, b float64) bool) func([]any) (any, error) {
	return func(args []any) (any, error) {
		a, err := floatArg(args, 0)
		if err != nil {
			return nil, err
		}
		b, err := floatArg(args, 1)
		if err != nil {
			return nil, err
		}
		return f(a, b), nil
	}
}

func logic2(f func(a, b bool) bool) func([]any) (any, error) {
	return func(args []any) (any, error) {
		a, err := boolArg(args, 0)
		if err != nil {
			return nil, err
		}
		b, err := boolArg(args, 1)
		if err != nil {
			return nil, err
		}
		return f(a, b), nil
	}
}

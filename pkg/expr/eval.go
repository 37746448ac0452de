package expr

import (
	"errors"
	"fmt"
	"maps"

	"github.com/wildfunctions/genetic_programs/pkg/registry"
)

var (
	ErrUnbound   = errors.New("unbound variable")
	ErrUnknownOp = errors.New("unknown operator")
	ErrNoImpl    = errors.New("operator has no implementation")
	ErrNotFunc   = errors.New("value is not a function")
	ErrArity     = errors.New("wrong number of arguments")
)

// Closure is the runtime value of a function-typed node.
type Closure func(args []any) (any, error)

// Env binds variable names to values.
type Env map[string]any

func (e Env) with(params []*VarNode, args []any) Env {
	next := make(Env, len(e)+len(params))
	maps.Copy(next, e)
	for i, p := range params {
		next[p.Name] = args[i]
	}
	return next
}

// Operators resolves operator names to implementations.
type Operators interface {
	Lookup(name string) (registry.Operator, bool)
}

// Eval computes the value of node under env.
func Eval(node ExprNode, env Env, ops Operators) (any, error) {
	switch n := node.(type) {
	case *ConstNode:
		return n.Val, nil

	case *VarNode:
		v, ok := env[n.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnbound, n.Name)
		}
		return v, nil

	case *FuncRefNode:
		op, err := implOf(ops, n.Name)
		if err != nil {
			return nil, err
		}
		return closureOf(op), nil

	case *LambdaNode:
		params := n.Params
		body := n.Body
		return Closure(func(args []any) (any, error) {
			if len(args) != len(params) {
				return nil, fmt.Errorf("%w: closure takes %d, got %d", ErrArity, len(params), len(args))
			}
			return Eval(body, env.with(params, args), ops)
		}), nil

	case *CallNode:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			v, err := Eval(a, env, ops)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		op, err := implOf(ops, n.Op)
		if err != nil {
			return nil, err
		}
		return closureOf(op)(args)

	default:
		return nil, fmt.Errorf("cannot evaluate %T", node)
	}
}

func implOf(ops Operators, name string) (registry.Operator, error) {
	op, ok := ops.Lookup(name)
	if !ok {
		return registry.Operator{}, fmt.Errorf("%w: %s", ErrUnknownOp, name)
	}
	if op.Impl == nil {
		return registry.Operator{}, fmt.Errorf("%w: %s", ErrNoImpl, name)
	}
	return op, nil
}

func closureOf(op registry.Operator) Closure {
	return func(args []any) (any, error) {
		if len(args) != op.Arity() {
			return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, op.Name, op.Arity(), len(args))
		}
		return op.Impl(args)
	}
}

// Call evaluates the program body with args bound to its parameters.
func (p *Program) Call(ops Operators, args ...any) (any, error) {
	if len(args) != len(p.Params) {
		return nil, fmt.Errorf("%w: program takes %d, got %d", ErrArity, len(p.Params), len(args))
	}
	return Eval(p.Body, Env{}.with(p.Params, args), ops)
}

// Apply calls a function value produced by Eval.
func Apply(fn any, args ...any) (any, error) {
	c, ok := fn.(Closure)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotFunc, fn)
	}
	return c(args)
}

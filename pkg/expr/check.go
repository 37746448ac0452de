package expr

import (
	"errors"
	"fmt"

	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// ErrIllTyped is returned by Check.
var ErrIllTyped = errors.New("ill-typed expression")

// Signatures resolves operator names to their declared types.
type Signatures interface {
	Signature(name string) (types.Func, bool)
}

// Check verifies that node is tagged with want and that every descendant
// is tagged with the type its position requires, re-deriving call types
// from operator signatures. scope holds the variables visible at node.
func Check(node ExprNode, want types.Type, sigs Signatures, scope registry.Scope) error {
	got := node.TypeOf()
	if got == nil {
		return illTyped(node, "untyped node")
	}
	if !types.Equal(got, want) {
		return illTyped(node, "tagged %s, position requires %s", got.Key(), typeKey(want))
	}

	switch n := node.(type) {
	case *ConstNode:
		return nil

	case *VarNode:
		v, ok := scope.Lookup(n.Name)
		if !ok {
			return illTyped(node, "unbound variable")
		}
		if !types.Equal(v.Type, want) {
			return illTyped(node, "variable declared %s", typeKey(v.Type))
		}
		return nil

	case *FuncRefNode:
		sig, ok := sigs.Signature(n.Name)
		if !ok {
			return illTyped(node, "unknown operator")
		}
		if !types.Equal(sig, want) {
			return illTyped(node, "operator has type %s", sig.Key())
		}
		return nil

	case *CallNode:
		sig, ok := sigs.Signature(n.Op)
		if !ok {
			return illTyped(node, "unknown operator")
		}
		if len(n.Args) != sig.Arity() {
			return illTyped(node, "%d arguments for arity %d", len(n.Args), sig.Arity())
		}
		if !types.Equal(sig.Range, want) {
			return illTyped(node, "operator range %s", sig.Range.Key())
		}
		argTypes := make([]types.Type, len(n.Args))
		for i, a := range n.Args {
			if err := Check(a, sig.Domain[i], sigs, scope); err != nil {
				return err
			}
			argTypes[i] = a.TypeOf()
		}
		if n.Signature != nil && !types.Equal(n.Signature, types.FuncOf(argTypes, want)) {
			return illTyped(node, "signature annotation %s", n.Signature.Key())
		}
		return nil

	case *LambdaNode:
		ft, ok := want.(types.Func)
		if !ok {
			return illTyped(node, "closure in value position")
		}
		if len(n.Params) != ft.Arity() {
			return illTyped(node, "%d parameters for arity %d", len(n.Params), ft.Arity())
		}
		bound := make([]registry.Variable, len(n.Params))
		for i, p := range n.Params {
			if !types.Equal(p.Type, ft.Domain[i]) {
				return illTyped(p, "parameter tagged %s, domain requires %s", typeKey(p.Type), ft.Domain[i].Key())
			}
			bound[i] = registry.Variable{Name: p.Name, Type: p.Type}
		}
		return Check(n.Body, ft.Range, sigs, scope.Extend(bound...))

	default:
		return illTyped(node, "unknown node kind %T", node)
	}
}

// CheckProgram checks p.Body against the range of p.Type with p.Params
// in scope.
func CheckProgram(p *Program, sigs Signatures) error {
	ft, ok := p.Type.(types.Func)
	if !ok {
		return fmt.Errorf("%w: program has no function type", ErrIllTyped)
	}
	vars := make([]registry.Variable, len(p.Params))
	for i, v := range p.Params {
		vars[i] = registry.Variable{Name: v.Name, Type: v.Type}
	}
	return Check(p.Body, ft.Range, sigs, registry.NewScope(vars...))
}

func illTyped(node ExprNode, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrIllTyped, node.String(), fmt.Sprintf(format, args...))
}

func typeKey(t types.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.Key()
}

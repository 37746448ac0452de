package expr

import (
	"errors"
	"math"
	"testing"

	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

var (
	double = types.Base{Name: "double"}
	boolT  = types.Base{Name: "bool"}
	unary  = types.FuncOf([]types.Type{double}, double)
	binary = types.FuncOf([]types.Type{double, double}, double)
	hof    = types.FuncOf([]types.Type{unary, double}, double)
)

func testOps(t *testing.T) *registry.Operators {
	t.Helper()
	ops, err := registry.NewOperators(
		registry.Operator{Name: "plus", Type: binary, Impl: func(a []any) (any, error) {
			return a[0].(float64) + a[1].(float64), nil
		}},
		registry.Operator{Name: "neg", Type: unary, Impl: func(a []any) (any, error) {
			return -a[0].(float64), nil
		}},
		registry.Operator{Name: "apply", Type: hof, Impl: func(a []any) (any, error) {
			return Apply(a[0], a[1])
		}},
		registry.Operator{Name: "opaque", Type: unary},
	)
	if err != nil {
		t.Fatal(err)
	}
	return ops
}

func num(v float64) *ConstNode { return &ConstNode{Name: "c", Val: v, Type: double} }

func assertEval(t *testing.T, node ExprNode, env Env, ops Operators, expected float64) {
	t.Helper()
	v, err := Eval(node, env, ops)
	if err != nil {
		t.Fatalf("Eval(%s): %v", node, err)
	}
	got, ok := v.(float64)
	if !ok {
		t.Fatalf("Eval(%s) = %T, want float64", node, v)
	}
	if math.Abs(got-expected) > 1e-12 {
		t.Errorf("Eval(%s) = %v, want %v", node, got, expected)
	}
}

func TestConstNode(t *testing.T) {
	c := num(1)
	if c.String() != "1.0" {
		t.Errorf("ConstNode.String() = %q, want \"1.0\"", c.String())
	}
	if s := (&ConstNode{Val: 2.5}).String(); s != "2.5" {
		t.Errorf("String() = %q", s)
	}
	if s := (&ConstNode{Val: true}).String(); s != "true" {
		t.Errorf("String() = %q", s)
	}
	if c.NodeCount() != 1 || c.Depth() != 1 {
		t.Error("a constant is a single leaf")
	}
}

func TestCallString(t *testing.T) {
	tree := &CallNode{Op: "plus", Args: []ExprNode{num(1), num(1)}, Type: double}
	if tree.String() != "plus(1.0, 1.0)" {
		t.Errorf("String() = %q", tree.String())
	}
	if got := Annotated(tree); got != "plus(1.0:double, 1.0:double):double" {
		t.Errorf("Annotated() = %q", got)
	}

	lam := &LambdaNode{
		Params: []*VarNode{{Name: "arg1", Type: double}},
		Body:   &CallNode{Op: "neg", Args: []ExprNode{&VarNode{Name: "arg1", Type: double}}, Type: double},
		Type:   unary,
	}
	if lam.String() != "(arg1) -> neg(arg1)" {
		t.Errorf("String() = %q", lam.String())
	}
	if lam.LaTeX() == "" {
		t.Error("empty LaTeX")
	}
}

func TestComplexity(t *testing.T) {
	tree := &CallNode{
		Op: "apply",
		Args: []ExprNode{
			&LambdaNode{
				Params: []*VarNode{{Name: "arg1", Type: double}},
				Body:   &CallNode{Op: "plus", Args: []ExprNode{&VarNode{Name: "arg1"}, num(2)}},
			},
			&VarNode{Name: "x"},
		},
	}
	if tree.NodeCount() != 6 {
		t.Errorf("NodeCount() = %d, want 6", tree.NodeCount())
	}
	if tree.Depth() != 4 {
		t.Errorf("Depth() = %d, want 4", tree.Depth())
	}
	if WeightedComplexity(tree) <= float64(tree.NodeCount()) {
		t.Errorf("closures and calls should weigh more than leaves: %v", WeightedComplexity(tree))
	}

	maxDepth := 0
	visited := 0
	Walk(tree, func(n ExprNode, depth int) bool {
		visited++
		if depth > maxDepth {
			maxDepth = depth
		}
		return true
	})
	if visited != tree.NodeCount() || maxDepth != tree.Depth() {
		t.Errorf("Walk visited %d nodes to depth %d", visited, maxDepth)
	}
}

func TestClone(t *testing.T) {
	original := &CallNode{
		Op: "plus",
		Args: []ExprNode{
			&VarNode{Name: "x", Type: double},
			&CallNode{Op: "neg", Args: []ExprNode{num(3)}, Type: double},
		},
		Type: double,
	}

	cloned := original.Clone()
	if cloned.String() != original.String() {
		t.Errorf("Clone mismatch: %q vs %q", cloned.String(), original.String())
	}

	// Modify clone, original should be unchanged
	cloned.(*CallNode).Args[1].(*CallNode).Args[0] = num(99)
	if original.String() == cloned.String() {
		t.Error("Clone is not a deep copy")
	}
}

func TestEvalCallsAndClosures(t *testing.T) {
	ops := testOps(t)

	sum := &CallNode{Op: "plus", Args: []ExprNode{num(1), num(1)}, Type: double}
	assertEval(t, sum, Env{}, ops, 2)

	// apply((arg1) -> plus(arg1, x), 3) with x = 10
	tree := &CallNode{
		Op: "apply",
		Args: []ExprNode{
			&LambdaNode{
				Params: []*VarNode{{Name: "arg1", Type: double}},
				Body: &CallNode{Op: "plus", Args: []ExprNode{
					&VarNode{Name: "arg1", Type: double},
					&VarNode{Name: "x", Type: double},
				}, Type: double},
				Type: unary,
			},
			num(3),
		},
		Type: double,
	}
	assertEval(t, tree, Env{"x": 10.0}, ops, 13)

	// apply(neg, 4)
	ref := &CallNode{Op: "apply", Args: []ExprNode{&FuncRefNode{Name: "neg", Type: unary}, num(4)}, Type: double}
	assertEval(t, ref, Env{}, ops, -4)
}

func TestEvalErrors(t *testing.T) {
	ops := testOps(t)
	cases := []struct {
		node ExprNode
		want error
	}{
		{&VarNode{Name: "y"}, ErrUnbound},
		{&CallNode{Op: "nope"}, ErrUnknownOp},
		{&CallNode{Op: "opaque", Args: []ExprNode{num(1)}}, ErrNoImpl},
		{&CallNode{Op: "neg"}, ErrArity},
		{&CallNode{Op: "x", Args: []ExprNode{num(1)}}, ErrUnknownOp},
	}
	for _, c := range cases {
		if _, err := Eval(c.node, Env{"x": 1.0}, ops); !errors.Is(err, c.want) {
			t.Errorf("Eval(%s): got %v, want %v", c.node, err, c.want)
		}
	}
	if _, err := Apply(1.0, 2.0); !errors.Is(err, ErrNotFunc) {
		t.Errorf("Apply(1.0): got %v, want %v", err, ErrNotFunc)
	}
}

func TestEvalCallIgnoresBindings(t *testing.T) {
	ops := testOps(t)
	sum := &CallNode{Op: "plus", Args: []ExprNode{num(2), &VarNode{Name: "plus", Type: double}}, Type: double}

	// A variable named like an operator is a value, never the callee.
	assertEval(t, sum, Env{"plus": 5.0}, ops, 7)

	neg := Closure(func(args []any) (any, error) { return -args[0].(float64), nil })
	assertEval(t, &CallNode{Op: "plus", Args: []ExprNode{num(1), num(1)}}, Env{"plus": neg}, ops, 2)
}

func TestProgramCall(t *testing.T) {
	ops := testOps(t)
	p := &Program{
		Params: []*VarNode{{Name: "x", Type: double}, {Name: "y", Type: double}},
		Body: &CallNode{Op: "plus", Args: []ExprNode{
			&VarNode{Name: "x", Type: double},
			&VarNode{Name: "y", Type: double},
		}, Type: double},
		Type: binary,
	}
	v, err := p.Call(ops, 2.0, 5.0)
	if err != nil || v.(float64) != 7 {
		t.Errorf("Call = %v, %v; want 7", v, err)
	}
	if _, err := p.Call(ops, 2.0); !errors.Is(err, ErrArity) {
		t.Errorf("expected ErrArity, got %v", err)
	}
	if p.String() != "fn(x, y) = plus(x, y)" {
		t.Errorf("String() = %q", p.String())
	}
	if err := CheckProgram(p, ops); err != nil {
		t.Errorf("CheckProgram: %v", err)
	}

	c := p.Clone()
	c.Params[0].Name = "z"
	if p.Params[0].Name != "x" {
		t.Error("Program.Clone shares parameters")
	}
}

func TestCheck(t *testing.T) {
	ops := testOps(t)
	scope := registry.NewScope(registry.Variable{Name: "x", Type: double})

	good := &CallNode{
		Op: "apply",
		Args: []ExprNode{
			&LambdaNode{
				Params: []*VarNode{{Name: "arg1", Type: double}},
				Body: &CallNode{Op: "plus", Args: []ExprNode{
					&VarNode{Name: "arg1", Type: double},
					&VarNode{Name: "x", Type: double},
				}, Type: double, Signature: binary},
				Type: unary,
			},
			num(3),
		},
		Type: double,
	}
	if err := Check(good, double, ops, scope); err != nil {
		t.Errorf("Check(good): %v", err)
	}

	bad := []struct {
		name string
		node ExprNode
	}{
		{"untyped", &VarNode{Name: "x"}},
		{"wrong tag", &ConstNode{Val: true, Type: boolT}},
		{"unbound", &VarNode{Name: "arg9", Type: double}},
		{"wrong arity", &CallNode{Op: "plus", Args: []ExprNode{num(1)}, Type: double}},
		{"bad child", &CallNode{Op: "neg", Args: []ExprNode{&ConstNode{Val: true, Type: boolT}}, Type: double}},
		{"bad signature", &CallNode{Op: "neg", Args: []ExprNode{num(1)}, Type: double, Signature: binary}},
		{"lambda as value", &LambdaNode{Body: num(1), Type: double}},
		{"bound variable escapes", &CallNode{Op: "plus", Args: []ExprNode{
			&CallNode{Op: "apply", Args: []ExprNode{&FuncRefNode{Name: "neg", Type: unary}, num(1)}, Type: double},
			&VarNode{Name: "arg1", Type: double},
		}, Type: double}},
	}
	for _, c := range bad {
		if err := Check(c.node, double, ops, scope); !errors.Is(err, ErrIllTyped) {
			t.Errorf("%s: expected ErrIllTyped, got %v", c.name, err)
		}
	}

	if err := Check(&FuncRefNode{Name: "plus", Type: unary}, unary, ops, scope); !errors.Is(err, ErrIllTyped) {
		t.Errorf("mistyped function reference: got %v", err)
	}
}

package expr

import "github.com/wildfunctions/genetic_programs/pkg/types"

// ExprNode is the interface for all expression tree nodes.
type ExprNode interface {
	String() string
	LaTeX() string
	Clone() ExprNode
	NodeCount() int
	Depth() int
	// TypeOf returns the type the node was generated to satisfy, or nil
	// for untyped trees.
	TypeOf() types.Type
}

// ConstNode is a literal produced by invoking a constant factory.
type ConstNode struct {
	Name string // producing factory
	Val  any
	Type types.Type
}

// VarNode references an input variable or a bound closure parameter.
type VarNode struct {
	Name string
	Type types.Type
}

// CallNode applies an operator to its children.
type CallNode struct {
	Op   string
	Args []ExprNode
	Type types.Type
	// Signature is the function type (child types -> Type) recorded by
	// the typed grower; nil elsewhere.
	Signature types.Type
}

// FuncRefNode uses an existing named operator as a function value.
type FuncRefNode struct {
	Name string
	Type types.Type
}

// LambdaNode is a synthesized closure.
type LambdaNode struct {
	Params []*VarNode
	Body   ExprNode
	Type   types.Type
}

func (c *ConstNode) TypeOf() types.Type   { return c.Type }
func (v *VarNode) TypeOf() types.Type     { return v.Type }
func (c *CallNode) TypeOf() types.Type    { return c.Type }
func (f *FuncRefNode) TypeOf() types.Type { return f.Type }
func (l *LambdaNode) TypeOf() types.Type  { return l.Type }

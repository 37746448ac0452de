package expr

func (c *ConstNode) NodeCount() int   { return 1 }
func (v *VarNode) NodeCount() int     { return 1 }
func (f *FuncRefNode) NodeCount() int { return 1 }
func (c *CallNode) NodeCount() int {
	n := 1
	for _, a := range c.Args {
		n += a.NodeCount()
	}
	return n
}
func (l *LambdaNode) NodeCount() int { return 1 + l.Body.NodeCount() }

func (c *ConstNode) Depth() int   { return 1 }
func (v *VarNode) Depth() int     { return 1 }
func (f *FuncRefNode) Depth() int { return 1 }
func (c *CallNode) Depth() int {
	d := 0
	for _, a := range c.Args {
		if ad := a.Depth(); ad > d {
			d = ad
		}
	}
	return 1 + d
}
func (l *LambdaNode) Depth() int { return 1 + l.Body.Depth() }

// WeightedComplexity returns a complexity score with heavier weight for
// wide calls and synthesized closures.
func WeightedComplexity(node ExprNode) float64 {
	switch n := node.(type) {
	case *ConstNode, *VarNode:
		return 1.0
	case *FuncRefNode:
		return 1.5
	case *CallNode:
		w := callWeight(len(n.Args))
		for _, a := range n.Args {
			w += WeightedComplexity(a)
		}
		return w
	case *LambdaNode:
		return 2.0 + 0.5*float64(len(n.Params)) + WeightedComplexity(n.Body)
	default:
		return 1.0
	}
}

func callWeight(arity int) float64 {
	switch {
	case arity <= 1:
		return 1.0
	case arity == 2:
		return 1.5
	default:
		return 2.0
	}
}

// Walk visits node and its descendants in pre-order with their depth
// (root = 1). Returning false from fn skips the node's children.
func Walk(node ExprNode, fn func(n ExprNode, depth int) bool) {
	walk(node, 1, fn)
}

func walk(node ExprNode, depth int, fn func(ExprNode, int) bool) {
	if !fn(node, depth) {
		return
	}
	switch n := node.(type) {
	case *CallNode:
		for _, a := range n.Args {
			walk(a, depth+1, fn)
		}
	case *LambdaNode:
		walk(n.Body, depth+1, fn)
	}
}

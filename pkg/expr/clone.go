package expr

// Types are immutable values and are shared between clones. Constant
// values are copied shallowly.

func (c *ConstNode) Clone() ExprNode {
	return &ConstNode{Name: c.Name, Val: c.Val, Type: c.Type}
}

func (v *VarNode) Clone() ExprNode {
	return &VarNode{Name: v.Name, Type: v.Type}
}

func (c *CallNode) Clone() ExprNode {
	args := make([]ExprNode, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Clone()
	}
	return &CallNode{
		Op:        c.Op,
		Args:      args,
		Type:      c.Type,
		Signature: c.Signature,
	}
}

func (f *FuncRefNode) Clone() ExprNode {
	return &FuncRefNode{Name: f.Name, Type: f.Type}
}

func (l *LambdaNode) Clone() ExprNode {
	return &LambdaNode{
		Params: cloneParams(l.Params),
		Body:   l.Body.Clone(),
		Type:   l.Type,
	}
}

func cloneParams(params []*VarNode) []*VarNode {
	out := make([]*VarNode, len(params))
	for i, p := range params {
		out[i] = p.Clone().(*VarNode)
	}
	return out
}

package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// String methods

func (c *ConstNode) String() string {
	return formatValue(c.Val)
}

func (v *VarNode) String() string {
	return v.Name
}

func (c *CallNode) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Op, strings.Join(args, ", "))
}

func (f *FuncRefNode) String() string {
	return f.Name
}

func (l *LambdaNode) String() string {
	return fmt.Sprintf("(%s) -> %s", paramList(l.Params), l.Body.String())
}

func paramList(params []*VarNode) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// formatValue prints floats so that whole numbers keep a decimal point.
func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	case string:
		return strconv.Quote(x)
	case nil:
		return "nil"
	default:
		return fmt.Sprint(x)
	}
}

// Annotated prints node with a ":type" suffix on every typed node.
func Annotated(node ExprNode) string {
	var s string
	switch n := node.(type) {
	case *CallNode:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = Annotated(a)
		}
		s = fmt.Sprintf("%s(%s)", n.Op, strings.Join(args, ", "))
	case *LambdaNode:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = Annotated(p)
		}
		s = fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), Annotated(n.Body))
	default:
		s = node.String()
	}
	if t := node.TypeOf(); t != nil {
		return s + ":" + t.Key()
	}
	return s
}

// LaTeX methods

func (c *ConstNode) LaTeX() string {
	return latexIdent(formatValue(c.Val))
}

func (v *VarNode) LaTeX() string {
	return latexIdent(v.Name)
}

func (c *CallNode) LaTeX() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.LaTeX()
	}
	return fmt.Sprintf("\\mathrm{%s}\\left(%s\\right)", latexIdent(c.Op), strings.Join(args, ", "))
}

func (f *FuncRefNode) LaTeX() string {
	return fmt.Sprintf("\\mathrm{%s}", latexIdent(f.Name))
}

func (l *LambdaNode) LaTeX() string {
	params := make([]string, len(l.Params))
	for i, p := range l.Params {
		params[i] = p.LaTeX()
	}
	return fmt.Sprintf("\\lambda %s.\\, %s", strings.Join(params, "\\, "), l.Body.LaTeX())
}

// latexIdent escapes underscores for LaTeX math mode.
func latexIdent(s string) string {
	return strings.ReplaceAll(s, "_", `\_`)
}

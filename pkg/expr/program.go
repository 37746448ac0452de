package expr

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// Program is one generated individual: formal parameters and a body.
type Program struct {
	ID     uuid.UUID
	Params []*VarNode
	Body   ExprNode
	Type   types.Type // (param types) -> body type; nil when untyped
}

// Clone returns a deep copy of the program under the same ID.
func (p *Program) Clone() *Program {
	return &Program{
		ID:     p.ID,
		Params: cloneParams(p.Params),
		Body:   p.Body.Clone(),
		Type:   p.Type,
	}
}

// String returns a human-readable representation.
func (p *Program) String() string {
	return fmt.Sprintf("fn(%s) = %s", paramList(p.Params), p.Body.String())
}

// LaTeX returns a LaTeX representation.
func (p *Program) LaTeX() string {
	params := make([]string, len(p.Params))
	for i, v := range p.Params {
		params[i] = v.LaTeX()
	}
	return fmt.Sprintf("f(%s) = %s", strings.Join(params, ", "), p.Body.LaTeX())
}

func (p *Program) Depth() int     { return p.Body.Depth() }
func (p *Program) NodeCount() int { return p.Body.NodeCount() }

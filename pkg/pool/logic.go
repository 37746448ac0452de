package pool

import "github.com/wildfunctions/genetic_programs/pkg/registry"

func init() {
	Register("logic", Logic)
}

// Logic mixes doubles and booleans: comparisons produce booleans and
// ifelse brings them back to doubles.
func Logic() (*Pool, error) {
	return build("logic",
		[]string{"plus", "minus", "times", "lt", "gt", "and", "or", "not", "ifelse"},
		[]registry.Constant{
			constant("one", Double, Fixed(1.0)),
			constant("erc", Double, Uniform(-1, 1)),
			constant("bit", Bool, Choice(true, false)),
		},
		[]registry.Variable{input("x", Double), input("y", Double)},
		map[string]any{"x": 0.5, "y": -1.5},
	)
}

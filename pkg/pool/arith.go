package pool

import "github.com/wildfunctions/genetic_programs/pkg/registry"

func init() {
	Register("arith", Arith)
}

// Arith is a single-input symbolic regression palette over doubles:
// protected arithmetic, trig, small integers and an ephemeral constant.
func Arith() (*Pool, error) {
	return build("arith",
		[]string{"plus", "minus", "times", "pdiv", "neg", "sin", "cos", "psqrt"},
		[]registry.Constant{
			constant("int", Double, IntRange(1, 10, true)),
			constant("erc", Double, Uniform(-1, 1)),
		},
		[]registry.Variable{input("x", Double)},
		map[string]any{"x": 2.0},
	)
}

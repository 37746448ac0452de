package pool

import "github.com/wildfunctions/genetic_programs/pkg/registry"

func init() {
	Register("higherorder", HigherOrder)
}

// HigherOrder adds operators taking a (double)->double argument, so typed
// generation has to reference unary operators or synthesize closures.
func HigherOrder() (*Pool, error) {
	return build("higherorder",
		[]string{"plus", "times", "neg", "sin", "cos", "apply", "twice"},
		[]registry.Constant{
			constant("one", Double, Fixed(1.0)),
			constant("erc", Double, Uniform(-1, 1)),
		},
		[]registry.Variable{input("x", Double)},
		map[string]any{"x": 3.0},
	)
}

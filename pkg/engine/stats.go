package engine

import (
	"cmp"

	"github.com/hashicorp/go-set/v3"

	"github.com/wildfunctions/genetic_programs/pkg/expr"
)

// Stats summarizes the shape of a population.
type Stats struct {
	Individuals    int         `json:"individuals"`
	Unique         int         `json:"unique"`
	DepthHistogram map[int]int `json:"depth_histogram"`
	MinDepth       int         `json:"min_depth"`
	MaxDepth       int         `json:"max_depth"`
	MeanDepth      float64     `json:"mean_depth"`
	TotalNodes     int         `json:"total_nodes"`
	MeanNodes      float64     `json:"mean_nodes"`
	MeanComplexity float64     `json:"mean_complexity"`
	Calls          int         `json:"calls"`
	Constants      int         `json:"constants"`
	Variables      int         `json:"variables"`
	FuncRefs       int         `json:"func_refs"`
	Closures       int         `json:"closures"`
	Operators      []string    `json:"operators"`
}

// Summarize walks every individual once.
func Summarize(pop []*expr.Program) Stats {
	s := Stats{Individuals: len(pop), DepthHistogram: map[int]int{}}
	if len(pop) == 0 {
		return s
	}

	unique := set.New[string](len(pop))
	ops := set.NewTreeSet[string](cmp.Compare[string])
	var depthSum, complexity float64
	s.MinDepth = pop[0].Depth()
	for _, p := range pop {
		d := p.Depth()
		s.DepthHistogram[d]++
		s.MinDepth = min(s.MinDepth, d)
		s.MaxDepth = max(s.MaxDepth, d)
		depthSum += float64(d)
		s.TotalNodes += p.NodeCount()
		complexity += expr.WeightedComplexity(p.Body)
		unique.Insert(p.Body.String())

		expr.Walk(p.Body, func(n expr.ExprNode, _ int) bool {
			switch n := n.(type) {
			case *expr.CallNode:
				s.Calls++
				ops.Insert(n.Op)
			case *expr.ConstNode:
				s.Constants++
			case *expr.VarNode:
				s.Variables++
			case *expr.FuncRefNode:
				s.FuncRefs++
				ops.Insert(n.Name)
			case *expr.LambdaNode:
				s.Closures++
			}
			return true
		})
	}

	total := float64(len(pop))
	s.Unique = unique.Size()
	s.MeanDepth = depthSum / total
	s.MeanNodes = float64(s.TotalNodes) / total
	s.MeanComplexity = complexity / total
	s.Operators = ops.Slice()
	return s
}

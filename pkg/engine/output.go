package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"

	"github.com/wildfunctions/genetic_programs/pkg/expr"
)

// IndividualReport describes one generated program.
type IndividualReport struct {
	ID         string  `json:"id"`
	Expr       string  `json:"expr"`
	LaTeX      string  `json:"latex"`
	Type       string  `json:"type,omitempty"`
	Depth      int     `json:"depth"`
	Nodes      int     `json:"nodes"`
	Complexity float64 `json:"complexity"`
	Value      string  `json:"value,omitempty"`
	EvalError  string  `json:"eval_error,omitempty"`
}

// FinalReport summarizes the entire run.
type FinalReport struct {
	Config      Config             `json:"config"`
	Seed        int64              `json:"seed"`
	Type        string             `json:"type"`
	Stats       Stats              `json:"stats"`
	Individuals []IndividualReport `json:"individuals"`
	Elapsed     time.Duration      `json:"elapsed_ns"`
	Timestamp   time.Time          `json:"timestamp"`

	Population []*expr.Program `json:"-"`
}

// WriteIndividual writes one line per program.
func WriteIndividual(w io.Writer, i int, r IndividualReport) {
	fmt.Fprintf(w, "  #%d: %s  [depth %d, %d nodes, complexity %.1f]", i, r.Expr, r.Depth, r.Nodes, r.Complexity)
	switch {
	case r.EvalError != "":
		fmt.Fprintf(w, " ! %s", r.EvalError)
	case r.Value != "":
		fmt.Fprintf(w, " = %s", r.Value)
	}
	fmt.Fprintln(w)
}

// WriteDepthHistogram writes one bar per depth.
func WriteDepthHistogram(w io.Writer, hist map[int]int) {
	depths := make([]int, 0, len(hist))
	peak := 0
	for d, n := range hist {
		depths = append(depths, d)
		peak = max(peak, n)
	}
	sort.Ints(depths)
	fmt.Fprintln(w, "--- Depth histogram ---")
	for _, d := range depths {
		bar := strings.Repeat("#", max(1, hist[d]*40/max(peak, 1)))
		fmt.Fprintf(w, "  %2d: %8s %s\n", d, humanize.Comma(int64(hist[d])), bar)
	}
}

// WriteTextFinal writes the final report in human-readable format.
func WriteTextFinal(w io.Writer, r FinalReport) {
	s := r.Stats
	fmt.Fprintln(w, "\n========== POPULATION ==========")
	fmt.Fprintf(w, "Pool:        %s\n", r.Config.Pool)
	fmt.Fprintf(w, "Strategy:    %s\n", r.Config.Strategy)
	fmt.Fprintf(w, "Type:        %s\n", r.Type)
	fmt.Fprintf(w, "Seed:        %d\n", r.Seed)
	fmt.Fprintf(w, "Individuals: %s (%s unique)\n", humanize.Comma(int64(s.Individuals)), humanize.Comma(int64(s.Unique)))
	fmt.Fprintf(w, "Nodes:       %s (mean %.1f)\n", humanize.Comma(int64(s.TotalNodes)), s.MeanNodes)
	fmt.Fprintf(w, "Depth:       %d-%d (mean %.2f)\n", s.MinDepth, s.MaxDepth, s.MeanDepth)
	fmt.Fprintf(w, "Complexity:  mean %.2f\n", s.MeanComplexity)
	fmt.Fprintf(w, "Leaves:      %s constants, %s variables, %s operator refs\n",
		humanize.Comma(int64(s.Constants)), humanize.Comma(int64(s.Variables)), humanize.Comma(int64(s.FuncRefs)))
	fmt.Fprintf(w, "Closures:    %s\n", humanize.Comma(int64(s.Closures)))
	fmt.Fprintf(w, "Operators:   %s\n", strings.Join(s.Operators, ", "))
	fmt.Fprintf(w, "Elapsed:     %s\n", r.Elapsed.Round(time.Microsecond))
	WriteDepthHistogram(w, s.DepthHistogram)
	if len(r.Individuals) > 0 {
		fmt.Fprintln(w, "--- Individuals ---")
		for i, ind := range r.Individuals {
			WriteIndividual(w, i+1, ind)
		}
	}
	fmt.Fprintln(w, "================================")
}

// WriteJSONFinal writes the final report as JSON.
func WriteJSONFinal(w io.Writer, r FinalReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// WriteDump writes the raw trees of the population.
func WriteDump(w io.Writer, pop []*expr.Program) {
	for i, p := range pop {
		fmt.Fprintf(w, "--- #%d %s\n", i+1, p.ID)
		dumper.Fdump(w, p.Body)
	}
}

// latexEscape escapes underscores for LaTeX text mode.
func latexEscape(s string) string {
	return strings.ReplaceAll(s, "_", `\_`)
}

// WritePopulationLatex writes a compilable LaTeX document of the reported
// individuals.
func WritePopulationLatex(w io.Writer, r FinalReport) {
	fmt.Fprintln(w, `\documentclass{article}`)
	fmt.Fprintln(w, `\usepackage{amsmath}`)
	fmt.Fprintln(w, `\usepackage{geometry}`)
	fmt.Fprintln(w, `\geometry{margin=1in}`)
	fmt.Fprintf(w, "\\title{Population --- Pool: \\texttt{%s}}\n", latexEscape(r.Config.Pool))
	fmt.Fprintln(w, `\date{\today}`)
	fmt.Fprintln(w, `\begin{document}`)
	fmt.Fprintln(w, `\maketitle`)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "\\noindent Pool: \\texttt{%s}, Strategy: \\texttt{%s}, Type: \\verb|%s|\\\\\n",
		latexEscape(r.Config.Pool), latexEscape(r.Config.Strategy), r.Type)
	fmt.Fprintf(w, "Population: %d, Max depth: %d, Seed: %d, Mean depth: %.2f\n\n",
		r.Stats.Individuals, r.Config.MaxDepth, r.Seed, r.Stats.MeanDepth)

	for i, ind := range r.Individuals {
		fmt.Fprintf(w, "\\subsection*{\\#%d --- depth %d, %d nodes}\n", i+1, ind.Depth, ind.Nodes)
		fmt.Fprintln(w, `\[`)
		fmt.Fprintf(w, "  %s\n", ind.LaTeX)
		fmt.Fprintln(w, `\]`)
		if ind.Value != "" {
			fmt.Fprintf(w, "\\noindent Sample value: \\verb|%s|\n\n", ind.Value)
		}
	}

	fmt.Fprintln(w, `\end{document}`)
}

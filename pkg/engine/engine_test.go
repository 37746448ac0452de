package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wildfunctions/genetic_programs/pkg/expr"
	"github.com/wildfunctions/genetic_programs/pkg/gen"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Population = 30
	cfg.Seed = 42
	cfg.Workers = 4
	return cfg
}

func TestEngine_SmallRun(t *testing.T) {
	cfg := smallConfig()

	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.Stats.Individuals != 30 || len(report.Population) != 30 {
		t.Fatalf("Expected 30 individuals, got %d", report.Stats.Individuals)
	}
	if len(report.Individuals) != cfg.Preview {
		t.Errorf("Expected %d previewed individuals, got %d", cfg.Preview, len(report.Individuals))
	}
	if report.Stats.MaxDepth > cfg.MaxDepth {
		t.Errorf("Depth %d exceeds max depth %d", report.Stats.MaxDepth, cfg.MaxDepth)
	}
	for _, ind := range report.Individuals {
		if ind.Value == "" || ind.EvalError != "" {
			t.Errorf("Expected %s to evaluate on the arith samples: %q", ind.Expr, ind.EvalError)
		}
		if ind.Type != "(double)->double" {
			t.Errorf("Individual typed %q", ind.Type)
		}
	}

	t.Logf("Built %d individuals, %d unique, mean depth %.2f, mean nodes %.1f",
		report.Stats.Individuals, report.Stats.Unique, report.Stats.MeanDepth, report.Stats.MeanNodes)
}

func TestEngine_DeterministicAcrossWorkers(t *testing.T) {
	run := func(workers int) []string {
		cfg := smallConfig()
		cfg.Pool = "higherorder"
		cfg.Population = 100
		cfg.Workers = workers
		cfg.Verbose = true
		e, err := New(cfg)
		if err != nil {
			t.Fatal(err)
		}
		report, err := e.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		out := make([]string, len(report.Individuals))
		for i, ind := range report.Individuals {
			out[i] = ind.Expr
		}
		return out
	}

	serial := run(1)
	parallel := run(8)
	if len(serial) != 100 || len(parallel) != 100 {
		t.Fatalf("verbose runs should report every individual")
	}
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("Individual %d differs: %s vs %s", i, serial[i], parallel[i])
		}
	}
}

func TestEngine_VerboseLogsIndividuals(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	cfg := smallConfig()
	cfg.Verbose = true
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	debug := 0
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("Bad log line %q: %v", line, err)
		}
		if rec["level"] == "DEBUG" && rec["msg"] == "individual" {
			debug++
			if _, ok := rec["expr"]; !ok {
				t.Errorf("Debug record without expr: %v", rec)
			}
		}
	}
	if debug != cfg.Population {
		t.Errorf("Expected %d debug records, got %d", cfg.Population, debug)
	}
}

func TestEngine_Untyped(t *testing.T) {
	cfg := smallConfig()
	cfg.Type = ""
	cfg.Strategy = "grow"

	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Type != "untyped" {
		t.Errorf("Type = %q", report.Type)
	}
	for _, p := range report.Population {
		if p.Type != nil {
			t.Errorf("Untyped run produced typed individual %s", p.Type)
		}
	}
}

func TestEngine_Exhausted(t *testing.T) {
	cfg := smallConfig()
	cfg.Type = "bool"

	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	report, err := e.Run(context.Background())
	if !errors.Is(err, gen.ErrTypeExhausted) {
		t.Fatalf("Expected ErrTypeExhausted, got %v", err)
	}
	if report.Population != nil {
		t.Error("Expected no partial population")
	}
}

func TestEngine_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e, err := New(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestEngine_RandomSeed(t *testing.T) {
	cfg := smallConfig()
	cfg.Seed = 0
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if e.Seed() == 0 {
		t.Error("Expected a drawn seed")
	}
}

func TestEngine_InvalidStrategy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = "nonexistent"

	_, err := New(cfg)
	if err == nil {
		t.Error("Expected error for invalid strategy")
	}
}

func TestEngine_InvalidPool(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pool = "nonexistent"

	_, err := New(cfg)
	if err == nil {
		t.Error("Expected error for invalid pool")
	}
}

func TestEngine_InvalidMaxDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 0

	if _, err := New(cfg); err == nil {
		t.Error("Expected error for max depth 0")
	}
}

func TestEngine_InvalidType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Type = "(double->"

	_, err := New(cfg)
	if !errors.Is(err, types.ErrInvalid) {
		t.Errorf("Expected types.ErrInvalid, got %v", err)
	}
}

func TestEngine_PoolFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hof.yaml")
	src := `
name: hof
operators:
  - {name: plus, type: "(double,double)->double"}
  - {name: twice, type: "((double)->double,double)->double"}
  - {name: neg, type: "(double)->double"}
constants:
  - {name: half, type: double, value: 0.5}
inputs:
  - {name: x, type: double, sample: 4}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := smallConfig()
	cfg.PoolFile = path
	cfg.Strategy = "full"
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Config.Pool != "hof" {
		t.Errorf("Pool = %q, want hof", report.Config.Pool)
	}
	for _, ind := range report.Individuals {
		if ind.Depth != cfg.MaxDepth || ind.Value == "" {
			t.Errorf("Full individual %s: depth %d, value %q", ind.Expr, ind.Depth, ind.Value)
		}
	}
}

func TestEngine_OutDir(t *testing.T) {
	cfg := smallConfig()
	cfg.OutDir = t.TempDir()
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(cfg.OutDir, "arith_ramped.tex"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `\begin{document}`) {
		t.Error("Expected a LaTeX document")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	src := "pool: logic\nmax_depth: 6\nconst_prob: 0.5\nformat: json\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.Pool != "logic" || cfg.MaxDepth != 6 || cfg.ConstProb != 0.5 || cfg.Format != "json" {
		t.Errorf("Overlay not applied: %+v", cfg)
	}
	if cfg.Strategy != def.Strategy || cfg.Population != def.Population || cfg.SubtreeProb != def.SubtreeProb {
		t.Errorf("Defaults lost: %+v", cfg)
	}

	bad := map[string]string{
		"format":     "format: xml\n",
		"population": "population: 0\n",
		"max_depth":  "max_depth: 0\n",
		"const_prob": "const_prob: 1.5\n",
		"syntax":     "pool: [\n",
	}
	for name, src := range bad {
		if _, err := ParseConfig([]byte(src), name); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestWriters(t *testing.T) {
	e, err := New(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	var text bytes.Buffer
	WriteTextFinal(&text, report)
	for _, want := range []string{"POPULATION", "Pool:        arith", "Depth histogram", report.Individuals[0].Expr} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("Text report missing %q", want)
		}
	}

	var js bytes.Buffer
	if err := WriteJSONFinal(&js, report); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["stats"]; !ok {
		t.Error("JSON report has no stats")
	}

	var dump bytes.Buffer
	WriteDump(&dump, report.Population[:2])
	if !strings.Contains(dump.String(), "expr.") {
		t.Errorf("Dump does not show node types:\n%s", dump.String())
	}
}

func TestSummarize(t *testing.T) {
	double := types.Base{Name: "double"}
	unary := types.FuncOf([]types.Type{double}, double)
	pop := []*expr.Program{
		{Body: &expr.CallNode{Op: "apply", Args: []expr.ExprNode{
			&expr.LambdaNode{Params: []*expr.VarNode{{Name: "arg1"}}, Body: &expr.VarNode{Name: "arg1"}, Type: unary},
			&expr.ConstNode{Name: "one", Val: 1.0},
		}}},
		{Body: &expr.CallNode{Op: "apply", Args: []expr.ExprNode{
			&expr.FuncRefNode{Name: "neg", Type: unary},
			&expr.VarNode{Name: "x"},
		}}},
		{Body: &expr.VarNode{Name: "x"}},
	}
	s := Summarize(pop)
	if s.Individuals != 3 || s.Unique != 3 {
		t.Errorf("Individuals/unique = %d/%d", s.Individuals, s.Unique)
	}
	if s.DepthHistogram[3] != 1 || s.DepthHistogram[2] != 1 || s.DepthHistogram[1] != 1 {
		t.Errorf("Histogram = %v", s.DepthHistogram)
	}
	if s.Closures != 1 || s.FuncRefs != 1 || s.Calls != 2 || s.Constants != 1 || s.Variables != 3 {
		t.Errorf("Counts = %+v", s)
	}
	if strings.Join(s.Operators, ",") != "apply,neg" {
		t.Errorf("Operators = %v", s.Operators)
	}
	if s.MinDepth != 1 || s.MaxDepth != 3 {
		t.Errorf("Depth range %d-%d", s.MinDepth, s.MaxDepth)
	}
}

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wildfunctions/genetic_programs/pkg/expr"
	"github.com/wildfunctions/genetic_programs/pkg/pool"
	"github.com/wildfunctions/genetic_programs/pkg/strategy"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

// Engine builds initial populations.
type Engine struct {
	cfg      Config
	pool     *pool.Pool
	strategy strategy.Strategy
	typ      types.Type
	seed     int64
	rng      *rand.Rand
	log      *slog.Logger
}

// New creates a new engine from the given config.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var p *pool.Pool
	var err error
	if cfg.PoolFile != "" {
		p, err = pool.LoadFile(cfg.PoolFile)
	} else {
		p, err = pool.Get(cfg.Pool)
	}
	if err != nil {
		return nil, err
	}
	cfg.Pool = p.Name

	s, err := strategy.Get(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	var typ types.Type
	if cfg.Type != "" {
		if typ, err = types.Parse(cfg.Type); err != nil {
			return nil, fmt.Errorf("type %q: %w", cfg.Type, err)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	return &Engine{
		cfg:      cfg,
		pool:     p,
		strategy: s,
		typ:      typ,
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
		log:      slog.Default().With(slog.String("component", "engine")),
	}, nil
}

// Seed returns the master seed, drawn at random when the config left it 0.
func (e *Engine) Seed() int64 { return e.seed }

// Run builds the population and returns the final report. The first
// generation error aborts the whole batch.
func (e *Engine) Run(ctx context.Context) (FinalReport, error) {
	ctx, span := otel.Tracer("engine").Start(ctx, "engine.Run",
		trace.WithAttributes(
			attribute.String("pool", e.pool.Name),
			attribute.String("strategy", e.strategy.Name()),
			attribute.String("type", typeName(e.typ)),
			attribute.Int("population", e.cfg.Population),
			attribute.Int64("seed", e.seed),
		),
	)
	defer span.End()

	start := time.Now()
	e.log.Info("building population",
		slog.String("pool", e.pool.Name),
		slog.String("strategy", e.strategy.Name()),
		slog.String("type", typeName(e.typ)),
		slog.Int("population", e.cfg.Population),
		slog.Int("max_depth", e.cfg.MaxDepth),
		slog.Int("workers", e.workers()),
		slog.Int64("seed", e.seed))

	pop, err := e.build(ctx)
	if err != nil {
		e.log.Error("generation failed", slog.String("error", err.Error()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return FinalReport{}, err
	}

	report := FinalReport{
		Config:      e.cfg,
		Seed:        e.seed,
		Type:        typeName(e.typ),
		Stats:       Summarize(pop),
		Individuals: e.describe(pop),
		Elapsed:     time.Since(start),
		Timestamp:   time.Now().UTC(),
		Population:  pop,
	}
	e.log.Info("population built",
		slog.Int("individuals", report.Stats.Individuals),
		slog.Int("unique", report.Stats.Unique),
		slog.Float64("mean_depth", report.Stats.MeanDepth),
		slog.Duration("elapsed", report.Elapsed))

	span.SetAttributes(
		attribute.Int("unique", report.Stats.Unique),
		attribute.Int("total_nodes", report.Stats.TotalNodes),
		attribute.Int("closures", report.Stats.Closures),
	)

	if e.cfg.OutDir != "" {
		e.writeLatex(ctx, report)
	}
	return report, nil
}

// build generates the individuals in parallel from per-individual seeds
// drawn from the master source in index order.
func (e *Engine) build(ctx context.Context) ([]*expr.Program, error) {
	n := e.cfg.Population
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = e.rng.Int63()
	}

	pal := e.pool.Palette
	step := int64(max(n/10, 1))
	var built atomic.Int64

	return strategy.Initialize(ctx, e.strategy, e.typ, pal, e.cfg.Params(), seeds, e.workers(),
		func(i int, p *expr.Program) error {
			if e.cfg.Verify && e.typ != nil {
				if err := expr.CheckProgram(p, pal.Operators); err != nil {
					return err
				}
			}
			e.log.Debug("individual",
				slog.Int("index", i),
				slog.String("id", p.ID.String()),
				slog.Int("depth", p.Depth()),
				slog.Int("nodes", p.NodeCount()),
				slog.String("expr", p.String()))
			if k := built.Add(1); e.cfg.Verbose && k%step == 0 {
				e.log.Info("progress", slog.Int64("built", k), slog.Int("of", n))
			}
			return nil
		})
}

func (e *Engine) workers() int {
	if e.cfg.Workers <= 0 {
		return 1
	}
	return e.cfg.Workers
}

// describe reports the first Preview individuals, or all of them when
// verbose, evaluated on the pool samples when every input has one.
func (e *Engine) describe(pop []*expr.Program) []IndividualReport {
	n := min(e.cfg.Preview, len(pop))
	if e.cfg.Verbose {
		n = len(pop)
	}
	args, canEval := e.pool.SampleArgs()

	out := make([]IndividualReport, 0, n)
	for _, p := range pop[:n] {
		r := IndividualReport{
			ID:         p.ID.String(),
			Expr:       p.String(),
			LaTeX:      p.LaTeX(),
			Depth:      p.Depth(),
			Nodes:      p.NodeCount(),
			Complexity: expr.WeightedComplexity(p.Body),
		}
		if p.Type != nil {
			r.Type = p.Type.String()
		}
		if canEval {
			v, err := p.Call(e.pool.Palette.Operators, args...)
			if err != nil {
				r.EvalError = err.Error()
			} else {
				r.Value = formatResult(v)
			}
		}
		out = append(out, r)
	}
	return out
}

func formatResult(v any) string {
	if _, ok := v.(expr.Closure); ok {
		return "<function>"
	}
	return fmt.Sprint(v)
}

func typeName(t types.Type) string {
	if t == nil {
		return "untyped"
	}
	return t.String()
}

// writeLatex writes the preview as a LaTeX document into OutDir and
// compiles it when pdflatex is available. Failures are logged, not fatal.
func (e *Engine) writeLatex(ctx context.Context, r FinalReport) {
	absOut, err := filepath.Abs(e.cfg.OutDir)
	if err != nil {
		e.log.Error("resolving output dir", slog.String("error", err.Error()))
		return
	}
	base := fmt.Sprintf("%s_%s", e.pool.Name, e.strategy.Name())
	texPath := filepath.Join(absOut, base+".tex")

	f, err := os.Create(texPath)
	if err != nil {
		e.log.Error("creating LaTeX report", slog.String("path", texPath), slog.String("error", err.Error()))
		return
	}
	WritePopulationLatex(f, r)
	if err := f.Close(); err != nil {
		e.log.Error("writing LaTeX report", slog.String("path", texPath), slog.String("error", err.Error()))
		return
	}
	e.log.Info("wrote report", slog.String("path", texPath))

	pdflatex, err := exec.LookPath("pdflatex")
	if err != nil {
		return
	}
	cmd := exec.CommandContext(ctx, pdflatex, "-interaction=nonstopmode", base+".tex")
	cmd.Dir = absOut
	if out, err := cmd.CombinedOutput(); err != nil {
		e.log.Error("pdflatex failed", slog.String("error", err.Error()), slog.String("output", string(out)))
		return
	}
	for _, ext := range []string{".aux", ".log"} {
		os.Remove(filepath.Join(absOut, base+ext))
	}
	e.log.Info("wrote report", slog.String("path", filepath.Join(absOut, base+".pdf")))
}

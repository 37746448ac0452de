package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/wildfunctions/genetic_programs/pkg/engine"
	"github.com/wildfunctions/genetic_programs/pkg/pool"
	"github.com/wildfunctions/genetic_programs/pkg/strategy"
)

func main() {
	cfg := engine.DefaultConfig()

	// -config is applied first so that explicit flags override the file.
	if path := configPath(os.Args[1:]); path != "" {
		loaded, err := engine.LoadConfig(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	var configFile string
	flag.StringVar(&configFile, "config", "", "YAML config file")
	flag.StringVar(&cfg.Pool, "pool", cfg.Pool, "palette ("+strings.Join(pool.Names(), ", ")+")")
	flag.StringVar(&cfg.PoolFile, "pool-file", cfg.PoolFile, "YAML palette file (overrides -pool)")
	flag.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "initialisation strategy ("+strings.Join(strategy.Names(), ", ")+")")
	flag.StringVar(&cfg.Type, "type", cfg.Type, `return type of the individuals, e.g. double or "((double)->double)->bool"; empty for untyped`)
	flag.IntVar(&cfg.Population, "population", cfg.Population, "population size")
	flag.IntVar(&cfg.MaxDepth, "maxdepth", cfg.MaxDepth, "max tree depth")
	flag.Float64Var(&cfg.ConstProb, "constprob", cfg.ConstProb, "probability a terminal is a constant")
	flag.Float64Var(&cfg.SubtreeProb, "subtreeprob", cfg.SubtreeProb, "probability a node below max depth is internal (grow)")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = random)")
	flag.StringVar(&cfg.Format, "format", cfg.Format, "output format (text, json)")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "report every individual and log progress")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of parallel workers")
	flag.BoolVar(&cfg.Verify, "verify", cfg.Verify, "type-check every typed individual")
	flag.IntVar(&cfg.Preview, "preview", cfg.Preview, "number of individuals to report")
	flag.BoolVar(&cfg.Dump, "dump", cfg.Dump, "dump raw trees to stderr")
	flag.StringVar(&cfg.OutDir, "outdir", cfg.OutDir, "output directory for the LaTeX report")
	flag.Parse()

	slog.SetDefault(newLogger(cfg.Verbose))

	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "error creating output dir: %v\n", err)
			os.Exit(1)
		}
	}

	e, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := e.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Dump {
		engine.WriteDump(os.Stderr, report.Population)
	}

	switch cfg.Format {
	case "json":
		if err := engine.WriteJSONFinal(os.Stdout, report); err != nil {
			fmt.Fprintf(os.Stderr, "error writing JSON: %v\n", err)
			os.Exit(1)
		}
	default:
		engine.WriteTextFinal(os.Stdout, report)
	}
}

// configPath finds -config before the flag set is built, so the file can
// supply the defaults the other flags start from.
func configPath(args []string) string {
	for i, a := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if name != "config" || !strings.HasPrefix(a, "-") {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// newLogger logs text to an interactive stderr and JSON otherwise.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	fd := os.Stderr.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

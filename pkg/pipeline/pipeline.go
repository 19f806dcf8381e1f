// Package pipeline implements the single analyse(project-root, config) ->
// AnalysisResult operation of spec.md §6, orchestrating the Source
// Walker, Language Front-Ends, Model Builder, Relationship Detector, and
// Flow Analyzer across the five hard phase boundaries spec §5 requires:
// Walk -> Parse -> Build -> Detect -> Analyze.
//
// Grounded on the fan-out/error-tolerant-collect shape of
// internal/pipeline.Pipeline.Run in the retrieval pack (errgroup.Group +
// sync.Mutex guarding a shared result slice, non-fatal errors logged
// rather than aborting), adapted to bound concurrency with
// golang.org/x/sync/semaphore the same way the JS/TS helper pool does,
// since file parsing -- unlike that pipeline's per-analyzer fan-out -- can
// run in the hundreds and needs an admission cap rather than one
// goroutine per task.
package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/viant/codegraph/pkg/builder"
	"github.com/viant/codegraph/pkg/diag"
	"github.com/viant/codegraph/pkg/flow"
	"github.com/viant/codegraph/pkg/frontend"
	"github.com/viant/codegraph/pkg/frontend/jsts"
	"github.com/viant/codegraph/pkg/frontend/php"
	"github.com/viant/codegraph/pkg/frontend/python"
	"github.com/viant/codegraph/pkg/model"
	"github.com/viant/codegraph/pkg/relate"
	"github.com/viant/codegraph/pkg/walker"
)

// LanguageConfig toggles and configures one front-end (spec §6
// "languages.<lang>.*").
type LanguageConfig struct {
	Enabled    bool
	Extensions []string
}

// Config is the spec §6 configuration surface.
type Config struct {
	ExcludeDirs  []string
	ExcludeFiles []string

	Python LanguageConfig
	PHP    LanguageConfig
	JSTS   LanguageConfig

	DetectDocstrings bool
	DetectTypes      bool

	FlowMaxDepth   int
	FlowEntryPoint []string // optional explicit Routine IDs

	// ParseConcurrency bounds how many files are parsed at once during the
	// Parse phase (spec §5 "bounded concurrency"). <= 0 defaults to 4.
	ParseConcurrency int
}

// DefaultConfig returns the spec §6 defaults with every language enabled
// under its conventional extensions.
func DefaultConfig() Config {
	return Config{
		ExcludeDirs:  []string{".git", "node_modules", "vendor", "__pycache__", ".venv"},
		Python:       LanguageConfig{Enabled: true, Extensions: []string{".py"}},
		PHP:          LanguageConfig{Enabled: true, Extensions: []string{".php"}},
		JSTS:         LanguageConfig{Enabled: true, Extensions: []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"}},
		DetectDocstrings: true,
		DetectTypes:      true,
		FlowMaxDepth:     flow.DefaultMaxDepth,
		ParseConcurrency: 4,
	}
}

// Validate applies spec §7's ConfigurationError rule: invalid
// configuration is detected before any file is opened.
func (c Config) Validate() error {
	if c.FlowMaxDepth < 0 {
		return fmt.Errorf("flow.max_depth must be >= 0, got %d", c.FlowMaxDepth)
	}
	if !c.Python.Enabled && !c.PHP.Enabled && !c.JSTS.Enabled {
		return fmt.Errorf("at least one language must be enabled")
	}
	return nil
}

// AnalysisResult is the spec §6 product of one analyse call.
type AnalysisResult struct {
	// RunID correlates one Analyse invocation across logs and persisted
	// output; it has no bearing on entity identifiers, which stay
	// deterministic per spec §8.1 regardless of RunID.
	RunID       string
	Model       *model.SemanticModel
	Diagnostics []diag.Diagnostic
	Summary     model.Summary
}

// Analyse runs the full Walk -> Parse -> Build -> Detect -> Analyze
// pipeline over root under cfg.
func Analyse(ctx context.Context, root string, cfg Config) (*AnalysisResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, diag.NewFatal(diag.ConfigurationError, "invalid configuration", err)
	}

	collector := &diag.Collector{}

	registry, pool := buildRegistry(cfg)
	defer shutdownPool(pool)

	w := walker.New(cfg.ExcludeDirs, cfg.ExcludeFiles, languageConfigs(cfg))
	tasks, assets, walkDiags, err := w.Walk(ctx, root)
	for _, d := range walkDiags {
		collector.Add(d)
	}
	if err != nil {
		return nil, diag.NewFatal(diag.WalkFailure, "walk failed", err)
	}

	modules, parseDiags, err := parseAll(ctx, w, registry, tasks, cfg.ParseConcurrency)
	for _, d := range parseDiags {
		collector.Add(d)
	}
	incomplete := false
	if err != nil {
		if ctx.Err() != nil {
			incomplete = true
		} else {
			return nil, err
		}
	}

	// Determinism (spec §5): re-sort by stable path order before the
	// Builder consumes output that may have been produced out of order by
	// concurrent parsing.
	sort.Slice(modules, func(i, j int) bool { return modules[i].Path < modules[j].Path })

	b := builder.New(collector)
	sm := b.Build(modules, assets)
	sm.Incomplete = incomplete

	if !incomplete {
		relate.Detect(sm)
		flow.Analyze(sm, flow.Config{MaxDepth: cfg.FlowMaxDepth, EntryPoints: cfg.FlowEntryPoint})
	}

	return &AnalysisResult{
		RunID:       uuid.NewString(),
		Model:       sm,
		Diagnostics: collector.Items(),
		Summary:     sm.BuildSummary(),
	}, nil
}

func languageConfigs(cfg Config) []walker.LanguageConfig {
	return []walker.LanguageConfig{
		{Language: model.LangPython, Enabled: cfg.Python.Enabled, Extensions: cfg.Python.Extensions},
		{Language: model.LangPHP, Enabled: cfg.PHP.Enabled, Extensions: cfg.PHP.Extensions},
		{Language: model.LangJSTS, Enabled: cfg.JSTS.Enabled, Extensions: cfg.JSTS.Extensions},
	}
}

// buildRegistry wires up the three Language Front-Ends. The JS/TS helper
// pool is built here, scoped to the lifetime of one Analyse call (spec §5
// "acquire at the start of the phase, release on every exit path").
func buildRegistry(cfg Config) (*frontend.Registry, *jsts.Pool) {
	registry := frontend.NewRegistry()

	if cfg.Python.Enabled {
		registry.Register(python.NewInspector(), cfg.Python.Extensions)
	}
	if cfg.PHP.Enabled {
		registry.Register(php.NewInspector(), cfg.PHP.Extensions)
	}

	var pool *jsts.Pool
	if cfg.JSTS.Enabled {
		p, err := jsts.NewPool(cfg.ParseConcurrency)
		if err != nil {
			// spec §7 HelperUnavailable: degraded, not fatal. The
			// Inspector is still registered with a nil pool so Parse
			// reports the diagnostic itself for every JS/TS file.
			pool = nil
		} else {
			pool = p
		}
		registry.Register(jsts.NewInspector(pool), cfg.JSTS.Extensions)
	}

	return registry, pool
}

func shutdownPool(pool *jsts.Pool) {
	// Pool holds no OS resources beyond the in-process grammars it loaded
	// eagerly at construction; nothing to release explicitly, but the
	// call site marks where a real out-of-process helper's teardown
	// would go (spec §5 "shut down once the Parse phase completes").
	_ = pool
}

// parseAll runs the Parse phase with bounded concurrency (spec §5
// "External helpers... serialised or pooled with bounded concurrency",
// generalised here to every file, not just JS/TS).
func parseAll(ctx context.Context, w *walker.Walker, registry *frontend.Registry, tasks []walker.FileTask, concurrency int) ([]*model.Module, []diag.Diagnostic, error) {
	if concurrency <= 0 {
		concurrency = 4
	}
	sem := semaphore.NewWeighted(int64(concurrency))
	g, gctx := errgroup.WithContext(ctx)

	results := make([]*model.Module, len(tasks))
	diagsPerTask := make([][]diag.Diagnostic, len(tasks))

	for i, task := range tasks {
		i, task := i, task
		fe, ok := registry.For(task.RelPath)
		if !ok {
			continue // no enabled front-end claims this extension
		}
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			src, err := w.Read(gctx, task.AbsPath)
			if err != nil {
				diagsPerTask[i] = []diag.Diagnostic{{
					Kind: diag.WalkFailure, Path: task.RelPath, Message: err.Error(),
				}}
				return nil
			}

			mod, fdiags, perr := fe.Parse(gctx, task.RelPath, src)
			if perr != nil {
				diagsPerTask[i] = append(diagsPerTask[i], diag.Diagnostic{
					Kind: diag.ParseFailure, Path: task.RelPath, Frontend: string(fe.Language()),
					Stage: "parse", Message: perr.Error(),
				})
				return nil
			}
			diagsPerTask[i] = fdiags
			results[i] = mod
			return nil
		})
	}

	err := g.Wait()

	var modules []*model.Module
	var diags []diag.Diagnostic
	for i := range tasks {
		if results[i] != nil {
			modules = append(modules, results[i])
		}
		diags = append(diags, diagsPerTask[i]...)
	}

	if err != nil {
		return modules, diags, err
	}
	return modules, diags, nil
}


package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/viant/codegraph/pkg/model"
	"github.com/viant/codegraph/pkg/pipeline"
	"github.com/viant/codegraph/pkg/walker"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: codegraph <project-root> [output-file]")
		os.Exit(2)
	}
	root := os.Args[1]

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := pipeline.DefaultConfig()
	if proj, err := walker.DetectProject(root); err == nil {
		logger.Info("detected project root",
			zap.String("name", proj.Name), zap.String("type", proj.Type), zap.String("root", proj.RootPath))
	}
	logger.Info("analysing project", zap.String("root", root))

	result, err := pipeline.Analyse(ctx, root, cfg)
	if err != nil {
		logger.Error("analysis failed", zap.Error(err))
		os.Exit(1)
	}

	for _, d := range result.Diagnostics {
		logger.Warn(d.String(), zap.String("kind", string(d.Kind)))
	}
	if result.Model.Incomplete {
		logger.Warn("analysis was cancelled before completion; result is partial")
	}

	logger.Info("analysis complete",
		zap.String("run_id", result.RunID),
		zap.Int("modules", result.Summary.Entities[model.KindModule]),
		zap.Int("types", result.Summary.Entities[model.KindType]),
		zap.Int("routines", result.Summary.Entities[model.KindRoutine]),
		zap.Int("edges", len(result.Model.Edges)),
		zap.Int("flows", len(result.Model.Flows)),
	)

	out := os.Stdout
	if len(os.Args) >= 3 {
		f, err := os.Create(os.Args[2])
		if err != nil {
			logger.Error("failed to create output file", zap.Error(err))
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := pipeline.Serialize(out, result.Model); err != nil {
		logger.Error("failed to serialize result", zap.Error(err))
		os.Exit(1)
	}
}

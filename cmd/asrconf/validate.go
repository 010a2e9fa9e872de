// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/ManuGH/asrconf/internal/config"
	xglog "github.com/ManuGH/asrconf/internal/log"
	"github.com/ManuGH/asrconf/internal/metrics"
	"github.com/ManuGH/asrconf/internal/vocab"
	"golang.org/x/sync/errgroup"
)

func runValidate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("asrconf validate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var dictPath, metricsFile string
	var checkPaths bool
	fs.StringVar(&dictPath, "dict", "", "token dictionary to bind (vocab_size, sos, eos, blank)")
	fs.BoolVar(&checkPaths, "check-paths", false, "verify that the data split files exist, relative to the recipe directory")
	fs.StringVar(&metricsFile, "metrics-file", "", "write load metrics in Prometheus text format to this file")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(stderr, "Error: at least one recipe file is required")
		return exitUsage
	}

	dict, err := loadDict(dictPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInvalid
	}

	results := make([]error, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if gctx.Err() != nil {
				results[i] = gctx.Err()
				return nil
			}
			results[i] = validateFile(xglog.ContextWithRecipe(gctx, file), file, dict, checkPaths)
			return nil
		})
	}
	_ = g.Wait()

	logger := xglog.WithComponent("cli")
	code := exitOK
	for i, file := range files {
		if results[i] != nil {
			reportError(stderr, file, results[i])
			code = exitInvalid
			continue
		}
		fmt.Fprintf(stdout, "✓ %s is valid\n", file)
	}

	if metricsFile != "" {
		if err := metrics.WriteTextfile(metricsFile); err != nil {
			logger.Error().Err(err).Str(xglog.FieldPath, metricsFile).Msg("failed to write metrics")
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitInvalid
		}
	}
	return code
}

func validateFile(ctx context.Context, path string, dict *vocab.Dict, checkPaths bool) error {
	logger := xglog.WithComponentFromContext(ctx, "cli")
	cfg, err := newLoader(path, dict).LoadValidated()
	if err != nil {
		return err
	}
	if checkPaths {
		if err := config.CheckDataPaths(cfg, filepath.Dir(path)); err != nil {
			return err
		}
	}
	logger.Debug().
		Str(xglog.FieldEvent, "cli.recipe_valid").
		Str(xglog.FieldNnet, cfg.Nnet).
		Str(xglog.FieldTask, cfg.Task).
		Bool("paths_checked", checkPaths).
		Msg("recipe is valid")
	return nil
}

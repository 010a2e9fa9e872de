// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/ManuGH/asrconf/internal/config"
	"github.com/google/go-cmp/cmp"
)

func runDiff(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("asrconf diff", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var verbose bool
	fs.BoolVar(&verbose, "v", false, "also print a structural diff of the two recipes")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "Error: diff needs exactly two recipe files")
		return exitUsage
	}
	oldPath, newPath := fs.Arg(0), fs.Arg(1)

	oldCfg, err := config.Load(oldPath)
	if err != nil {
		reportError(stderr, oldPath, err)
		return exitInvalid
	}
	newCfg, err := config.Load(newPath)
	if err != nil {
		reportError(stderr, newPath, err)
		return exitInvalid
	}

	summary := config.Diff(oldCfg, newCfg)
	if summary.Empty() {
		fmt.Fprintln(stdout, "no changes")
		return exitOK
	}
	for _, f := range summary.ChangedFields {
		fmt.Fprintf(stdout, "~ %s\n", f)
	}
	if summary.ArchitectureChanged {
		fmt.Fprintln(stdout, "model architecture changed: checkpoints of the old recipe cannot be resumed")
	}
	if verbose {
		fmt.Fprintf(stdout, "\n%s", cmp.Diff(oldCfg, newCfg))
	}
	return exitOK
}

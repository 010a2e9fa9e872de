// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ManuGH/asrconf/internal/config"
)

func runDump(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("asrconf dump", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file, outDir, dictPath string
	fs.StringVar(&file, "file", "", "path to the recipe")
	fs.StringVar(&file, "f", "", "path to the recipe (shorthand)")
	fs.StringVar(&outDir, "o", "", "checkpoint directory to write "+config.DumpFileName+" into; stdout if empty")
	fs.StringVar(&dictPath, "dict", "", "token dictionary to bind before dumping")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	file = strings.TrimSpace(file)
	if file == "" {
		fmt.Fprintln(stderr, "Error: --file is required")
		return exitUsage
	}

	dict, err := loadDict(dictPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInvalid
	}
	cfg, err := newLoader(file, dict).LoadValidated()
	if err != nil {
		reportError(stderr, file, err)
		return exitInvalid
	}

	if outDir == "" {
		data, err := config.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitInvalid
		}
		_, _ = stdout.Write(data)
		return exitOK
	}

	path, err := config.Dump(cfg, outDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInvalid
	}
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return exitOK
}

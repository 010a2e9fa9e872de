// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// asrconf loads, validates and compares ASR training recipes.
//
// Usage:
//
//	asrconf [-log-level level] <command> [flags] [args]
//
// Commands:
//
//	validate  check one or more recipes
//	dump      write the effective recipe into a checkpoint directory
//	diff      list the fields that differ between two recipes
//	watch     reload a recipe whenever it changes
//	schema    print the Markdown reference of the recipe schema
//	version   print the version
//
// Exit codes:
//   - 0: success (all recipes valid)
//   - 1: a recipe failed to load or validate
//   - 2: usage error
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	xglog "github.com/ManuGH/asrconf/internal/log"
	"github.com/ManuGH/asrconf/internal/validate"
	"github.com/ManuGH/asrconf/internal/version"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("asrconf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }

	var logLevel string
	fs.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to $"+xglog.EnvLogLevel+" or error")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	if logLevel == "" {
		logLevel = os.Getenv(xglog.EnvLogLevel)
	}
	if logLevel == "" {
		logLevel = validate.LogLevelError.String()
	}
	level, err := validate.ParseLogLevel(logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	logLevel = level.String()
	xglog.Reconfigure(xglog.Config{Level: logLevel, Output: stderr, Service: "asrconf"})

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	switch rest[0] {
	case "validate":
		return runValidate(ctx, rest[1:], stdout, stderr)
	case "dump":
		return runDump(rest[1:], stdout, stderr)
	case "diff":
		return runDiff(rest[1:], stdout, stderr)
	case "watch":
		return runWatch(ctx, rest[1:], stdout, stderr)
	case "schema":
		return runSchema(rest[1:], stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, version.String())
		return exitOK
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", rest[0])
		printUsage(stderr)
		return exitUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  asrconf validate [-dict dict] [-check-paths] [-metrics-file file] RECIPE...")
	fmt.Fprintln(w, "  asrconf dump -f RECIPE -o DIR [-dict dict]")
	fmt.Fprintln(w, "  asrconf diff [-v] OLD NEW")
	fmt.Fprintln(w, "  asrconf watch -f RECIPE [-dict dict] [-debounce 500ms]")
	fmt.Fprintln(w, "  asrconf schema [-o file.md]")
	fmt.Fprintln(w, "  asrconf version")
}

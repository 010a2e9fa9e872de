// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ManuGH/asrconf/internal/config"
)

func runWatch(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("asrconf watch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file, dictPath string
	var debounce time.Duration
	fs.StringVar(&file, "file", "", "path to the recipe")
	fs.StringVar(&file, "f", "", "path to the recipe (shorthand)")
	fs.StringVar(&dictPath, "dict", "", "token dictionary to bind on every reload")
	fs.DurationVar(&debounce, "debounce", config.DefaultDebounce, "quiet period before reloading")

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

	w := config.NewWatcher(newLoader(file, dict))
	w.SetDebounce(debounce)
	if err := w.Reload(ctx); err != nil {
		reportError(stderr, file, err)
		return exitInvalid
	}
	fmt.Fprintf(stdout, "✓ %s is valid, watching for changes\n", file)

	events := make(chan config.ReloadEvent, 4)
	w.RegisterListener(events)
	if err := w.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInvalid
	}

	for {
		select {
		case <-ctx.Done():
			w.Wait()
			return exitOK
		case ev := <-events:
			if ev.Err != nil {
				reportError(stderr, file, ev.Err)
				fmt.Fprintln(stderr, "  keeping previous recipe")
				continue
			}
			fmt.Fprintf(stdout, "✓ %s reloaded: %s\n", file, strings.Join(ev.Changes.ChangedFields, ", "))
			if ev.Changes.ArchitectureChanged {
				fmt.Fprintln(stdout, "  model architecture changed")
			}
		}
	}
}

// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/ManuGH/asrconf/internal/config"
	"github.com/ManuGH/asrconf/internal/fsutil"
)

func runSchema(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("asrconf schema", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var out string
	fs.StringVar(&out, "o", "", "write the Markdown reference to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if out == "" {
		if err := config.WriteSchemaDocs(stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitInvalid
		}
		return exitOK
	}
	if err := fsutil.WriteAtomic(out, 0o644, config.WriteSchemaDocs); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInvalid
	}
	fmt.Fprintf(stdout, "generated %s\n", out)
	return exitOK
}

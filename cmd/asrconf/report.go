// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/ManuGH/asrconf/internal/config"
	"github.com/ManuGH/asrconf/internal/vocab"
)

// reportError prints err with one line per offending field.
func reportError(w io.Writer, path string, err error) {
	var se *config.SchemaError
	var ve config.ValidationError
	var pe *config.ParseError
	switch {
	case errors.As(err, &se):
		fmt.Fprintf(w, "Configuration error in %s:\n", path)
		for _, issue := range se.Issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	case errors.As(err, &ve):
		fmt.Fprintf(w, "Validation error in %s:\n", path)
		for _, e := range ve.Errors() {
			fmt.Fprintf(w, "  - %s\n", e.Error())
		}
	case errors.As(err, &pe):
		fmt.Fprintf(w, "Parse error in %s:\n  %v\n", path, pe.Err)
	default:
		fmt.Fprintf(w, "Configuration error in %s:\n  %v\n", path, err)
	}
}

// loadDict returns nil when path is empty.
func loadDict(path string) (*vocab.Dict, error) {
	if path == "" {
		return nil, nil
	}
	d, err := vocab.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	return d, nil
}

func newLoader(path string, dict *vocab.Dict) *config.Loader {
	l := config.NewLoader(path)
	if dict != nil {
		l = l.WithVocab(dict)
	}
	return l
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package vocab reads the token dictionaries that accompany training recipes.
//
// A dictionary is a text file with one "unit index" pair per line, the format
// produced by the data preparation scripts of the training framework.
package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Reserved units looked up when binding a dictionary to a recipe.
const (
	SOS   = "<sos>"
	EOS   = "<eos>"
	Blank = "<blank>"
)

// ErrEmptyDict is returned when a dictionary file holds no entries.
var ErrEmptyDict = errors.New("dictionary is empty")

// Dict maps modelling units to their output indices.
type Dict struct {
	units map[string]int
}

// Load reads a dictionary file.
func Load(path string) (*Dict, error) {
	// #nosec G304 -- dictionary paths are provided by the operator via CLI
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
	}
	return d, nil
}

// Parse reads "unit index" lines from r. Blank lines are skipped. Units are
// stored in Unicode NFC so composed and decomposed spellings collide.
func Parse(r io.Reader) (*Dict, error) {
	d := &Dict{units: make(map[string]int)}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"unit index\", got %q", lineNo, line)
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid index %q: %w", lineNo, fields[1], err)
		}
		if idx < 0 {
			return nil, fmt.Errorf("line %d: index must be >= 0 (got %d)", lineNo, idx)
		}
		unit := norm.NFC.String(fields[0])
		if _, dup := d.units[unit]; dup {
			return nil, fmt.Errorf("line %d: duplicate unit %q", lineNo, fields[0])
		}
		d.units[unit] = idx
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(d.units) == 0 {
		return nil, ErrEmptyDict
	}
	return d, nil
}

// Size is the number of units, which is the output vocabulary size.
func (d *Dict) Size() int {
	return len(d.units)
}

// Index returns the index of unit and whether the unit exists.
func (d *Dict) Index(unit string) (int, bool) {
	idx, ok := d.units[norm.NFC.String(unit)]
	return idx, ok
}

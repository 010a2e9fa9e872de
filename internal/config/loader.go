// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	xglog "github.com/ManuGH/asrconf/internal/log"
	"github.com/ManuGH/asrconf/internal/metrics"
	"github.com/ManuGH/asrconf/internal/vocab"
	"gopkg.in/yaml.v3"
)

// Loader reads one recipe file, optionally binding a token dictionary.
type Loader struct {
	path string
	dict *vocab.Dict
}

// NewLoader creates a loader for the recipe at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// WithVocab binds dict to every configuration the loader produces.
func (l *Loader) WithVocab(dict *vocab.Dict) *Loader {
	l.dict = dict
	return l
}

// Path returns the recipe path.
func (l *Loader) Path() string { return l.path }

// Load reads, parses and schema-checks the recipe. The result is not yet
// cross-validated; see Validate and LoadValidated.
func (l *Loader) Load() (*TrainingConfig, error) {
	logger := xglog.WithComponent("config").With().Str(xglog.FieldRecipe, l.path).Logger()
	start := time.Now()

	cfg, err := l.load()
	outcome, issues := classify(err)
	metrics.RecordLoad(outcome, issues, time.Since(start))
	if err != nil {
		logger.Warn().Err(err).
			Str(xglog.FieldEvent, "config.load_failed").
			Int(xglog.FieldIssueCount, issues).
			Msg("recipe rejected")
		return nil, err
	}

	ev := logger.Debug().
		Str(xglog.FieldEvent, "config.loaded").
		Str(xglog.FieldNnet, cfg.Nnet).
		Str(xglog.FieldTask, cfg.Task)
	if cfg.AsrTransform != nil {
		ev = ev.Str(xglog.FieldFeats, cfg.AsrTransform.Feats)
	}
	ev.Msg("recipe loaded")
	return cfg, nil
}

func (l *Loader) load() (*TrainingConfig, error) {
	path := filepath.Clean(l.path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported recipe format %q (only YAML supported)", ext)
	}

	// #nosec G304 -- recipe paths are provided by the operator via CLI
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, withFile(err, l.path)
	}
	if l.dict != nil {
		if err := BindVocab(cfg, l.dict); err != nil {
			return nil, withFile(err, l.path)
		}
	}
	return cfg, nil
}

// LoadValidated runs Load then Validate.
func (l *Loader) LoadValidated() (*TrainingConfig, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		logger := xglog.WithComponent("config")
		logger.Warn().Err(err).
			Str(xglog.FieldRecipe, l.path).
			Str(xglog.FieldEvent, "config.validation_failed").
			Msg("recipe violates cross-field invariants")
		return nil, err
	}
	return cfg, nil
}

// Load reads and schema-checks the recipe at path.
func Load(path string) (*TrainingConfig, error) {
	return NewLoader(path).Load()
}

// LoadValidated reads, schema-checks and cross-validates the recipe at path.
func LoadValidated(path string) (*TrainingConfig, error) {
	return NewLoader(path).LoadValidated()
}

// Parse schema-checks an in-memory recipe.
func Parse(data []byte) (*TrainingConfig, error) {
	return parse(data)
}

func parse(data []byte) (*TrainingConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Err: errors.New("document is empty")}
		}
		return nil, &ParseError{Err: err}
	}
	if len(doc.Content) == 0 || isNull(doc.Content[0]) {
		return nil, &ParseError{Err: errors.New("document is empty")}
	}

	// Strict: Ensure no multiple documents or trailing content
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		return nil, &ParseError{Err: errors.New("recipe contains multiple documents")}
	}

	return decodeRecipe(&doc)
}

func withFile(err error, path string) error {
	var se *SchemaError
	if errors.As(err, &se) {
		se.File = path
		return se
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.File = path
		return pe
	}
	return err
}

func classify(err error) (outcome string, issues int) {
	if err == nil {
		return metrics.OutcomeOK, 0
	}
	var se *SchemaError
	if errors.As(err, &se) {
		return metrics.OutcomeSchemaError, len(se.Issues)
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return metrics.OutcomeParseError, 1
	}
	return metrics.OutcomeIOError, 0
}

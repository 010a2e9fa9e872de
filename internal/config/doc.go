// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads and validates ASR training recipes.
//
// A recipe is a YAML document selecting a network family (nnet), a training
// objective (task), a feature pipeline (asr_transform) with an optional
// multi-channel front-end (enh_transform), optimizer settings
// (trainer_conf) and dataset paths (data_conf). Loading is strict: every
// mapping is checked against the field set of the variant selected by its
// tag, so typos and misplaced keys fail before the training framework starts.
//
// Loading and validation are separate steps. Load returns a ParseError or a
// SchemaError for malformed or mis-shaped documents. Validate runs the
// cross-field checks and reports every violation in one ValidationError.
package config

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ManuGH/asrconf/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// DumpFileName is the name of the effective recipe written into a
// checkpoint directory.
const DumpFileName = "train.yaml"

// Marshal encodes the effective configuration, defaults included, with
// canonical key names.
func Marshal(cfg *TrainingConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(w io.Writer, cfg *TrainingConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode recipe: %w", err)
	}
	return enc.Close()
}

// Dump writes the effective configuration to dir/train.yaml atomically and
// returns the written path. dir must exist.
func Dump(cfg *TrainingConfig, dir string) (string, error) {
	path, err := fsutil.ConfineRelPath(dir, DumpFileName)
	if err != nil {
		return "", fmt.Errorf("dump recipe: %w", err)
	}
	err = fsutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return encode(w, cfg)
	})
	if err != nil {
		return "", fmt.Errorf("dump recipe: %w", err)
	}
	return path, nil
}

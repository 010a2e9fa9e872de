// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"

	"github.com/ManuGH/asrconf/internal/vocab"
)

// BindVocab injects the dictionary into the recipe: vocab_size, sos and eos
// on nnet_conf, and the blank index on CTC or transducer objectives. Values
// already present in the recipe are overwritten. Call it before the config
// is shared; Loader.WithVocab does so as part of loading.
func BindVocab(cfg *TrainingConfig, dict *vocab.Dict) error {
	reg, err := GetRegistry()
	if err != nil {
		return err
	}
	var issues []SchemaIssue
	missing := func(field, symbol, why string) {
		issues = append(issues, SchemaIssue{
			Field:   field,
			Kind:    IssueMissingField,
			Message: fmt.Sprintf("dictionary has no %s symbol, %s", symbol, why),
		})
	}

	mv := cfg.NnetConf.Vocab()
	mv.VocabSize = dict.Size()

	family := reg.Nets[cfg.Nnet].Family
	if idx, ok := dict.Index(vocab.SOS); ok {
		mv.SOS = intPtr(idx)
	} else if family == FamilyAttention {
		missing("nnet_conf.sos", vocab.SOS, "required by attention decoders")
	}
	if idx, ok := dict.Index(vocab.EOS); ok {
		mv.EOS = intPtr(idx)
	} else if family == FamilyAttention {
		missing("nnet_conf.eos", vocab.EOS, "required by attention decoders")
	}

	if cfg.usesBlank() {
		if idx, ok := dict.Index(vocab.Blank); ok {
			cfg.setBlank(idx)
		} else {
			missing("task_conf.blank", vocab.Blank, fmt.Sprintf("required by %s training", cfg.Task))
		}
	}

	if len(issues) > 0 {
		return &SchemaError{Issues: issues}
	}
	return nil
}

// usesBlank reports whether the objective computes a CTC or transducer loss.
func (c *TrainingConfig) usesBlank() bool {
	switch tc := c.TaskConf.(type) {
	case *CtcXentTaskConf:
		return tc.CtcWeight > 0
	case *TransducerTaskConf, *CtcTaskConf:
		return true
	}
	return false
}

func (c *TrainingConfig) setBlank(idx int) {
	switch tc := c.TaskConf.(type) {
	case *CtcXentTaskConf:
		tc.Blank = intPtr(idx)
	case *TransducerTaskConf:
		tc.Blank = intPtr(idx)
	case *CtcTaskConf:
		tc.Blank = intPtr(idx)
	}
}

func intPtr(v int) *int { return &v }

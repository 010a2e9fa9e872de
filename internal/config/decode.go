// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// rawDocument defers the sections that need defaults or variant dispatch.
type rawDocument struct {
	Nnet         string    `yaml:"nnet"`
	NnetConf     yaml.Node `yaml:"nnet_conf"`
	Task         string    `yaml:"task"`
	TaskConf     yaml.Node `yaml:"task_conf"`
	AsrTransform yaml.Node `yaml:"asr_transform"`
	EnhTransform yaml.Node `yaml:"enh_transform"`
	TrainerConf  yaml.Node `yaml:"trainer_conf"`
	DataConf     DataConf  `yaml:"data_conf"`
}

// decodeRecipe runs the schema walk, decodes into typed records and applies
// per-field domains. Shape problems come back as a *SchemaError.
func decodeRecipe(root *yaml.Node) (*TrainingConfig, error) {
	reg, err := GetRegistry()
	if err != nil {
		return nil, err
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	w := newSchemaWalker(reg)
	net, task, _ := w.walkDocument(root)
	if len(w.issues) > 0 {
		return nil, &SchemaError{Issues: w.issues}
	}
	// a clean walk resolves both tags
	if net == nil || task == nil {
		return nil, errors.New("config: variant resolution failed after a clean schema walk")
	}

	var raw rawDocument
	if err := root.Decode(&raw); err != nil {
		return nil, decodeFailure("", err)
	}

	cfg := &TrainingConfig{
		Nnet:     raw.Nnet,
		NnetConf: net.newConf(),
		Task:     raw.Task,
		TaskConf: task.newConf(),
		DataConf: raw.DataConf,
	}
	if err := raw.NnetConf.Decode(cfg.NnetConf); err != nil {
		return nil, decodeFailure("nnet_conf", err)
	}
	if !isNull(&raw.TaskConf) && raw.TaskConf.Kind != 0 {
		if err := raw.TaskConf.Decode(cfg.TaskConf); err != nil {
			return nil, decodeFailure("task_conf", err)
		}
	}
	if !isNull(&raw.AsrTransform) && raw.AsrTransform.Kind != 0 {
		t := DefaultAsrTransform()
		if err := raw.AsrTransform.Decode(&t); err != nil {
			return nil, decodeFailure("asr_transform", err)
		}
		cfg.AsrTransform = &t
	}
	if !isNull(&raw.EnhTransform) && raw.EnhTransform.Kind != 0 {
		t := DefaultEnhTransform()
		if err := raw.EnhTransform.Decode(&t); err != nil {
			return nil, decodeFailure("enh_transform", err)
		}
		cfg.EnhTransform = &t
	}
	cfg.TrainerConf = DefaultTrainerConf()
	if err := raw.TrainerConf.Decode(&cfg.TrainerConf); err != nil {
		return nil, decodeFailure("trainer_conf", err)
	}
	applyImpliedDefaults(cfg)

	d := newDomainChecker(reg)
	cfg.checkDomains(d)
	if !d.v.IsValid() {
		return nil, &SchemaError{Issues: d.schemaIssues(w.lines)}
	}
	return cfg, nil
}

// applyImpliedDefaults fills values whose default depends on other keys.
func applyImpliedDefaults(cfg *TrainingConfig) {
	tc := &cfg.TrainerConf
	if tc.LRScheduler != "" && tc.LRSchedulerPeriod == "" {
		tc.LRSchedulerPeriod = PeriodEpoch
	}
}

// decodeFailure turns a residual decoder error into schema issues. The walk
// catches shape problems first, so this only fires on values the decoder
// cannot represent, such as integers overflowing int.
func decodeFailure(section string, err error) error {
	var te *yaml.TypeError
	if !errors.As(err, &te) {
		return fmt.Errorf("decode %s: %w", section, err)
	}
	issues := make([]SchemaIssue, 0, len(te.Errors))
	for _, msg := range te.Errors {
		field := section
		if field == "" {
			field = "document"
		}
		issues = append(issues, SchemaIssue{Field: field, Kind: IssueMistyped, Message: msg})
	}
	return &SchemaError{Issues: issues}
}

// UnmarshalYAML decodes a recipe with the same checks as Parse, so
// yaml.Unmarshal into a TrainingConfig is strict as well.
func (c *TrainingConfig) UnmarshalYAML(value *yaml.Node) error {
	cfg, err := decodeRecipe(value)
	if err != nil {
		return err
	}
	*c = *cfg
	return nil
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"sort"
	"sync"
)

// Network tags.
const (
	NnetAtt            = "asr@att"
	NnetXfmr           = "asr@xfmr"
	NnetXfmrTransducer = "asr@xfmr_transducer"
	NnetTransducer     = "asr@transducer"
)

// Task tags.
const (
	TaskCtcXent    = "asr@ctc_xent"
	TaskTransducer = "asr@transducer"
	TaskCtc        = "asr@ctc"
)

// Data format tags.
const (
	DataRaw   = "am@raw"
	DataKaldi = "am@kaldi"
)

// Metric names a trainer can report.
const (
	MetricLoss = "loss"
	MetricAccu = "accu"
	MetricCtc  = "@ctc"
)

// Scheduler periods.
const (
	PeriodEpoch = "epoch"
	PeriodStep  = "step"
)

// NetFamily groups network variants by decoder structure.
type NetFamily string

const (
	FamilyAttention  NetFamily = "attention"
	FamilyTransducer NetFamily = "transducer"
)

// NetVariant describes one nnet tag.
type NetVariant struct {
	Tag      string
	Family   NetFamily
	EncTypes []string
	newConf  func() NetConf
}

// TaskVariant describes one task tag.
type TaskVariant struct {
	Tag        string
	Families   []NetFamily // network families the objective can train
	Metrics    []string    // metrics the objective reports
	NeedsBlank bool        // CTC and transducer losses need a blank symbol
	newConf    func() TaskConf
}

// OptimizerSpec lists the kwargs an optimizer accepts.
type OptimizerSpec struct {
	Name   string
	Kwargs kwargsSchema
}

// SchedulerSpec lists the kwargs and stepping periods of an LR scheduler.
type SchedulerSpec struct {
	Name    string
	Kwargs  kwargsSchema
	Periods []string
}

// DataFormat describes one data_conf.fmt tag.
type DataFormat struct {
	Tag string
	// SplitKey is the per-split index file key (wav_scp or feats_scp).
	SplitKey string
	// Raw formats carry waveforms and need an asr_transform.
	Raw bool
}

// attentionSpec lists the optional att_kwargs keys of an attention type.
type attentionSpec struct {
	Name     string
	Optional []string
	Required []string
}

// Registry is the closed set of variants a recipe may reference.
type Registry struct {
	Nets        map[string]NetVariant
	Tasks       map[string]TaskVariant
	Optimizers  map[string]OptimizerSpec
	Schedulers  map[string]SchedulerSpec
	DataFormats map[string]DataFormat
	Attentions  map[string]attentionSpec

	Metrics    []string
	Windows    []string
	RNNTypes   []string
	ProjLayers []string
	BatchModes []string
}

var (
	globalRegistry    *Registry
	globalRegistryErr error
	registryOnce      sync.Once
)

// GetRegistry returns the global variant registry.
// It returns an error if the registry contains duplicates.
// Thread-safe via sync.Once.
func GetRegistry() (*Registry, error) {
	registryOnce.Do(func() {
		globalRegistry, globalRegistryErr = buildRegistry()
	})
	return globalRegistry, globalRegistryErr
}

func buildRegistry() (*Registry, error) {
	rnnEncoders := []string{"common", "custom_rnn", "vgg_rnn", "tdnn", "tdnn_rnn"}
	xfmrEncoders := []string{"xfmr", "xfmr_rel"}

	nets := []NetVariant{
		{Tag: NnetAtt, Family: FamilyAttention, EncTypes: rnnEncoders, newConf: func() NetConf { return &AttNetConf{} }},
		{Tag: NnetXfmr, Family: FamilyAttention, EncTypes: xfmrEncoders, newConf: func() NetConf { return &XfmrNetConf{} }},
		{Tag: NnetXfmrTransducer, Family: FamilyTransducer, EncTypes: xfmrEncoders, newConf: func() NetConf { return &XfmrTransducerNetConf{} }},
		{Tag: NnetTransducer, Family: FamilyTransducer, EncTypes: rnnEncoders, newConf: func() NetConf { return &RNNTransducerNetConf{} }},
	}

	tasks := []TaskVariant{
		{
			Tag:      TaskCtcXent,
			Families: []NetFamily{FamilyAttention},
			Metrics:  []string{MetricLoss, MetricAccu, MetricCtc},
			newConf:  func() TaskConf { return &CtcXentTaskConf{} },
		},
		{
			Tag:        TaskTransducer,
			Families:   []NetFamily{FamilyTransducer},
			Metrics:    []string{MetricLoss},
			NeedsBlank: true,
			newConf:    func() TaskConf { return &TransducerTaskConf{} },
		},
		{
			Tag:        TaskCtc,
			Families:   []NetFamily{FamilyAttention},
			Metrics:    []string{MetricLoss},
			NeedsBlank: true,
			newConf:    func() TaskConf { return &CtcTaskConf{} },
		},
	}

	common := kwargsSchema{
		"lr":           {kind: kwPositive},
		"weight_decay": {kind: kwNonNegative},
	}
	optimizers := []OptimizerSpec{
		{Name: "sgd", Kwargs: common.with(kwargsSchema{
			"lr":        {kind: kwPositive, required: true},
			"momentum":  {kind: kwNonNegative},
			"dampening": {kind: kwNonNegative},
			"nesterov":  {kind: kwBool},
		})},
		{Name: "adam", Kwargs: common.with(kwargsSchema{
			"betas":   {kind: kwNumberList},
			"eps":     {kind: kwPositive},
			"amsgrad": {kind: kwBool},
		})},
		{Name: "adamw", Kwargs: common.with(kwargsSchema{
			"betas":   {kind: kwNumberList},
			"eps":     {kind: kwPositive},
			"amsgrad": {kind: kwBool},
		})},
		{Name: "adamax", Kwargs: common.with(kwargsSchema{
			"betas": {kind: kwNumberList},
			"eps":   {kind: kwPositive},
		})},
		{Name: "adadelta", Kwargs: common.with(kwargsSchema{
			"rho": {kind: kwProbability},
			"eps": {kind: kwPositive},
		})},
		{Name: "adagrad", Kwargs: common.with(kwargsSchema{
			"lr_decay":                  {kind: kwNonNegative},
			"initial_accumulator_value": {kind: kwNonNegative},
			"eps":                       {kind: kwPositive},
		})},
		{Name: "rmsprop", Kwargs: common.with(kwargsSchema{
			"alpha":    {kind: kwProbability},
			"eps":      {kind: kwPositive},
			"momentum": {kind: kwNonNegative},
			"centered": {kind: kwBool},
		})},
	}

	bothPeriods := []string{PeriodEpoch, PeriodStep}
	schedulers := []SchedulerSpec{
		{Name: "reduce_lr", Periods: []string{PeriodEpoch}, Kwargs: kwargsSchema{
			"mode":      {kind: kwString, choices: []string{"min", "max"}},
			"factor":    {kind: kwProbability},
			"patience":  {kind: kwNonNegative},
			"threshold": {kind: kwNonNegative},
			"min_lr":    {kind: kwNonNegative},
			"cooldown":  {kind: kwNonNegative},
			"verbose":   {kind: kwBool},
		}},
		{Name: "step_lr", Periods: bothPeriods, Kwargs: kwargsSchema{
			"step_size": {kind: kwPositive, required: true},
			"gamma":     {kind: kwPositive},
		}},
		{Name: "multi_step_lr", Periods: bothPeriods, Kwargs: kwargsSchema{
			"milestones": {kind: kwNumberList, required: true},
			"gamma":      {kind: kwPositive},
		}},
		{Name: "exponential_lr", Periods: bothPeriods, Kwargs: kwargsSchema{
			"gamma": {kind: kwPositive, required: true},
		}},
		{Name: "cos_annealing_lr", Periods: bothPeriods, Kwargs: kwargsSchema{
			"T_max":   {kind: kwPositive, required: true},
			"eta_min": {kind: kwNonNegative},
		}},
		{Name: "warmup_noam_lr", Periods: []string{PeriodStep}, Kwargs: kwargsSchema{
			"transformer_dim": {kind: kwPositive},
			"peak_lr":         {kind: kwPositive},
			"warmup":          {kind: kwPositive, required: true},
		}},
		{Name: "warmup_exp_decay_lr", Periods: []string{PeriodStep}, Kwargs: kwargsSchema{
			"time_stamps": {kind: kwNumberList, required: true},
			"peak_lr":     {kind: kwPositive},
			"stop_lr":     {kind: kwNonNegative},
		}},
	}

	formats := []DataFormat{
		{Tag: DataRaw, SplitKey: "wav_scp", Raw: true},
		{Tag: DataKaldi, SplitKey: "feats_scp"},
	}

	attentions := []attentionSpec{
		{Name: "ctx"},
		{Name: "dot"},
		{Name: "loc", Required: []string{"att_channels", "att_kernel"}},
		{Name: "mhctx", Required: []string{"att_head"}},
		{Name: "mhdot", Required: []string{"att_head"}},
		{Name: "mhloc", Required: []string{"att_head", "att_channels", "att_kernel"}},
	}

	r := &Registry{
		Nets:        make(map[string]NetVariant),
		Tasks:       make(map[string]TaskVariant),
		Optimizers:  make(map[string]OptimizerSpec),
		Schedulers:  make(map[string]SchedulerSpec),
		DataFormats: make(map[string]DataFormat),
		Attentions:  make(map[string]attentionSpec),
		Metrics:     []string{MetricLoss, MetricAccu, MetricCtc},
		Windows:     []string{"bartlett", "hann", "hamm", "blackman", "rect", "sqrthann"},
		RNNTypes:    []string{"lstm", "gru", "rnn"},
		ProjLayers:  []string{"conv2d", "conv1d", "linear"},
		BatchModes:  []string{"adaptive", "constraint"},
	}

	for _, n := range nets {
		if _, dup := r.Nets[n.Tag]; dup {
			return nil, fmt.Errorf("duplicate nnet tag: %s", n.Tag)
		}
		r.Nets[n.Tag] = n
	}
	for _, t := range tasks {
		if _, dup := r.Tasks[t.Tag]; dup {
			return nil, fmt.Errorf("duplicate task tag: %s", t.Tag)
		}
		r.Tasks[t.Tag] = t
	}
	for _, o := range optimizers {
		if _, dup := r.Optimizers[o.Name]; dup {
			return nil, fmt.Errorf("duplicate optimizer: %s", o.Name)
		}
		r.Optimizers[o.Name] = o
	}
	for _, s := range schedulers {
		if _, dup := r.Schedulers[s.Name]; dup {
			return nil, fmt.Errorf("duplicate lr scheduler: %s", s.Name)
		}
		r.Schedulers[s.Name] = s
	}
	for _, f := range formats {
		if _, dup := r.DataFormats[f.Tag]; dup {
			return nil, fmt.Errorf("duplicate data format: %s", f.Tag)
		}
		r.DataFormats[f.Tag] = f
	}
	for _, a := range attentions {
		if _, dup := r.Attentions[a.Name]; dup {
			return nil, fmt.Errorf("duplicate attention type: %s", a.Name)
		}
		r.Attentions[a.Name] = a
	}

	return r, nil
}

// NetTags returns the registered nnet tags in sorted order.
func (r *Registry) NetTags() []string { return sortedKeys(r.Nets) }

// TaskTags returns the registered task tags in sorted order.
func (r *Registry) TaskTags() []string { return sortedKeys(r.Tasks) }

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

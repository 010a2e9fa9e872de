// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name         string
		fixture      string
		mutate       func(cfg *TrainingConfig)
		changed      []string
		architecture bool
	}{
		{
			name:    "no change",
			fixture: "xfmr_transducer.yaml",
			mutate:  func(*TrainingConfig) {},
		},
		{
			name:    "trainer setting",
			fixture: "xfmr_transducer.yaml",
			mutate:  func(cfg *TrainingConfig) { cfg.TrainerConf.NoImprThres = 0.2 },
			changed: []string{"trainer_conf.no_impr_thres"},
		},
		{
			name:    "kwargs key by key",
			fixture: "att_ctc_xent.yaml",
			mutate: func(cfg *TrainingConfig) {
				cfg.TrainerConf.LRSchedulerKwargs["factor"] = 0.8
				delete(cfg.TrainerConf.LRSchedulerKwargs, "min_lr")
				cfg.TrainerConf.OptimizerKwargs["amsgrad"] = true
			},
			changed: []string{
				"trainer_conf.optimizer_kwargs.amsgrad",
				"trainer_conf.lr_scheduler_kwargs.factor",
				"trainer_conf.lr_scheduler_kwargs.min_lr",
			},
		},
		{
			name:    "integral float equals int in kwargs",
			fixture: "att_ctc_xent.yaml",
			mutate:  func(cfg *TrainingConfig) { cfg.TrainerConf.LRSchedulerKwargs["patience"] = 1.0 },
		},
		{
			name:    "metric order is ignored",
			fixture: "att_ctc_xent.yaml",
			mutate:  func(cfg *TrainingConfig) { cfg.TrainerConf.ReportMetrics = []string{"@ctc", "accu", "loss"} },
		},
		{
			name:    "encoder width",
			fixture: "xfmr_transducer.yaml",
			mutate: func(cfg *TrainingConfig) {
				net := cfg.NnetConf.(*XfmrTransducerNetConf)
				net.EncKwargs.NumLayers = 18
				net.DecKwargs.JotDim = 256
			},
			changed:      []string{"nnet_conf.enc_kwargs.num_layers", "nnet_conf.dec_kwargs.jot_dim"},
			architecture: true,
		},
		{
			name:         "feature pipeline",
			fixture:      "xfmr_transducer.yaml",
			mutate:       func(cfg *TrainingConfig) { cfg.AsrTransform.NumMels = 40 },
			changed:      []string{"asr_transform.num_mels"},
			architecture: true,
		},
		{
			name:         "transform removed",
			fixture:      "xfmr_transducer.yaml",
			mutate:       func(cfg *TrainingConfig) { cfg.AsrTransform = nil },
			changed:      []string{"asr_transform"},
			architecture: true,
		},
		{
			name:    "task variant replaced",
			fixture: "xfmr_ctc_kaldi.yaml",
			mutate: func(cfg *TrainingConfig) {
				cfg.Task = TaskCtcXent
				cfg.TaskConf = &CtcXentTaskConf{CtcWeight: 0.3}
			},
			changed: []string{"task", "task_conf"},
		},
		{
			name:    "data split",
			fixture: "xfmr_ctc_kaldi.yaml",
			mutate:  func(cfg *TrainingConfig) { cfg.DataConf.Valid.Text = "data/wsj/eval/text" },
			changed: []string{"data_conf.valid.text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := loadFixture(t, tt.fixture)
			next := Clone(old)
			tt.mutate(next)

			summary := Diff(old, next)
			require.Equal(t, tt.changed, summary.ChangedFields)
			require.Equal(t, len(tt.changed) == 0, summary.Empty())
			require.Equal(t, tt.architecture, summary.ArchitectureChanged)
		})
	}
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManuGH/asrconf/internal/fsutil"
	"github.com/ManuGH/asrconf/internal/metrics"
	"github.com/ManuGH/asrconf/internal/validate"
)

// crossChecker collects failures of invariants that span several fields.
type crossChecker struct {
	v   *validate.Validator
	reg *Registry
}

// Validate checks the cross-field invariants of a loaded recipe. It returns
// a ValidationError listing every violated invariant, or nil.
func Validate(cfg *TrainingConfig) error {
	reg, err := GetRegistry()
	if err != nil {
		return err
	}
	c := &crossChecker{v: validate.New(), reg: reg}
	if cfg == nil {
		c.v.AddError("recipe", "not set", nil)
		return c.v.Err()
	}
	if cfg.NnetConf == nil {
		c.v.AddError("nnet_conf", "not set", nil)
	}
	if cfg.TaskConf == nil {
		c.v.AddError("task_conf", "not set", nil)
	}

	c.trainer(cfg)
	c.loader(&cfg.DataConf.Loader)
	if cfg.NnetConf != nil {
		cfg.NnetConf.checkCross(c)
	}
	c.compatibility(cfg)
	c.transform(cfg)
	c.enhTransform(cfg)
	c.scheduler(&cfg.TrainerConf)

	metrics.RecordValidation(len(c.v.Errors()))
	return c.v.Err()
}

func (c *crossChecker) trainer(cfg *TrainingConfig) {
	tc := &cfg.TrainerConf
	if !contains(tc.ReportMetrics, tc.StopCriterion) {
		c.v.AddError("trainer_conf.stop_criterion",
			fmt.Sprintf("stop criterion %q is not in report_metrics %v", tc.StopCriterion, tc.ReportMetrics),
			tc.StopCriterion)
	}
}

func (c *crossChecker) loader(l *LoaderConf) {
	if !(l.MinDur <= l.AdaptDur && l.AdaptDur <= l.MaxDur) {
		c.v.AddError("data_conf.loader",
			fmt.Sprintf("durations must satisfy min_dur <= adapt_dur <= max_dur, got %g <= %g <= %g",
				l.MinDur, l.AdaptDur, l.MaxDur),
			[]float64{l.MinDur, l.AdaptDur, l.MaxDur})
	}
	if l.AdaptTokenNum > l.MaxTokenNum {
		c.v.AddError("data_conf.loader.adapt_token_num",
			fmt.Sprintf("must not exceed max_token_num (%d), got %d", l.MaxTokenNum, l.AdaptTokenNum),
			l.AdaptTokenNum)
	}
}

func (c *crossChecker) transformerDims(enc *XfmrEncoderKwargs, dec *XfmrDecoderKwargs) {
	if enc.AttDim != dec.AttDim {
		c.v.AddError("nnet_conf.dec_kwargs.att_dim",
			fmt.Sprintf("decoder att_dim %d must match encoder att_dim %d", dec.AttDim, enc.AttDim),
			dec.AttDim)
	}
	if enc.NHead > 0 && enc.AttDim%enc.NHead != 0 {
		c.v.AddError("nnet_conf.enc_kwargs.nhead",
			fmt.Sprintf("att_dim %d is not divisible by nhead %d", enc.AttDim, enc.NHead),
			enc.NHead)
	}
	if dec.NHead > 0 && dec.AttDim%dec.NHead != 0 {
		c.v.AddError("nnet_conf.dec_kwargs.nhead",
			fmt.Sprintf("att_dim %d is not divisible by nhead %d", dec.AttDim, dec.NHead),
			dec.NHead)
	}
}

// Recurrent encoders size their layers independently of enc_proj; the
// per-field domains cover them.
func (*AttNetConf) checkCross(*crossChecker)           {}
func (*RNNTransducerNetConf) checkCross(*crossChecker) {}

func (n *XfmrNetConf) checkCross(c *crossChecker) {
	c.transformerDims(&n.EncKwargs, &n.DecKwargs)
}

func (n *XfmrTransducerNetConf) checkCross(c *crossChecker) {
	c.transformerDims(&n.EncKwargs, &n.DecKwargs.XfmrDecoderKwargs)
}

// compatibility checks that task, network and reported metrics fit together.
func (c *crossChecker) compatibility(cfg *TrainingConfig) {
	net, okNet := c.reg.Nets[cfg.Nnet]
	task, okTask := c.reg.Tasks[cfg.Task]
	if !okNet || !okTask {
		return
	}
	if !containsFamily(task.Families, net.Family) {
		c.v.AddError("task",
			fmt.Sprintf("task %s cannot train %s network %s", task.Tag, net.Family, net.Tag),
			cfg.Task)
	}

	for i, m := range cfg.TrainerConf.ReportMetrics {
		field := fmt.Sprintf("trainer_conf.report_metrics[%d]", i)
		if !contains(task.Metrics, m) {
			c.v.AddError(field, fmt.Sprintf("metric %q is not reported by task %s", m, task.Tag), m)
			continue
		}
		if xent, ok := cfg.TaskConf.(*CtcXentTaskConf); ok && m == MetricCtc && xent.CtcWeight <= 0 {
			c.v.AddError(field, "metric \"@ctc\" requires task_conf.ctc_weight > 0", m)
		}
	}
}

func containsFamily(list []NetFamily, f NetFamily) bool {
	for _, v := range list {
		if v == f {
			return true
		}
	}
	return false
}

// transform checks the feature pipeline against the data format and the
// network input.
func (c *crossChecker) transform(cfg *TrainingConfig) {
	format, ok := c.reg.DataFormats[cfg.DataConf.Fmt]
	t := cfg.AsrTransform
	if t == nil {
		if ok && format.Raw {
			c.v.AddError("asr_transform",
				fmt.Sprintf("required when data_conf.fmt is %s", format.Tag), nil)
		}
		return
	}

	if t.FrameHop > t.FrameLen {
		c.v.AddError("asr_transform.frame_hop",
			fmt.Sprintf("must not exceed frame_len (%d), got %d", t.FrameLen, t.FrameHop),
			t.FrameHop)
	}
	if t.usesCepstra() && t.NumCeps > t.NumMels {
		c.v.AddError("asr_transform.num_ceps",
			fmt.Sprintf("must not exceed num_mels (%d), got %d", t.NumMels, t.NumCeps),
			t.NumCeps)
	}

	extracted := ok && !format.Raw
	if extracted {
		if wave := t.waveformTokens(); len(wave) > 0 {
			c.v.AddError("asr_transform.feats",
				fmt.Sprintf("stages %s need waveforms but data_conf.fmt %s provides extracted features",
					strings.Join(wave, ", "), format.Tag),
				t.Feats)
			return
		}
	}

	shape, err := t.Shape(extracted)
	if err != nil {
		c.v.AddError("asr_transform.feats", err.Error(), t.Feats)
		return
	}
	if shape.Dim > 0 && cfg.NnetConf != nil && cfg.NnetConf.InputDim() != shape.Dim {
		c.v.AddError("nnet_conf.input_size",
			fmt.Sprintf("must equal the feature dimension %d produced by %q, got %d",
				shape.Dim, t.Feats, cfg.NnetConf.InputDim()),
			cfg.NnetConf.InputDim())
	}
}

func (c *crossChecker) scheduler(tc *TrainerConf) {
	if tc.LRScheduler == "" {
		if tc.LRSchedulerPeriod != "" {
			c.v.AddError("trainer_conf.lr_scheduler_period", "set without lr_scheduler", tc.LRSchedulerPeriod)
		}
		if len(tc.LRSchedulerKwargs) > 0 {
			c.v.AddError("trainer_conf.lr_scheduler_kwargs", "set without lr_scheduler", tc.LRSchedulerKwargs)
		}
		return
	}
	sch, ok := c.reg.Schedulers[tc.LRScheduler]
	if !ok {
		return
	}
	if !contains(sch.Periods, tc.LRSchedulerPeriod) {
		c.v.AddError("trainer_conf.lr_scheduler_period",
			fmt.Sprintf("%s steps per %s, got %q", sch.Name, strings.Join(sch.Periods, " or "), tc.LRSchedulerPeriod),
			tc.LRSchedulerPeriod)
	}
}

// CheckDataPaths verifies that every index file of the train and valid
// splits exists as a regular file. Relative paths resolve against baseDir.
// The training framework performs the same check at startup.
func CheckDataPaths(cfg *TrainingConfig, baseDir string) error {
	v := validate.New()
	for _, s := range []struct {
		name  string
		split DataSplit
	}{{"train", cfg.DataConf.Train}, {"valid", cfg.DataConf.Valid}} {
		for _, f := range []struct{ key, path string }{
			{"wav_scp", s.split.WavScp},
			{"feats_scp", s.split.FeatsScp},
			{"utt2dur", s.split.Utt2Dur},
			{"text", s.split.Text},
		} {
			if f.path == "" {
				continue
			}
			p := f.path
			if !filepath.IsAbs(p) {
				p = filepath.Join(baseDir, p)
			}
			if err := fsutil.IsRegularFile(p); err != nil {
				msg := err.Error()
				if os.IsNotExist(err) {
					msg = "file does not exist: " + p
				}
				v.AddError("data_conf."+s.name+"."+f.key, msg, f.path)
			}
		}
	}
	return v.Err()
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"strings"

	"github.com/ManuGH/asrconf/internal/validate"
)

// domainChecker applies per-field domains after decoding. Failures become
// schema issues: registry misses are unknown tags, the rest are out of domain
// unless recorded with another kind.
type domainChecker struct {
	v     *validate.Validator
	reg   *Registry
	kinds map[int]IssueKind
}

func newDomainChecker(reg *Registry) *domainChecker {
	return &domainChecker{v: validate.New(), reg: reg, kinds: make(map[int]IssueKind)}
}

func (d *domainChecker) issue(kind IssueKind, field, message string, value any) {
	d.kinds[len(d.v.Errors())] = kind
	d.v.AddError(field, message, value)
}

// tag checks value against a closed registry list.
func (d *domainChecker) tag(field, what, value string, allowed []string) {
	if contains(allowed, value) {
		return
	}
	d.issue(IssueUnknownTag, field,
		fmt.Sprintf("unknown %s %q (expected one of: %s)", what, value, strings.Join(allowed, ", ")), value)
}

// schemaIssues converts the recorded failures, resolving source lines from
// the nearest recorded ancestor path.
func (d *domainChecker) schemaIssues(lines map[string]int) []SchemaIssue {
	errs := d.v.Errors()
	out := make([]SchemaIssue, 0, len(errs))
	for i, e := range errs {
		kind, ok := d.kinds[i]
		if !ok {
			kind = IssueOutOfDomain
		}
		out = append(out, SchemaIssue{
			Field:   e.Field,
			Kind:    kind,
			Message: e.Message,
			Line:    lineFor(lines, e.Field),
		})
	}
	return out
}

func lineFor(lines map[string]int, path string) int {
	for path != "" {
		if l, ok := lines[path]; ok {
			return l
		}
		i := strings.LastIndexAny(path, ".[")
		if i < 0 {
			break
		}
		path = path[:i]
	}
	return 0
}

func (c *TrainingConfig) checkDomains(d *domainChecker) {
	c.NnetConf.checkDomains(d)
	if c.TaskConf != nil {
		c.TaskConf.checkDomains(d)
	}
	if c.AsrTransform != nil {
		c.AsrTransform.checkDomains(d, "asr_transform")
	}
	if c.EnhTransform != nil {
		c.EnhTransform.checkDomains(d, "enh_transform")
	}
	c.TrainerConf.checkDomains(d, "trainer_conf")
	c.DataConf.checkDomains(d, "data_conf")
}

func (m *ModelVocab) checkDomains(d *domainChecker, path string) {
	d.v.NonNegative(path+".vocab_size", m.VocabSize)
	if m.SOS != nil {
		d.v.NonNegative(path+".sos", *m.SOS)
	}
	if m.EOS != nil {
		d.v.NonNegative(path+".eos", *m.EOS)
	}
}

func (k *RNNEncoderKwargs) checkDomains(d *domainChecker, path string) {
	d.tag(path+".rnn", "rnn type", k.RNN, d.reg.RNNTypes)
	d.v.Positive(path+".hidden", k.Hidden)
	d.v.Positive(path+".num_layers", k.NumLayers)
	d.v.Probability(path+".dropout", k.Dropout)
	d.v.NonNegative(path+".project", k.Project)
}

func (k *XfmrEncoderKwargs) checkDomains(d *domainChecker, path string) {
	d.tag(path+".proj_layer", "proj_layer", k.ProjLayer, d.reg.ProjLayers)
	d.v.Positive(path+".att_dim", k.AttDim)
	d.v.Positive(path+".nhead", k.NHead)
	d.v.Positive(path+".feedforward_dim", k.FeedforwardDim)
	d.v.Probability(path+".pos_dropout", k.PosDropout)
	d.v.Probability(path+".att_dropout", k.AttDropout)
	d.v.Positive(path+".num_layers", k.NumLayers)
}

func (k *XfmrDecoderKwargs) checkDomains(d *domainChecker, path string) {
	d.v.Positive(path+".att_dim", k.AttDim)
	d.v.Positive(path+".nhead", k.NHead)
	d.v.Positive(path+".feedforward_dim", k.FeedforwardDim)
	d.v.Probability(path+".pos_dropout", k.PosDropout)
	d.v.Probability(path+".att_dropout", k.AttDropout)
	d.v.Positive(path+".num_layers", k.NumLayers)
}

func (k *AttDecoderKwargs) checkDomains(d *domainChecker, path string) {
	d.tag(path+".dec_rnn", "rnn type", k.DecRNN, d.reg.RNNTypes)
	d.v.Positive(path+".rnn_layers", k.RNNLayers)
	d.v.Positive(path+".rnn_hidden", k.RNNHidden)
	d.v.Probability(path+".rnn_dropout", k.RNNDropout)
	d.v.Probability(path+".emb_dropout", k.EmbDropout)
	d.v.Probability(path+".dropout", k.Dropout)
}

func (k *RNNTransducerDecoderKwargs) checkDomains(d *domainChecker, path string) {
	d.v.Positive(path+".embed_size", k.EmbedSize)
	d.v.Positive(path+".jot_dim", k.JotDim)
	d.tag(path+".dec_rnn", "rnn type", k.DecRNN, d.reg.RNNTypes)
	d.v.Positive(path+".dec_layers", k.DecLayers)
	d.v.Positive(path+".dec_hidden", k.DecHidden)
	d.v.Probability(path+".dec_dropout", k.DecDropout)
}

func (d *domainChecker) encType(c NetConf, encType string) {
	d.tag("nnet_conf.enc_type", "enc_type", encType, d.reg.Nets[c.Variant()].EncTypes)
}

func (c *AttNetConf) checkDomains(d *domainChecker) {
	c.ModelVocab.checkDomains(d, "nnet_conf")
	d.v.Positive("nnet_conf.input_size", c.InputSize)
	d.encType(c, c.EncType)
	d.v.Positive("nnet_conf.enc_proj", c.EncProj)
	c.EncKwargs.checkDomains(d, "nnet_conf.enc_kwargs")
	d.v.Positive("nnet_conf.dec_dim", c.DecDim)
	c.DecKwargs.checkDomains(d, "nnet_conf.dec_kwargs")
	d.tag("nnet_conf.att_type", "att_type", c.AttType, sortedKeys(d.reg.Attentions))
	d.v.Positive("nnet_conf.att_kwargs.att_dim", c.AttKwargs.AttDim)
	if spec, ok := d.reg.Attentions[c.AttType]; ok {
		for _, key := range spec.Required {
			var value int
			switch key {
			case "att_channels":
				value = c.AttKwargs.AttChannels
			case "att_kernel":
				value = c.AttKwargs.AttKernel
			case "att_head":
				value = c.AttKwargs.AttHead
			}
			d.v.Positive("nnet_conf.att_kwargs."+key, value)
		}
	}
}

func (c *XfmrNetConf) checkDomains(d *domainChecker) {
	c.ModelVocab.checkDomains(d, "nnet_conf")
	d.v.Positive("nnet_conf.input_size", c.InputSize)
	d.encType(c, c.EncType)
	c.EncKwargs.checkDomains(d, "nnet_conf.enc_kwargs")
	c.DecKwargs.checkDomains(d, "nnet_conf.dec_kwargs")
}

func (c *XfmrTransducerNetConf) checkDomains(d *domainChecker) {
	c.ModelVocab.checkDomains(d, "nnet_conf")
	d.v.Positive("nnet_conf.input_size", c.InputSize)
	d.encType(c, c.EncType)
	c.EncKwargs.checkDomains(d, "nnet_conf.enc_kwargs")
	c.DecKwargs.XfmrDecoderKwargs.checkDomains(d, "nnet_conf.dec_kwargs")
	d.v.Positive("nnet_conf.dec_kwargs.jot_dim", c.DecKwargs.JotDim)
}

func (c *RNNTransducerNetConf) checkDomains(d *domainChecker) {
	c.ModelVocab.checkDomains(d, "nnet_conf")
	d.v.Positive("nnet_conf.input_size", c.InputSize)
	d.encType(c, c.EncType)
	d.v.Positive("nnet_conf.enc_proj", c.EncProj)
	c.EncKwargs.checkDomains(d, "nnet_conf.enc_kwargs")
	c.DecKwargs.checkDomains(d, "nnet_conf.dec_kwargs")
}

func checkBlank(d *domainChecker, blank *int) {
	if blank != nil {
		d.v.NonNegative("task_conf.blank", *blank)
	}
}

func (c *CtcXentTaskConf) checkDomains(d *domainChecker) {
	d.v.HalfOpenUnit("task_conf.lsm_factor", c.LsmFactor)
	d.v.Probability("task_conf.ctc_weight", c.CtcWeight)
	checkBlank(d, c.Blank)
}

func (c *TransducerTaskConf) checkDomains(d *domainChecker) { checkBlank(d, c.Blank) }
func (c *CtcTaskConf) checkDomains(d *domainChecker)        { checkBlank(d, c.Blank) }

func (t *AsrTransform) checkDomains(d *domainChecker, path string) {
	tokens := t.Tokens()
	if len(tokens) == 0 {
		d.issue(IssueOutOfDomain, path+".feats", "feature pipeline cannot be empty", t.Feats)
	}
	for _, tok := range tokens {
		d.tag(path+".feats", "feature stage", tok, FeatureStages)
	}
	d.v.Positive(path+".sr", t.SampleRate)
	d.v.Positive(path+".frame_len", t.FrameLen)
	d.v.Positive(path+".frame_hop", t.FrameHop)
	d.tag(path+".window", "window", t.Window, d.reg.Windows)
	d.v.Positive(path+".num_mels", t.NumMels)
	d.v.Positive(path+".num_ceps", t.NumCeps)
	d.v.NonNegativeFloat(path+".lifter", t.Lifter)
	d.v.Probability(path+".aug_prob", t.AugProb)
	d.v.NonNegative(path+".wrap_step", t.WrapStep)
	d.v.NonNegative(path+".mask_band", t.MaskBand)
	d.v.NonNegative(path+".mask_step", t.MaskStep)
	d.v.NonNegative(path+".num_aug_bands", t.NumAugBands)
	d.v.NonNegative(path+".num_aug_steps", t.NumAugSteps)
	d.v.NonNegative(path+".lctx", t.LeftContext)
	d.v.NonNegative(path+".rctx", t.RightContext)
	d.v.Positive(path+".ds_rate", t.DownsampleRate)
	d.v.Positive(path+".delta_ctx", t.DeltaContext)
	d.v.Positive(path+".delta_order", t.DeltaOrder)
	d.v.HalfOpenUnit(path+".pre_emphasis", t.PreEmphasis)
}

func (t *TrainerConf) checkDomains(d *domainChecker, path string) {
	if opt, ok := d.reg.Optimizers[t.Optimizer]; ok {
		opt.Kwargs.check(d, path+".optimizer_kwargs", "optimizer "+opt.Name, t.OptimizerKwargs)
	} else {
		d.tag(path+".optimizer", "optimizer", t.Optimizer, sortedKeys(d.reg.Optimizers))
	}
	if t.LRScheduler != "" {
		if sch, ok := d.reg.Schedulers[t.LRScheduler]; ok {
			sch.Kwargs.check(d, path+".lr_scheduler_kwargs", "lr_scheduler "+sch.Name, t.LRSchedulerKwargs)
		} else {
			d.tag(path+".lr_scheduler", "lr_scheduler", t.LRScheduler, sortedKeys(d.reg.Schedulers))
		}
	}
	if t.LRSchedulerPeriod != "" {
		d.tag(path+".lr_scheduler_period", "lr_scheduler_period", t.LRSchedulerPeriod, []string{PeriodEpoch, PeriodStep})
	}
	d.v.Positive(path+".no_impr", t.NoImpr)
	d.v.NonNegativeFloat(path+".no_impr_thres", t.NoImprThres)
	d.v.NonNegativeFloat(path+".clip_gradient", t.ClipGradient)
	if len(t.ReportMetrics) == 0 {
		d.issue(IssueOutOfDomain, path+".report_metrics", "at least one metric is required", t.ReportMetrics)
	}
	for i, m := range t.ReportMetrics {
		d.tag(fmt.Sprintf("%s.report_metrics[%d]", path, i), "metric", m, d.reg.Metrics)
	}
}

func (c *DataConf) checkDomains(d *domainChecker, path string) {
	l := c.Loader
	lp := path + ".loader"
	d.v.Positive(lp+".max_token_num", l.MaxTokenNum)
	d.v.Positive(lp+".adapt_token_num", l.AdaptTokenNum)
	d.v.PositiveFloat(lp+".max_dur", l.MaxDur)
	d.v.NonNegativeFloat(lp+".min_dur", l.MinDur)
	d.v.PositiveFloat(lp+".adapt_dur", l.AdaptDur)
	if l.BatchMode != "" {
		d.tag(lp+".batch_mode", "batch_mode", l.BatchMode, d.reg.BatchModes)
	}
	d.v.NonNegative(lp+".min_batch_size", l.MinBatchSize)

	format, ok := d.reg.DataFormats[c.Fmt]
	if !ok {
		return
	}
	for _, s := range []struct {
		name  string
		split DataSplit
	}{{"train", c.Train}, {"valid", c.Valid}} {
		sp := path + "." + s.name
		if format.Raw {
			d.v.NotEmpty(sp+".wav_scp", s.split.WavScp)
		} else {
			d.v.NotEmpty(sp+".feats_scp", s.split.FeatsScp)
		}
		d.v.NotEmpty(sp+".utt2dur", s.split.Utt2Dur)
		d.v.NotEmpty(sp+".text", s.split.Text)
	}
}

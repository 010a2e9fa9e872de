// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

// Clone returns an alias-free deep copy of a TrainingConfig.
func Clone(in *TrainingConfig) *TrainingConfig {
	if in == nil {
		return nil
	}
	out := *in

	out.NnetConf = cloneNetConf(in.NnetConf)
	out.TaskConf = cloneTaskConf(in.TaskConf)
	if in.AsrTransform != nil {
		t := *in.AsrTransform
		out.AsrTransform = &t
	}
	if in.EnhTransform != nil {
		t := *in.EnhTransform
		out.EnhTransform = &t
	}

	// --- Trainer kwargs and metric list ---
	out.TrainerConf.OptimizerKwargs = cloneKwargs(in.TrainerConf.OptimizerKwargs)
	out.TrainerConf.LRSchedulerKwargs = cloneKwargs(in.TrainerConf.LRSchedulerKwargs)
	out.TrainerConf.ReportMetrics = cloneStringSlice(in.TrainerConf.ReportMetrics)

	return &out
}

func cloneNetConf(in NetConf) NetConf {
	switch c := in.(type) {
	case *AttNetConf:
		out := *c
		out.ModelVocab = c.ModelVocab.clone()
		return &out
	case *XfmrNetConf:
		out := *c
		out.ModelVocab = c.ModelVocab.clone()
		return &out
	case *XfmrTransducerNetConf:
		out := *c
		out.ModelVocab = c.ModelVocab.clone()
		return &out
	case *RNNTransducerNetConf:
		out := *c
		out.ModelVocab = c.ModelVocab.clone()
		return &out
	}
	return in
}

func cloneTaskConf(in TaskConf) TaskConf {
	switch c := in.(type) {
	case *CtcXentTaskConf:
		out := *c
		out.Blank = cloneIntPtr(c.Blank)
		return &out
	case *TransducerTaskConf:
		return &TransducerTaskConf{Blank: cloneIntPtr(c.Blank)}
	case *CtcTaskConf:
		return &CtcTaskConf{Blank: cloneIntPtr(c.Blank)}
	}
	return in
}

func (m ModelVocab) clone() ModelVocab {
	return ModelVocab{VocabSize: m.VocabSize, SOS: cloneIntPtr(m.SOS), EOS: cloneIntPtr(m.EOS)}
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStringSlice(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// cloneKwargs copies decoded kwargs, including nested lists (preserve nil).
func cloneKwargs(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneAny(v)
	}
	return out
}

func cloneAny(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneAny(t[i])
		}
		return out
	case map[string]any:
		return cloneKwargs(t)
	}
	return v
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnhFeatureStages lists the tokens an enh_transform feats pipeline may contain.
var EnhFeatureStages = []string{"spectrogram", "abs", "mel", "log", "cmvn", "aug", "ipd"}

// Tokens splits the feats pipeline into its stages.
func (t *EnhTransform) Tokens() []string {
	if strings.TrimSpace(t.Feats) == "" {
		return nil
	}
	return strings.Split(t.Feats, "-")
}

// IPDPairs parses ipd_index into microphone index pairs.
func (t *EnhTransform) IPDPairs() ([][2]int, error) {
	if strings.TrimSpace(t.IPDIndex) == "" {
		return nil, nil
	}
	var pairs [][2]int
	for _, raw := range strings.Split(t.IPDIndex, ";") {
		left, right, ok := strings.Cut(strings.TrimSpace(raw), ",")
		if !ok {
			return nil, fmt.Errorf("pair %q is not \"i,j\"", raw)
		}
		i, err := strconv.Atoi(strings.TrimSpace(left))
		if err != nil {
			return nil, fmt.Errorf("pair %q: %w", raw, err)
		}
		j, err := strconv.Atoi(strings.TrimSpace(right))
		if err != nil {
			return nil, fmt.Errorf("pair %q: %w", raw, err)
		}
		if i < 0 || j < 0 || i == j {
			return nil, fmt.Errorf("pair %q must name two distinct channels >= 0", raw)
		}
		pairs = append(pairs, [2]int{i, j})
	}
	return pairs, nil
}

func (t *EnhTransform) checkDomains(d *domainChecker, path string) {
	tokens := t.Tokens()
	if len(tokens) == 0 {
		d.issue(IssueOutOfDomain, path+".feats", "feature pipeline cannot be empty", t.Feats)
	}
	for _, tok := range tokens {
		d.tag(path+".feats", "enhancement stage", tok, EnhFeatureStages)
	}
	d.v.Positive(path+".sr", t.SampleRate)
	d.v.Positive(path+".frame_len", t.FrameLen)
	d.v.Positive(path+".frame_hop", t.FrameHop)
	d.tag(path+".window", "window", t.Window, d.reg.Windows)
	d.v.Positive(path+".num_mels", t.NumMels)
	d.v.Probability(path+".aug_prob", t.AugProb)
	if _, err := t.IPDPairs(); err != nil {
		d.issue(IssueOutOfDomain, path+".ipd_index", err.Error(), t.IPDIndex)
	}
}

// enhTransform checks the front-end against the data format and its own
// stage order.
func (c *crossChecker) enhTransform(cfg *TrainingConfig) {
	t := cfg.EnhTransform
	if t == nil {
		return
	}
	if format, ok := c.reg.DataFormats[cfg.DataConf.Fmt]; ok && !format.Raw {
		c.v.AddError("enh_transform",
			fmt.Sprintf("needs waveforms but data_conf.fmt %s provides extracted features", format.Tag), nil)
	}
	if t.FrameHop > t.FrameLen {
		c.v.AddError("enh_transform.frame_hop",
			fmt.Sprintf("must not exceed frame_len (%d), got %d", t.FrameLen, t.FrameHop),
			t.FrameHop)
	}
	tokens := t.Tokens()
	if len(tokens) > 0 && tokens[0] != "spectrogram" {
		c.v.AddError("enh_transform.feats",
			fmt.Sprintf("pipeline must start with spectrogram, got %q", tokens[0]), t.Feats)
	}
	if contains(tokens, "ipd") && strings.TrimSpace(t.IPDIndex) == "" {
		c.v.AddError("enh_transform.ipd_index", "required by the ipd stage", t.IPDIndex)
	}
}

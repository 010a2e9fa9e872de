// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"math/bits"
	"strings"
)

// FeatureStages lists the tokens a feats pipeline may contain.
var FeatureStages = []string{
	"spectrogram", "fbank", "mfcc", "mel", "log", "abs",
	"dct", "cmvn", "aug", "splice", "delta",
}

// waveformStages consume raw audio and cannot run on extracted features.
var waveformStages = []string{"spectrogram", "fbank", "mfcc"}

// Tokens splits the feats pipeline into its stages.
func (t *AsrTransform) Tokens() []string {
	if strings.TrimSpace(t.Feats) == "" {
		return nil
	}
	return strings.Split(t.Feats, "-")
}

type featState int

const (
	stateWave featState = iota
	stateSpectrum
	stateMel
	stateFrames
)

func (s featState) String() string {
	switch s {
	case stateWave:
		return "waveform"
	case stateSpectrum:
		return "linear spectrum"
	case stateMel:
		return "mel spectrum"
	default:
		return "feature frames"
	}
}

// FeatureShape is the result of running the pipeline symbolically.
type FeatureShape struct {
	// Dim is the per-frame feature dimension. Zero when it cannot be
	// derived, e.g. for pre-extracted features of unknown size.
	Dim int
	// DownsampleRate is the frame subsampling applied by splice.
	DownsampleRate int
}

// Shape derives the output feature dimension of the pipeline. When
// extracted is set the pipeline starts from pre-computed feature frames.
// It fails when a stage is missing the input it needs.
func (t *AsrTransform) Shape(extracted bool) (FeatureShape, error) {
	state := stateWave
	dim := 0
	if extracted {
		state = stateFrames
	}
	shape := FeatureShape{DownsampleRate: 1}

	need := func(tok string, ok bool, want string) error {
		if ok {
			return nil
		}
		return fmt.Errorf("stage %q needs %s input, got %s", tok, want, state)
	}

	for _, tok := range t.Tokens() {
		var err error
		switch tok {
		case "spectrogram":
			if err = need(tok, state == stateWave, "waveform"); err == nil {
				state, dim = stateSpectrum, t.fftBins()
			}
		case "fbank":
			if err = need(tok, state == stateWave, "waveform"); err == nil {
				state, dim = stateMel, t.NumMels
			}
		case "mfcc":
			if err = need(tok, state == stateWave, "waveform"); err == nil {
				state, dim = stateFrames, t.NumCeps
			}
		case "mel":
			if err = need(tok, state == stateSpectrum, "linear spectrum"); err == nil {
				state, dim = stateMel, t.NumMels
			}
		case "dct":
			if err = need(tok, state == stateMel, "mel spectrum"); err == nil {
				state, dim = stateFrames, t.NumCeps
			}
		case "log", "abs", "cmvn", "aug":
			err = need(tok, state != stateWave, "frame")
		case "splice":
			if err = need(tok, state != stateWave, "frame"); err == nil {
				state = stateFrames
				dim *= 1 + t.LeftContext + t.RightContext
				shape.DownsampleRate = t.DownsampleRate
			}
		case "delta":
			if err = need(tok, state != stateWave, "frame"); err == nil {
				state = stateFrames
				dim *= 1 + t.DeltaOrder
			}
		default:
			err = fmt.Errorf("unknown stage %q", tok)
		}
		if err != nil {
			return shape, err
		}
	}
	if state == stateWave {
		return shape, fmt.Errorf("pipeline %q produces no features", t.Feats)
	}
	shape.Dim = dim
	return shape, nil
}

// fftBins is the number of linear frequency bins of one STFT frame.
func (t *AsrTransform) fftBins() int {
	n := t.FrameLen
	if t.RoundPowOfTwo && n > 1 {
		n = 1 << bits.Len(uint(n-1))
	}
	return n/2 + 1
}

// usesCepstra reports whether the pipeline computes cepstral coefficients.
func (t *AsrTransform) usesCepstra() bool {
	for _, tok := range t.Tokens() {
		if tok == "mfcc" || tok == "dct" {
			return true
		}
	}
	return false
}

func (t *AsrTransform) waveformTokens() []string {
	var out []string
	for _, tok := range t.Tokens() {
		if contains(waveformStages, tok) {
			out = append(out, tok)
		}
	}
	return out
}

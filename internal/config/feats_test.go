// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsrTransform_Tokens(t *testing.T) {
	tr := DefaultAsrTransform()
	require.Equal(t, []string{"fbank", "log", "cmvn"}, tr.Tokens())

	tr.Feats = "  "
	require.Nil(t, tr.Tokens())
}

func TestAsrTransform_Shape(t *testing.T) {
	tests := []struct {
		name      string
		feats     string
		extracted bool
		tweak     func(*AsrTransform)
		dim       int
		dsRate    int
	}{
		{name: "filter bank", feats: "fbank-log-cmvn", dim: 80, dsRate: 1},
		{name: "spectrogram rounded to power of two", feats: "spectrogram-log", dim: 257, dsRate: 1},
		{
			name:   "spectrogram without rounding",
			feats:  "spectrogram-log",
			tweak:  func(tr *AsrTransform) { tr.RoundPowOfTwo = false },
			dim:    201,
			dsRate: 1,
		},
		{name: "mel from spectrum", feats: "spectrogram-mel-log", dim: 80, dsRate: 1},
		{name: "cepstra via dct", feats: "spectrogram-mel-log-dct", dim: 13, dsRate: 1},
		{name: "mfcc", feats: "mfcc-cmvn", dim: 13, dsRate: 1},
		{
			name:   "splice widens and subsamples",
			feats:  "fbank-log-splice",
			tweak:  func(tr *AsrTransform) { tr.LeftContext, tr.RightContext, tr.DownsampleRate = 2, 2, 3 },
			dim:    400,
			dsRate: 3,
		},
		{name: "delta appends derivatives", feats: "fbank-log-delta", dim: 240, dsRate: 1},
		{name: "extracted features have unknown size", feats: "cmvn-splice", extracted: true, dim: 0, dsRate: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := DefaultAsrTransform()
			tr.Feats = tt.feats
			if tt.tweak != nil {
				tt.tweak(&tr)
			}
			shape, err := tr.Shape(tt.extracted)
			require.NoError(t, err)
			require.Equal(t, FeatureShape{Dim: tt.dim, DownsampleRate: tt.dsRate}, shape)
		})
	}
}

func TestAsrTransform_ShapeErrors(t *testing.T) {
	tests := []struct {
		name      string
		feats     string
		extracted bool
		wantMsg   string
	}{
		{"frame stage on waveform", "log-fbank", false, `stage "log" needs frame input`},
		{"mel without spectrum", "mel-log", false, `stage "mel" needs linear spectrum input`},
		{"mel after filter bank", "fbank-mel", false, `stage "mel" needs linear spectrum input`},
		{"dct without mel", "spectrogram-dct", false, `stage "dct" needs mel spectrum input`},
		{"extraction on extracted features", "fbank-cmvn", true, `stage "fbank" needs waveform input`},
		{"empty pipeline", "", false, "produces no features"},
		{"unknown stage", "fbank-pitch", false, `unknown stage "pitch"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := DefaultAsrTransform()
			tr.Feats = tt.feats
			_, err := tr.Shape(tt.extracted)
			require.ErrorContains(t, err, tt.wantMsg)
		})
	}
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const enhSection = `
enh_transform:
  feats: "spectrogram-log-cmvn-ipd"
  frame_len: 400
  frame_hop: 128
  window: "hann"
  ipd_index: "0,1;0,2"
`

func enhRecipe(t *testing.T) string {
	t.Helper()
	return fixture(t, "att_ctc_xent.yaml") + enhSection
}

func TestLoad_EnhTransform(t *testing.T) {
	cfg, err := Parse([]byte(enhRecipe(t)))
	require.NoError(t, err)
	require.NotNil(t, cfg.EnhTransform)

	enh := cfg.EnhTransform
	require.Equal(t, []string{"spectrogram", "log", "cmvn", "ipd"}, enh.Tokens())
	require.Equal(t, 400, enh.FrameLen)
	require.Equal(t, "hann", enh.Window)
	// omitted keys take the front-end defaults
	require.Equal(t, 16000, enh.SampleRate)
	require.True(t, enh.CosIPD)

	pairs, err := enh.IPDPairs()
	require.NoError(t, err)
	require.Equal(t, [][2]int{{0, 1}, {0, 2}}, pairs)

	require.NoError(t, Validate(cfg))
}

func TestLoad_EnhTransformAbsentByDefault(t *testing.T) {
	require.Nil(t, loadFixture(t, "att_ctc_xent.yaml").EnhTransform)
}

func TestLoad_EnhTransformSchemaIssues(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		field    string
		sentinel error
	}{
		{"unknown key", `window: "hann"`, `window: "hann"` + "\n  beamformer: mvdr", "enh_transform.beamformer", ErrUnknownConfigField},
		{"missing feats", `  feats: "spectrogram-log-cmvn-ipd"` + "\n", "", "enh_transform.feats", ErrMissingConfigField},
		{"unknown stage", "cmvn-ipd", "cmvn-beam", "enh_transform.feats", ErrUnknownTag},
		{"unknown window", `window: "hann"`, `window: "kaiser"`, "enh_transform.window", ErrUnknownTag},
		{"pair with one channel", `ipd_index: "0,1;0,2"`, `ipd_index: "0,1;2"`, "enh_transform.ipd_index", ErrOutOfDomain},
		{"pair of the same channel", `ipd_index: "0,1;0,2"`, `ipd_index: "1,1"`, "enh_transform.ipd_index", ErrOutOfDomain},
		{"zero hop", "frame_hop: 128", "frame_hop: 0", "enh_transform.frame_hop", ErrOutOfDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(mutate(t, enhRecipe(t), tt.old, tt.new)))
			se := requireSchemaError(t, err)
			require.ErrorIs(t, err, tt.sentinel)
			require.Equal(t, []string{tt.field}, se.Fields())
		})
	}
}

func TestValidate_EnhTransform(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *TrainingConfig)
		fields []string
	}{
		{
			name: "extracted features",
			mutate: func(cfg *TrainingConfig) {
				cfg.DataConf.Fmt = "am@kaldi"
				cfg.AsrTransform = nil
			},
			fields: []string{"enh_transform"},
		},
		{
			name:   "hop longer than frame",
			mutate: func(cfg *TrainingConfig) { cfg.EnhTransform.FrameHop = 512 },
			fields: []string{"enh_transform.frame_hop"},
		},
		{
			name:   "pipeline without spectrogram",
			mutate: func(cfg *TrainingConfig) { cfg.EnhTransform.Feats = "log-cmvn" },
			fields: []string{"enh_transform.feats"},
		},
		{
			name:   "ipd stage without pairs",
			mutate: func(cfg *TrainingConfig) { cfg.EnhTransform.IPDIndex = "" },
			fields: []string{"enh_transform.ipd_index"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(enhRecipe(t)))
			require.NoError(t, err)
			tt.mutate(cfg)
			requireValidationFields(t, Validate(cfg), tt.fields...)
		})
	}
}

func TestEnhTransform_DiffCloneDump(t *testing.T) {
	cfg, err := Parse([]byte(enhRecipe(t)))
	require.NoError(t, err)

	clone := Clone(cfg)
	clone.EnhTransform.IPDIndex = "0,3"
	require.Equal(t, "0,1;0,2", cfg.EnhTransform.IPDIndex)

	summary := Diff(cfg, clone)
	require.Equal(t, []string{"enh_transform.ipd_index"}, summary.ChangedFields)
	require.True(t, summary.ArchitectureChanged)

	plain := Clone(cfg)
	plain.EnhTransform = nil
	summary = Diff(plain, cfg)
	require.Equal(t, []string{"enh_transform"}, summary.ChangedFields)
	require.True(t, summary.ArchitectureChanged)

	require.NoError(t, BindVocab(cfg, dict(t, fullDict)))
	path, err := Dump(cfg, t.TempDir())
	require.NoError(t, err)
	reloaded, err := LoadValidated(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, reloaded); diff != "" {
		t.Errorf("dumped recipe differs (-want +got):\n%s", diff)
	}
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDump_ReloadsToSameConfig(t *testing.T) {
	for _, name := range []string{"xfmr_transducer.yaml", "att_ctc_xent.yaml", "xfmr_ctc_kaldi.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg := loadFixture(t, name)
			require.NoError(t, BindVocab(cfg, dict(t, fullDict)))

			path, err := Dump(cfg, t.TempDir())
			require.NoError(t, err)
			require.Equal(t, DumpFileName, filepath.Base(path))

			reloaded, err := LoadValidated(path)
			require.NoError(t, err)
			if diff := cmp.Diff(cfg, reloaded); diff != "" {
				t.Errorf("dumped recipe differs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshal_WritesEffectiveDefaults(t *testing.T) {
	cfg := loadFixture(t, "xfmr_ctc_kaldi.yaml")

	out, err := Marshal(cfg)
	require.NoError(t, err)
	s := string(out)
	require.Contains(t, s, "nnet: asr@xfmr\n")
	require.Contains(t, s, "  frame_len: 400\n")
	require.Contains(t, s, "  no_impr: 6\n")
	// merged split keys are written out explicitly
	require.Contains(t, s, "    feats_scp: data/wsj/train/feats.scp\n    utt2dur: data/wsj/train/utt2dur\n    text: data/wsj/dev/text\n")
	require.NotContains(t, s, "<<")
}

func TestDump_ReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, DumpFileName)
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0o600))

	_, err := Dump(loadFixture(t, "att_ctc_xent.yaml"), dir)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.NotEqual(t, "stale", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDump_MissingDirectory(t *testing.T) {
	_, err := Dump(loadFixture(t, "att_ctc_xent.yaml"), filepath.Join(t.TempDir(), "missing"))
	require.ErrorContains(t, err, "dump recipe")
}

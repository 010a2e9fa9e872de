// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ManuGH/asrconf/internal/vocab"
	"github.com/stretchr/testify/require"
)

func dict(t *testing.T, content string) *vocab.Dict {
	t.Helper()
	d, err := vocab.Parse(strings.NewReader(content))
	require.NoError(t, err)
	return d
}

const fullDict = "<blank> 0\n<sos> 1\n<eos> 2\na 3\nb 4\n"

func TestBindVocab_Transducer(t *testing.T) {
	cfg := loadFixture(t, "xfmr_transducer.yaml")

	require.NoError(t, BindVocab(cfg, dict(t, fullDict)))

	mv := cfg.NnetConf.Vocab()
	require.Equal(t, 5, mv.VocabSize)
	require.Equal(t, 1, *mv.SOS)
	require.Equal(t, 2, *mv.EOS)
	require.Equal(t, 0, *cfg.TaskConf.(*TransducerTaskConf).Blank)
}

func TestBindVocab_TransducerNeedsNoSentenceMarkers(t *testing.T) {
	cfg := loadFixture(t, "xfmr_transducer.yaml")

	require.NoError(t, BindVocab(cfg, dict(t, "<blank> 0\na 1\n")))
	require.Nil(t, cfg.NnetConf.Vocab().SOS)
	require.Equal(t, 2, cfg.NnetConf.Vocab().VocabSize)
}

func TestBindVocab_MissingSymbols(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
		dict    string
		fields  []string
	}{
		{"attention without markers", "att_ctc_xent.yaml", "<blank> 0\na 1\n", []string{"nnet_conf.sos", "nnet_conf.eos"}},
		{"ctc branch without blank", "att_ctc_xent.yaml", "<sos> 0\n<eos> 1\na 2\n", []string{"task_conf.blank"}},
		{"transducer without blank", "xfmr_transducer.yaml", "a 0\nb 1\n", []string{"task_conf.blank"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadFixture(t, tt.fixture)
			err := BindVocab(cfg, dict(t, tt.dict))
			se := requireSchemaError(t, err)
			require.ErrorIs(t, err, ErrMissingConfigField)
			require.Equal(t, tt.fields, se.Fields())
		})
	}
}

func TestBindVocab_NoBlankWithoutCtcBranch(t *testing.T) {
	cfg := loadFixture(t, "att_ctc_xent.yaml")
	cfg.TaskConf.(*CtcXentTaskConf).CtcWeight = 0

	require.NoError(t, BindVocab(cfg, dict(t, "<sos> 0\n<eos> 1\na 2\n")))
	require.Nil(t, cfg.TaskConf.(*CtcXentTaskConf).Blank)
}

func TestLoader_WithVocab(t *testing.T) {
	dictPath := filepath.Join(t.TempDir(), "dict")
	require.NoError(t, os.WriteFile(dictPath, []byte(fullDict), 0o600))
	d, err := vocab.Load(dictPath)
	require.NoError(t, err)

	cfg, err := NewLoader(filepath.Join("testdata", "xfmr_ctc_kaldi.yaml")).WithVocab(d).LoadValidated()
	require.NoError(t, err)
	require.Equal(t, 5, cfg.NnetConf.Vocab().VocabSize)
	require.Equal(t, 0, *cfg.TaskConf.(*CtcTaskConf).Blank)

	recipe := writeRecipe(t, fixture(t, "att_ctc_xent.yaml"))
	_, err = NewLoader(recipe).WithVocab(dict(t, "a 0\n")).Load()
	se := requireSchemaError(t, err)
	require.Equal(t, recipe, se.File)
}

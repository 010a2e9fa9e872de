// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package vocab

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse(strings.NewReader("<blank> 0\n<unk> 1\n\n<sos> 2\n<eos> 2\nA 3\n"))
	require.NoError(t, err)
	require.Equal(t, 5, d.Size())

	idx, ok := d.Index(SOS)
	require.True(t, ok)
	require.Equal(t, 2, idx)

	idx, ok = d.Index(Blank)
	require.True(t, ok)
	require.Equal(t, 0, idx)

	_, ok = d.Index("B")
	require.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"missing index", "A\n", "expected \"unit index\""},
		{"extra column", "A 1 2\n", "expected \"unit index\""},
		{"non numeric", "A one\n", "invalid index"},
		{"negative", "A -1\n", "must be >= 0"},
		{"duplicate unit", "A 1\nA 2\n", "duplicate unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParse_NormalizesUnits(t *testing.T) {
	// "e" + U+0301 and U+00E9 are the same unit.
	_, err := Parse(strings.NewReader("e\u0301 1\n\u00e9 2\n"))
	require.ErrorContains(t, err, "duplicate unit")

	d, err := Parse(strings.NewReader("caf\u00e9 4\n"))
	require.NoError(t, err)
	idx, ok := d.Index("cafe\u0301")
	require.True(t, ok)
	require.Equal(t, 4, idx)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader("\n\n"))
	require.True(t, errors.Is(err, ErrEmptyDict))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict")
	require.NoError(t, os.WriteFile(path, []byte("<sos> 0\n<eos> 1\n"), 0o600))

	d, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, d.Size())

	_, err = Load(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

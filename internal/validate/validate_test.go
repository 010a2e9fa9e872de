// SPDX-License-Identifier: MIT

package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBounds(t *testing.T) {
	tests := []struct {
		name  string
		check func(v *Validator)
		ok    bool
	}{
		{"probability zero", func(v *Validator) { v.Probability("p", 0) }, true},
		{"probability one", func(v *Validator) { v.Probability("p", 1) }, true},
		{"probability above one", func(v *Validator) { v.Probability("p", 1.01) }, false},
		{"probability NaN", func(v *Validator) { v.Probability("p", math.NaN()) }, false},
		{"half-open zero", func(v *Validator) { v.HalfOpenUnit("p", 0) }, true},
		{"half-open one", func(v *Validator) { v.HalfOpenUnit("p", 1) }, false},
		{"half-open negative", func(v *Validator) { v.HalfOpenUnit("p", -0.1) }, false},
		{"positive int", func(v *Validator) { v.Positive("n", 1) }, true},
		{"zero int", func(v *Validator) { v.Positive("n", 0) }, false},
		{"non-negative zero", func(v *Validator) { v.NonNegative("n", 0) }, true},
		{"non-negative minus one", func(v *Validator) { v.NonNegative("n", -1) }, false},
		{"positive float", func(v *Validator) { v.PositiveFloat("f", 0.4) }, true},
		{"zero float", func(v *Validator) { v.PositiveFloat("f", 0) }, false},
		{"non-negative float", func(v *Validator) { v.NonNegativeFloat("f", 0) }, true},
		{"negative float", func(v *Validator) { v.NonNegativeFloat("f", -1e-9) }, false},
		{"non-negative NaN", func(v *Validator) { v.NonNegativeFloat("f", math.NaN()) }, false},
		{"positive infinity", func(v *Validator) { v.PositiveFloat("f", math.Inf(1)) }, false},
		{"non-negative infinity", func(v *Validator) { v.NonNegativeFloat("f", math.Inf(1)) }, false},
		{"probability minus infinity", func(v *Validator) { v.Probability("p", math.Inf(-1)) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			tt.check(v)
			require.Equal(t, tt.ok, v.IsValid(), "errors: %v", v.Errors())
		})
	}
}

func TestBounds_NonFiniteMessage(t *testing.T) {
	v := New()
	v.PositiveFloat("data_conf.loader.max_dur", math.Inf(1))
	require.Equal(t, "data_conf.loader.max_dur: must be a finite number, got +Inf", v.Errors()[0].Error())
}

func TestNotEmptyAndOneOf(t *testing.T) {
	v := New()
	v.NotEmpty("data_conf.train.text", "data/train/text")
	v.OneOf("asr_transform.window", "hamm", []string{"hann", "hamm"})
	require.True(t, v.IsValid())

	v.NotEmpty("data_conf.train.text", "  ")
	v.OneOf("asr_transform.window", "hanning", []string{"hann", "hamm"})
	require.Equal(t, []Error{
		{Field: "data_conf.train.text", Value: "  ", Message: "must not be empty"},
		{Field: "asr_transform.window", Value: "hanning", Message: `must be one of hann, hamm, got "hanning"`},
	}, v.Errors())
}

func TestErr_ReportsEveryFailure(t *testing.T) {
	v := New()
	require.NoError(t, v.Err())

	v.Positive("nnet_conf.input_size", 0)
	v.Probability("nnet_conf.enc_kwargs.dropout", 1.5)
	err := v.Err()
	require.Error(t, err)

	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, []string{"nnet_conf.input_size", "nnet_conf.enc_kwargs.dropout"}, ve.Fields())
	require.Equal(t,
		"nnet_conf.input_size: must be positive, got 0; nnet_conf.enc_kwargs.dropout: must be in [0, 1], got 1.5",
		err.Error())
}

func TestErr_IsSnapshot(t *testing.T) {
	v := New()
	v.Positive("a", 0)
	err := v.Err()

	v.Positive("b", 0)
	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Errors(), 1)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"info", LogLevelInfo, false},
		{"warn", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{" WARN ", LogLevelWarn, false},
		{"Debug", LogLevelDebug, false},
		{"trace", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLogLevel)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.True(t, got.IsValid())
		})
	}
}

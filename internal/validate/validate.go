// SPDX-License-Identifier: MIT

// Package validate accumulates field-level failures against dotted recipe
// paths and reports them together.
package validate

import (
	"fmt"
	"math"
	"strings"
)

// Error is one failed check.
type Error struct {
	Field   string // dotted field path, e.g. nnet_conf.enc_kwargs.att_dim
	Value   any
	Message string
}

func (e Error) Error() string {
	return e.Field + ": " + e.Message
}

// Validator collects failures in the order the checks ran.
type Validator struct {
	errors []Error
}

// ValidationError bundles the failures of one Validator run.
type ValidationError struct {
	errors []Error
}

func New() *Validator {
	return &Validator{}
}

// AddError records a failure that no helper below expresses.
func (v *Validator) AddError(field, message string, value any) {
	v.errors = append(v.errors, Error{Field: field, Value: value, Message: message})
}

func (v *Validator) IsValid() bool { return len(v.errors) == 0 }

// Errors returns the failures recorded so far. The slice is shared.
func (v *Validator) Errors() []Error { return v.errors }

// Err returns nil or a ValidationError holding a snapshot of the failures.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}
	return ValidationError{errors: append([]Error(nil), v.errors...)}
}

func (e ValidationError) Errors() []Error { return e.errors }

// Fields returns the field paths of the failures, in report order.
func (e ValidationError) Fields() []string {
	out := make([]string, len(e.errors))
	for i, err := range e.errors {
		out[i] = err.Field
	}
	return out
}

func (e ValidationError) Error() string {
	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

type number interface{ ~int | ~float64 }

// bound records a failure unless ok holds for a finite value. NaN and
// infinities never pass.
func bound[T number](v *Validator, field string, value T, ok bool, want string) {
	f := float64(value)
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		v.AddError(field, fmt.Sprintf("must be a finite number, got %v", value), value)
	case !ok:
		v.AddError(field, fmt.Sprintf("must be %s, got %v", want, value), value)
	}
}

// Probability checks value in [0, 1].
func (v *Validator) Probability(field string, value float64) {
	bound(v, field, value, value >= 0 && value <= 1, "in [0, 1]")
}

// HalfOpenUnit checks value in [0, 1).
func (v *Validator) HalfOpenUnit(field string, value float64) {
	bound(v, field, value, value >= 0 && value < 1, "in [0, 1)")
}

func (v *Validator) Positive(field string, value int) {
	bound(v, field, value, value > 0, "positive")
}

func (v *Validator) NonNegative(field string, value int) {
	bound(v, field, value, value >= 0, "non-negative")
}

func (v *Validator) PositiveFloat(field string, value float64) {
	bound(v, field, value, value > 0, "positive")
}

func (v *Validator) NonNegativeFloat(field string, value float64) {
	bound(v, field, value, value >= 0, "non-negative")
}

// NotEmpty checks that a string has a non-blank character.
func (v *Validator) NotEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "must not be empty", value)
	}
}

// OneOf checks value against a closed list.
func (v *Validator) OneOf(field, value string, allowed []string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of %s, got %q", strings.Join(allowed, ", "), value), value)
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ManuGH/asrconf/internal/validate"
)

var (
	// ErrUnknownConfigField classifies schema failures caused by unknown keys.
	// Use errors.Is(err, ErrUnknownConfigField) instead of string matching.
	ErrUnknownConfigField = errors.New("unknown config field")
	// ErrMissingConfigField classifies schema failures caused by absent required keys.
	ErrMissingConfigField = errors.New("missing config field")
	// ErrMistypedConfigField classifies values of the wrong YAML type.
	ErrMistypedConfigField = errors.New("mistyped config field")
	// ErrDuplicateConfigField classifies keys repeated within one mapping.
	ErrDuplicateConfigField = errors.New("duplicate config field")
	// ErrUnknownTag classifies names missing from the variant registry.
	ErrUnknownTag = errors.New("unknown tag")
	// ErrOutOfDomain classifies numbers outside their declared domain.
	ErrOutOfDomain = errors.New("value out of domain")
)

// ValidationError aggregates every cross-field invariant a recipe violates.
type ValidationError = validate.ValidationError

// IssueKind classifies a single schema issue.
type IssueKind int

const (
	IssueUnknownField IssueKind = iota
	IssueMissingField
	IssueMistyped
	IssueDuplicateField
	IssueUnknownTag
	IssueOutOfDomain
)

func (k IssueKind) sentinel() error {
	switch k {
	case IssueUnknownField:
		return ErrUnknownConfigField
	case IssueMissingField:
		return ErrMissingConfigField
	case IssueMistyped:
		return ErrMistypedConfigField
	case IssueDuplicateField:
		return ErrDuplicateConfigField
	case IssueUnknownTag:
		return ErrUnknownTag
	default:
		return ErrOutOfDomain
	}
}

// SchemaIssue is one shape violation at a dotted field path.
type SchemaIssue struct {
	Field   string
	Kind    IssueKind
	Message string
	Line    int // 1-based source line, 0 if unknown
}

func (i SchemaIssue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", i.Field, i.Line, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// SchemaError reports a well-formed document whose shape does not match the
// variant registry. It lists every issue found, not just the first.
type SchemaError struct {
	File   string
	Issues []SchemaIssue
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema error")
	if e.File != "" {
		b.WriteString(" in ")
		b.WriteString(e.File)
	}
	b.WriteString(": ")
	for i, issue := range e.Issues {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(issue.String())
	}
	return b.String()
}

// Is matches the sentinel of any contained issue kind.
func (e *SchemaError) Is(target error) bool {
	for _, issue := range e.Issues {
		if issue.Kind.sentinel() == target {
			return true
		}
	}
	return false
}

// Fields returns the field paths of all issues, in report order.
func (e *SchemaError) Fields() []string {
	out := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		out[i] = issue.Field
	}
	return out
}

// ParseError reports a document that is not well-formed YAML.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("parse error: %v", e.Err)
	}
	return fmt.Sprintf("parse error in %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

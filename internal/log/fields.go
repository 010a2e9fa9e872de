// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	FieldEvent     = "event"
	FieldComponent = "component"

	// Recipe fields
	FieldRecipe     = "recipe"
	FieldNnet       = "nnet"
	FieldTask       = "task"
	FieldFeats      = "feats"
	FieldIssueCount = "issue_count"
	FieldPath       = "path"
)

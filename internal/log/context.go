// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package log provides structured logging utilities.
package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey string

const recipeKey ctxKey = "recipe"

// ContextWithRecipe stores the recipe path being processed in the context.
func ContextWithRecipe(ctx context.Context, path string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, recipeKey, path)
}

// RecipeFromContext extracts the recipe path from context if present.
func RecipeFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(recipeKey).(string); ok {
		return v
	}
	return ""
}

// FromContext returns the base logger enriched with the recipe path from ctx.
func FromContext(ctx context.Context) zerolog.Logger {
	l := Base()
	if recipe := RecipeFromContext(ctx); recipe != "" {
		return l.With().Str(FieldRecipe, recipe).Logger()
	}
	return l
}

// WithComponentFromContext returns a logger annotated with the component
// name and enriched with the recipe path from ctx.
func WithComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	l := FromContext(ctx)
	return l.With().Str(FieldComponent, component).Logger()
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"sort"
	"strings"
)

type kwargKind int

const (
	kwPositive kwargKind = iota
	kwNonNegative
	kwProbability
	kwBool
	kwNumberList
	kwString
)

type kwargSpec struct {
	kind     kwargKind
	required bool
	choices  []string
}

// kwargsSchema lists the keyword arguments a named optimizer or scheduler
// accepts. Keys outside the schema are rejected.
type kwargsSchema map[string]kwargSpec

// with returns a copy of s extended (or overridden) by extra.
func (s kwargsSchema) with(extra kwargsSchema) kwargsSchema {
	out := make(kwargsSchema, len(s)+len(extra))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Keys returns the accepted keys in sorted order.
func (s kwargsSchema) Keys() []string {
	return sortedKeys(s)
}

func (s kwargsSchema) check(d *domainChecker, path, owner string, kwargs map[string]any) {
	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		field := path + "." + k
		spec, ok := s[k]
		if !ok {
			d.issue(IssueUnknownField, field,
				fmt.Sprintf("not accepted by %s (accepted: %s)", owner, strings.Join(s.Keys(), ", ")), kwargs[k])
			continue
		}
		spec.checkValue(d, field, kwargs[k])
	}
	for _, k := range s.Keys() {
		if _, ok := kwargs[k]; !ok && s[k].required {
			d.issue(IssueMissingField, path+"."+k, fmt.Sprintf("required by %s", owner), nil)
		}
	}
}

func (k kwargSpec) checkValue(d *domainChecker, field string, value any) {
	switch k.kind {
	case kwBool:
		if _, ok := value.(bool); !ok {
			d.issue(IssueMistyped, field, fmt.Sprintf("expected boolean, got %T", value), value)
		}
	case kwString:
		s, ok := value.(string)
		if !ok {
			d.issue(IssueMistyped, field, fmt.Sprintf("expected string, got %T", value), value)
			return
		}
		if len(k.choices) > 0 {
			d.v.OneOf(field, s, k.choices)
		}
	case kwNumberList:
		items, ok := value.([]any)
		if !ok || len(items) == 0 {
			d.issue(IssueMistyped, field, "expected a non-empty list of numbers", value)
			return
		}
		for i, item := range items {
			f, ok := toFloat(item)
			if !ok {
				d.issue(IssueMistyped, fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("expected number, got %T", item), item)
				continue
			}
			d.v.NonNegativeFloat(fmt.Sprintf("%s[%d]", field, i), f)
		}
	default:
		f, ok := toFloat(value)
		if !ok {
			d.issue(IssueMistyped, field, fmt.Sprintf("expected number, got %T", value), value)
			return
		}
		switch k.kind {
		case kwPositive:
			d.v.PositiveFloat(field, f)
		case kwNonNegative:
			d.v.NonNegativeFloat(field, f)
		case kwProbability:
			d.v.Probability(field, f)
		}
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

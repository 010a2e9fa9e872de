// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"reflect"
	"sort"
	"strings"
)

// ChangeSummary describes the result of comparing two recipes.
type ChangeSummary struct {
	ChangedFields []string // dotted yaml paths that changed
	// ArchitectureChanged is set when a change touches the network or one
	// of the feature transforms. Checkpoints of the old recipe cannot be
	// resumed.
	ArchitectureChanged bool
}

// Empty reports whether the recipes are equivalent.
func (s ChangeSummary) Empty() bool { return len(s.ChangedFields) == 0 }

var architectureSections = []string{"nnet", "nnet_conf", "asr_transform", "enh_transform"}

// Diff compares two configurations and returns a summary of changes.
func Diff(old, next *TrainingConfig) ChangeSummary {
	summary := ChangeSummary{}
	summary.compareStruct("", reflect.ValueOf(old).Elem(), reflect.ValueOf(next).Elem())
	return summary
}

func (s *ChangeSummary) compareStruct(prefix string, oldVal, nextVal reflect.Value) {
	for _, f := range fieldsOf(oldVal.Type()) {
		s.compareValue(joinPath(prefix, f.key), oldVal.FieldByIndex(f.index), nextVal.FieldByIndex(f.index))
	}
}

func (s *ChangeSummary) compareValue(fieldPath string, ov, nv reflect.Value) {
	// Handle pointers and variant records
	for ov.Kind() == reflect.Pointer || ov.Kind() == reflect.Interface {
		if ov.IsNil() && nv.IsNil() {
			return
		}
		if ov.IsNil() != nv.IsNil() {
			s.recordChange(fieldPath)
			return
		}
		ov, nv = ov.Elem(), nv.Elem()
		if ov.Type() != nv.Type() {
			s.recordChange(fieldPath)
			return
		}
	}

	switch ov.Kind() {
	case reflect.Struct:
		s.compareStruct(fieldPath, ov, nv)
	case reflect.Map:
		s.compareKwargs(fieldPath, ov, nv)
	default:
		if !reflect.DeepEqual(normalizeValue(ov), normalizeValue(nv)) {
			s.recordChange(fieldPath)
		}
	}
}

// compareKwargs reports changed keys of free-form kwargs maps one by one.
func (s *ChangeSummary) compareKwargs(fieldPath string, ov, nv reflect.Value) {
	keys := make(map[string]struct{})
	for _, k := range ov.MapKeys() {
		keys[k.String()] = struct{}{}
	}
	for _, k := range nv.MapKeys() {
		keys[k.String()] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		o := ov.MapIndex(reflect.ValueOf(k))
		n := nv.MapIndex(reflect.ValueOf(k))
		if !o.IsValid() || !n.IsValid() {
			s.recordChange(fieldPath + "." + k)
			continue
		}
		if !reflect.DeepEqual(normalizeAny(o.Interface()), normalizeAny(n.Interface())) {
			s.recordChange(fieldPath + "." + k)
		}
	}
}

func (s *ChangeSummary) recordChange(fieldPath string) {
	s.ChangedFields = append(s.ChangedFields, fieldPath)
	section, _, _ := strings.Cut(fieldPath, ".")
	if contains(architectureSections, section) {
		s.ArchitectureChanged = true
	}
}

// normalizeValue returns a canonical representation for specific types.
func normalizeValue(v reflect.Value) any {
	// Metric lists are sets: order and nil-vs-empty do not matter.
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.String {
		if v.Len() == 0 {
			return []string{}
		}
		raw := v.Interface().([]string)
		sorted := make([]string, len(raw))
		copy(sorted, raw)
		sort.Strings(sorted)
		return sorted
	}
	return v.Interface()
}

// normalizeAny makes 1 and 1.0 compare equal inside kwargs.
func normalizeAny(v any) any {
	if f, ok := toFloat(v); ok {
		return f
	}
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = normalizeAny(item)
		}
		return out
	}
	return v
}

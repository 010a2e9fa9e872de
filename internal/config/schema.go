// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// fieldSpec is one schema key derived from a struct field.
type fieldSpec struct {
	key      string
	index    []int
	typ      reflect.Type
	required bool
}

var fieldCache sync.Map // reflect.Type -> []fieldSpec

// fieldsOf flattens the yaml keys of a struct type, inline fields included,
// in declaration order.
func fieldsOf(t reflect.Type) []fieldSpec {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]fieldSpec)
	}
	var out []fieldSpec
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("yaml")
		name, opts, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if strings.Contains(opts, "inline") {
			for _, inner := range fieldsOf(f.Type) {
				inner.index = append([]int{i}, inner.index...)
				out = append(out, inner)
			}
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		out = append(out, fieldSpec{
			key:      name,
			index:    []int{i},
			typ:      f.Type,
			required: f.Tag.Get("schema") == "required",
		})
	}
	fieldCache.Store(t, out)
	return out
}

type mapEntry struct {
	key   *yaml.Node
	value *yaml.Node
}

// schemaWalker checks a document tree against the struct shapes of the
// variant registry and collects every issue it finds.
type schemaWalker struct {
	reg    *Registry
	issues []SchemaIssue
	lines  map[string]int
}

func newSchemaWalker(reg *Registry) *schemaWalker {
	return &schemaWalker{reg: reg, lines: make(map[string]int)}
}

func (w *schemaWalker) add(path string, kind IssueKind, line int, format string, args ...any) {
	w.issues = append(w.issues, SchemaIssue{
		Field:   path,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
	})
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	n = resolveAlias(n)
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// entries returns the key/value pairs of a mapping with merge keys expanded.
// Explicit keys win over merged ones. Repeated explicit keys are reported.
func (w *schemaWalker) entries(path string, n *yaml.Node) []mapEntry {
	return w.collect(path, n, true)
}

// keyLines returns the effective keys of a mapping and their source lines
// without reporting anything.
func (w *schemaWalker) keyLines(n *yaml.Node) map[string]int {
	out := make(map[string]int)
	for _, e := range w.collect("", n, false) {
		out[e.key.Value] = e.key.Line
	}
	return out
}

func (w *schemaWalker) collect(path string, n *yaml.Node, report bool) []mapEntry {
	var merged, explicit []mapEntry
	seen := make(map[string]int)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			merged = append(merged, w.mergeSources(path, v, report)...)
			continue
		}
		if first, dup := seen[k.Value]; dup {
			if report {
				w.add(joinPath(path, k.Value), IssueDuplicateField, k.Line,
					"key already defined at line %d", first)
			}
			continue
		}
		seen[k.Value] = k.Line
		explicit = append(explicit, mapEntry{key: k, value: v})
	}
	out := explicit
	for _, m := range merged {
		if _, ok := seen[m.key.Value]; ok {
			continue
		}
		seen[m.key.Value] = m.key.Line
		out = append(out, m)
	}
	return out
}

func (w *schemaWalker) mergeSources(path string, v *yaml.Node, report bool) []mapEntry {
	v = resolveAlias(v)
	switch v.Kind {
	case yaml.MappingNode:
		return w.collect(path, v, report)
	case yaml.SequenceNode:
		var out []mapEntry
		for _, item := range v.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.MappingNode {
				if report {
					w.add(path, IssueMistyped, item.Line, "merge source must be a mapping")
				}
				continue
			}
			out = append(out, w.collect(path, item, report)...)
		}
		return out
	default:
		if report {
			w.add(path, IssueMistyped, v.Line, "merge source must be a mapping")
		}
		return nil
	}
}

// walkStruct checks a mapping node against the fields of t and returns the
// value nodes by key.
func (w *schemaWalker) walkStruct(path string, n *yaml.Node, t reflect.Type) map[string]*yaml.Node {
	n = resolveAlias(n)
	if n.Kind != yaml.MappingNode {
		w.add(path, IssueMistyped, n.Line, "expected a mapping, got %s", describe(n))
		return nil
	}
	specs := fieldsOf(t)
	known := make(map[string]fieldSpec, len(specs))
	for _, s := range specs {
		known[s.key] = s
	}

	values := make(map[string]*yaml.Node)
	for _, e := range w.entries(path, n) {
		key := e.key.Value
		fieldPath := joinPath(path, key)
		spec, ok := known[key]
		if !ok {
			w.add(fieldPath, IssueUnknownField, e.key.Line, "unknown field")
			continue
		}
		values[key] = e.value
		w.lines[fieldPath] = e.key.Line
		if isNull(e.value) {
			continue
		}
		w.walkValue(fieldPath, e.value, spec.typ)
	}

	for _, s := range specs {
		if !s.required {
			continue
		}
		if v, ok := values[s.key]; !ok || isNull(v) {
			w.add(joinPath(path, s.key), IssueMissingField, n.Line, "required field is missing")
		}
	}
	return values
}

func (w *schemaWalker) walkValue(path string, n *yaml.Node, t reflect.Type) {
	n = resolveAlias(n)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Interface:
		// variant records are checked once their tag is known
		if t.NumMethod() == 0 {
			return
		}
		if n.Kind != yaml.MappingNode {
			w.add(path, IssueMistyped, n.Line, "expected a mapping, got %s", describe(n))
		}
	case reflect.Struct:
		w.walkStruct(path, n, t)
	case reflect.Map:
		if n.Kind != yaml.MappingNode {
			w.add(path, IssueMistyped, n.Line, "expected a mapping, got %s", describe(n))
			return
		}
		w.entries(path, n)
	case reflect.Slice:
		if n.Kind != yaml.SequenceNode {
			w.add(path, IssueMistyped, n.Line, "expected a list, got %s", describe(n))
			return
		}
		for i, item := range n.Content {
			w.walkValue(fmt.Sprintf("%s[%d]", path, i), item, t.Elem())
		}
	case reflect.String:
		w.expectScalar(path, n, "string", "!!str")
	case reflect.Int, reflect.Int64:
		w.expectScalar(path, n, "integer", "!!int")
	case reflect.Float64:
		w.expectScalar(path, n, "number", "!!int", "!!float")
	case reflect.Bool:
		if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str" && n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) == 0 && isYAML11Bool(n.Value) {
			return
		}
		w.expectScalar(path, n, "boolean", "!!bool")
	}
}

func (w *schemaWalker) expectScalar(path string, n *yaml.Node, want string, tags ...string) {
	if n.Kind == yaml.ScalarNode {
		tag := n.ShortTag()
		for _, t := range tags {
			if tag == t {
				return
			}
		}
	}
	w.add(path, IssueMistyped, n.Line, "expected %s, got %s", want, describe(n))
}

func isYAML11Bool(s string) bool {
	switch s {
	case "y", "Y", "yes", "Yes", "YES", "on", "On", "ON",
		"n", "N", "no", "No", "NO", "off", "Off", "OFF":
		return true
	}
	return false
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str":
			return fmt.Sprintf("string %q", n.Value)
		case "!!int":
			return "integer " + n.Value
		case "!!float":
			return "number " + n.Value
		case "!!bool":
			return "boolean " + n.Value
		case "!!null":
			return "null"
		}
		return n.ShortTag() + " " + n.Value
	}
	return "unsupported node"
}

// scalarString returns the value of a plain string scalar.
func scalarString(n *yaml.Node) (string, bool) {
	n = resolveAlias(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", false
	}
	return n.Value, true
}

// walkDocument checks the whole recipe and returns the resolved variants.
// Variants are nil when their tag could not be resolved.
func (w *schemaWalker) walkDocument(root *yaml.Node) (net *NetVariant, task *TaskVariant, format *DataFormat) {
	root = resolveAlias(root)
	if root.Kind != yaml.MappingNode {
		w.add("document", IssueMistyped, root.Line, "expected a mapping, got %s", describe(root))
		return nil, nil, nil
	}
	top := w.walkStruct("", root, reflect.TypeOf(TrainingConfig{}))

	if tag, ok := scalarString(top["nnet"]); ok {
		if v, found := w.reg.Nets[tag]; found {
			net = &v
		} else {
			w.add("nnet", IssueUnknownTag, w.lines["nnet"],
				"unknown nnet %q (expected one of: %s)", tag, strings.Join(w.reg.NetTags(), ", "))
		}
	}
	if net != nil {
		if n := resolveAlias(top["nnet_conf"]); n != nil && n.Kind == yaml.MappingNode {
			values := w.walkStruct("nnet_conf", n, reflect.TypeOf(net.newConf()).Elem())
			if net.Tag == NnetAtt {
				w.walkAttention(values)
			}
		}
	}

	if tag, ok := scalarString(top["task"]); ok {
		if v, found := w.reg.Tasks[tag]; found {
			task = &v
		} else {
			w.add("task", IssueUnknownTag, w.lines["task"],
				"unknown task %q (expected one of: %s)", tag, strings.Join(w.reg.TaskTags(), ", "))
		}
	}
	if task != nil {
		if n := resolveAlias(top["task_conf"]); n != nil && n.Kind == yaml.MappingNode {
			w.walkStruct("task_conf", n, reflect.TypeOf(task.newConf()).Elem())
		}
	}

	if dc := top["data_conf"]; !isNull(dc) && resolveAlias(dc).Kind == yaml.MappingNode {
		format = w.walkDataSplits(dc)
	}
	return net, task, format
}

// walkAttention applies the att_type specific key set to att_kwargs.
func (w *schemaWalker) walkAttention(values map[string]*yaml.Node) {
	attType, ok := scalarString(values["att_type"])
	if !ok {
		return
	}
	spec, found := w.reg.Attentions[attType]
	if !found {
		// reported as an unknown tag by the domain check
		return
	}
	kw := resolveAlias(values["att_kwargs"])
	if kw == nil || kw.Kind != yaml.MappingNode {
		return
	}
	present := w.keyLines(kw)
	for _, key := range []string{"att_channels", "att_kernel", "att_head"} {
		line, has := present[key]
		if has && !contains(spec.Required, key) {
			w.add("nnet_conf.att_kwargs."+key, IssueUnknownField, line,
				"not accepted by att_type %q", attType)
		}
	}
	for _, key := range spec.Required {
		if _, has := present[key]; !has {
			w.add("nnet_conf.att_kwargs."+key, IssueMissingField, kw.Line,
				"required by att_type %q", attType)
		}
	}
}

// walkDataSplits resolves data_conf.fmt and checks the per-format index key
// of each split.
func (w *schemaWalker) walkDataSplits(dc *yaml.Node) *DataFormat {
	dc = resolveAlias(dc)
	var fmtNode *yaml.Node
	splits := make(map[string]*yaml.Node)
	for _, e := range w.collect("", dc, false) {
		switch e.key.Value {
		case "fmt":
			fmtNode = e.value
		case "train", "valid":
			splits[e.key.Value] = resolveAlias(e.value)
		}
	}
	tag, ok := scalarString(fmtNode)
	if !ok {
		return nil
	}
	format, found := w.reg.DataFormats[tag]
	if !found {
		w.add("data_conf.fmt", IssueUnknownTag, fmtNode.Line,
			"unknown data format %q (expected one of: %s)", tag, strings.Join(sortedKeys(w.reg.DataFormats), ", "))
		return nil
	}
	for _, name := range []string{"train", "valid"} {
		split := splits[name]
		if split == nil || split.Kind != yaml.MappingNode {
			continue
		}
		present := w.keyLines(split)
		for _, otherTag := range sortedKeys(w.reg.DataFormats) {
			other := w.reg.DataFormats[otherTag]
			if other.SplitKey == format.SplitKey {
				continue
			}
			if line, has := present[other.SplitKey]; has {
				w.add("data_conf."+name+"."+other.SplitKey, IssueUnknownField, line,
					"not accepted by fmt %q", format.Tag)
			}
		}
		if _, has := present[format.SplitKey]; !has {
			w.add("data_conf."+name+"."+format.SplitKey, IssueMissingField, split.Line,
				"required by fmt %q", format.Tag)
		}
	}
	return &format
}

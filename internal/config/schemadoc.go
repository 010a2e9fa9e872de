// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// WriteSchemaDocs renders the recipe schema as Markdown: one table per
// record, derived from the same struct tags the loader checks, followed by
// the registered tags of every closed vocabulary.
func WriteSchemaDocs(w io.Writer) error {
	reg, err := GetRegistry()
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	fmt.Fprintln(buf, "# Training recipe schema")
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "Generated by `asrconf schema`. Keys not listed are rejected.")
	fmt.Fprintln(buf)

	renderRecord(buf, "", reflect.TypeOf(TrainingConfig{}), reflect.Value{})
	for _, tag := range reg.NetTags() {
		fmt.Fprintf(buf, "## `nnet_conf` for `%s`\n\n", tag)
		fmt.Fprintf(buf, "**enc_type:** %s\n\n", joinCode(reg.Nets[tag].EncTypes))
		renderRecord(buf, "nnet_conf", reflect.TypeOf(reg.Nets[tag].newConf()).Elem(), reflect.Value{})
	}
	for _, tag := range reg.TaskTags() {
		fmt.Fprintf(buf, "## `task_conf` for `%s`\n\n", tag)
		renderRecord(buf, "task_conf", reflect.TypeOf(reg.Tasks[tag].newConf()).Elem(), reflect.Value{})
	}
	fmt.Fprintln(buf, "## `asr_transform`")
	fmt.Fprintln(buf)
	renderRecord(buf, "asr_transform", reflect.TypeOf(AsrTransform{}), reflect.ValueOf(DefaultAsrTransform()))
	fmt.Fprintln(buf, "## `enh_transform`")
	fmt.Fprintln(buf)
	renderRecord(buf, "enh_transform", reflect.TypeOf(EnhTransform{}), reflect.ValueOf(DefaultEnhTransform()))
	fmt.Fprintln(buf, "## `trainer_conf`")
	fmt.Fprintln(buf)
	renderRecord(buf, "trainer_conf", reflect.TypeOf(TrainerConf{}), reflect.ValueOf(DefaultTrainerConf()))
	fmt.Fprintln(buf, "## `data_conf`")
	fmt.Fprintln(buf)
	renderRecord(buf, "data_conf", reflect.TypeOf(DataConf{}), reflect.Value{})

	fmt.Fprintln(buf, "## Tags")
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "| Vocabulary | Values |")
	fmt.Fprintln(buf, "|---|---|")
	fmt.Fprintf(buf, "| `nnet` | %s |\n", joinCode(reg.NetTags()))
	fmt.Fprintf(buf, "| `task` | %s |\n", joinCode(reg.TaskTags()))
	fmt.Fprintf(buf, "| `asr_transform.feats` stages | %s |\n", joinCode(FeatureStages))
	fmt.Fprintf(buf, "| `enh_transform.feats` stages | %s |\n", joinCode(EnhFeatureStages))
	fmt.Fprintf(buf, "| `asr_transform.window`, `enh_transform.window` | %s |\n", joinCode(reg.Windows))
	fmt.Fprintf(buf, "| `rnn`, `dec_rnn` | %s |\n", joinCode(reg.RNNTypes))
	fmt.Fprintf(buf, "| `proj_layer` | %s |\n", joinCode(reg.ProjLayers))
	fmt.Fprintf(buf, "| `report_metrics` | %s |\n", joinCode(reg.Metrics))
	fmt.Fprintf(buf, "| `data_conf.loader.batch_mode` | %s |\n", joinCode(reg.BatchModes))
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "### Attention types")
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "| `att_type` | Required `att_kwargs` besides `att_dim` |")
	fmt.Fprintln(buf, "|---|---|")
	for _, name := range sortedKeys(reg.Attentions) {
		fmt.Fprintf(buf, "| `%s` | %s |\n", name, joinCode(reg.Attentions[name].Required))
	}
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "### Optimizers")
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "| `optimizer` | `optimizer_kwargs` |")
	fmt.Fprintln(buf, "|---|---|")
	for _, name := range sortedKeys(reg.Optimizers) {
		fmt.Fprintf(buf, "| `%s` | %s |\n", name, kwargsCell(reg.Optimizers[name].Kwargs))
	}
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "### Learning rate schedulers")
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "| `lr_scheduler` | `lr_scheduler_period` | `lr_scheduler_kwargs` |")
	fmt.Fprintln(buf, "|---|---|---|")
	for _, name := range sortedKeys(reg.Schedulers) {
		s := reg.Schedulers[name]
		fmt.Fprintf(buf, "| `%s` | %s | %s |\n", name, joinCode(s.Periods), kwargsCell(s.Kwargs))
	}
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "### Data formats")
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "| `fmt` | Split index key |")
	fmt.Fprintln(buf, "|---|---|")
	for _, name := range sortedKeys(reg.DataFormats) {
		fmt.Fprintf(buf, "| `%s` | `%s` |\n", name, reg.DataFormats[name].SplitKey)
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// renderRecord writes the key table of t and then one table per nested record.
func renderRecord(buf *bytes.Buffer, path string, t reflect.Type, defaults reflect.Value) {
	specs := fieldsOf(t)
	withDefaults := defaults.IsValid()

	if withDefaults {
		fmt.Fprintln(buf, "| Key | Type | Required | Default |")
		fmt.Fprintln(buf, "|---|---|:---:|---|")
	} else {
		fmt.Fprintln(buf, "| Key | Type | Required |")
		fmt.Fprintln(buf, "|---|---|:---:|")
	}
	var nested []fieldSpec
	for _, s := range specs {
		required := ""
		if s.required {
			required = "✓"
		}
		if withDefaults {
			fmt.Fprintf(buf, "| `%s` | %s | %s | %s |\n", s.key, typeName(s.typ), required,
				defaultCell(defaults.FieldByIndex(s.index)))
		} else {
			fmt.Fprintf(buf, "| `%s` | %s | %s |\n", s.key, typeName(s.typ), required)
		}
		// top-level sections get their own headings
		if path != "" && s.typ.Kind() == reflect.Struct {
			nested = append(nested, s)
		}
	}
	fmt.Fprintln(buf)

	for _, s := range nested {
		fmt.Fprintf(buf, "### `%s`\n\n", joinPath(path, s.key))
		renderRecord(buf, joinPath(path, s.key), s.typ, reflect.Value{})
	}
}

func typeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int64:
		return "integer"
	case reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice:
		return "list of " + typeName(t.Elem())
	case reflect.Map:
		return "mapping"
	case reflect.Interface:
		return "mapping, by tag"
	case reflect.Struct:
		return "mapping"
	}
	return t.Kind().String()
}

func defaultCell(v reflect.Value) string {
	if v.IsZero() {
		return ""
	}
	return fmt.Sprintf("`%v`", v.Interface())
}

func kwargsCell(s kwargsSchema) string {
	keys := s.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = "`" + k + "`"
		if s[k].required {
			out[i] += " (required)"
		}
	}
	return strings.Join(out, ", ")
}

func joinCode(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = "`" + v + "`"
	}
	return strings.Join(out, ", ")
}

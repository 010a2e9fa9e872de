// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteSchemaDocs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSchemaDocs(&buf))
	doc := buf.String()

	require.Contains(t, doc, "# Training recipe schema")
	require.Contains(t, doc, "| `nnet` | string | ✓ |")
	require.Contains(t, doc, "| `task_conf` | mapping, by tag |  |")
	require.Contains(t, doc, "## `nnet_conf` for `asr@xfmr_transducer`")
	require.Contains(t, doc, "### `nnet_conf.dec_kwargs`")
	require.Contains(t, doc, "| `jot_dim` | integer | ✓ |")
	require.Contains(t, doc, "| `frame_len` | integer |  | `400` |")
	require.Contains(t, doc, "| `report_metrics` | list of string | ✓ |  |")
	require.Contains(t, doc, "| `loc` | `att_channels`, `att_kernel` |")
	require.Contains(t, doc, "| `sgd` | `dampening`, `lr` (required), `momentum`, `nesterov`, `weight_decay` |")
	require.Contains(t, doc, "| `warmup_noam_lr` | `step` |")
	require.Contains(t, doc, "| `am@kaldi` | `feats_scp` |")
	require.Contains(t, doc, "## `enh_transform`")
	require.Contains(t, doc, "| `frame_len` | integer |  | `512` |")
	require.Contains(t, doc, "`ipd`")
}

// SPDX-License-Identifier: MIT

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestRecordLoad(t *testing.T) {
	before := testutil.ToFloat64(recipeLoadsTotal.WithLabelValues(OutcomeSchemaError))
	issuesBefore := testutil.ToFloat64(recipeIssuesTotal.WithLabelValues("schema"))

	RecordLoad(OutcomeSchemaError, 3, 2*time.Millisecond)

	require.Equal(t, before+1, testutil.ToFloat64(recipeLoadsTotal.WithLabelValues(OutcomeSchemaError)))
	require.Equal(t, issuesBefore+3, testutil.ToFloat64(recipeIssuesTotal.WithLabelValues("schema")))
}

func loadDurationCount(t *testing.T) uint64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "asrconf_recipe_load_duration_seconds" {
			continue
		}
		require.Equal(t, dto.MetricType_HISTOGRAM, mf.GetType())
		return mf.GetMetric()[0].GetHistogram().GetSampleCount()
	}
	return 0
}

func TestRecordLoad_ObservesDuration(t *testing.T) {
	RecordLoad(OutcomeOK, 0, time.Millisecond)
	before := loadDurationCount(t)

	RecordLoad(OutcomeParseError, 1, 3*time.Millisecond)
	require.Equal(t, before+1, loadDurationCount(t))
}

func TestRecordValidation(t *testing.T) {
	okBefore := testutil.ToFloat64(recipeValidationsTotal.WithLabelValues(OutcomeOK))
	badBefore := testutil.ToFloat64(recipeValidationsTotal.WithLabelValues(OutcomeInvalid))
	issuesBefore := testutil.ToFloat64(recipeIssuesTotal.WithLabelValues("validation"))

	RecordValidation(0)
	RecordValidation(2)

	require.Equal(t, okBefore+1, testutil.ToFloat64(recipeValidationsTotal.WithLabelValues(OutcomeOK)))
	require.Equal(t, badBefore+1, testutil.ToFloat64(recipeValidationsTotal.WithLabelValues(OutcomeInvalid)))
	require.Equal(t, issuesBefore+2, testutil.ToFloat64(recipeIssuesTotal.WithLabelValues("validation")))
}

func TestIncReload(t *testing.T) {
	before := testutil.ToFloat64(reloadsTotal.WithLabelValues(OutcomeOK))
	IncReload(OutcomeOK)
	require.Equal(t, before+1, testutil.ToFloat64(reloadsTotal.WithLabelValues(OutcomeOK)))
}

func TestWriteTextfile(t *testing.T) {
	RecordLoad(OutcomeOK, 0, time.Millisecond)

	path := filepath.Join(t.TempDir(), "asrconf.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "asrconf_recipe_loads_total"))
}

// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus counters for recipe loading and
// validation. Batch runs export them as a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK            = "ok"
	OutcomeParseError    = "parse_error"
	OutcomeSchemaError   = "schema_error"
	OutcomeInvalid       = "invalid"
	OutcomeIOError       = "io_error"
	OutcomeReloadSkipped = "skipped"
)

var (
	recipeLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asrconf_recipe_loads_total",
		Help: "Recipe load attempts by outcome",
	}, []string{"outcome"}) // outcome=ok|parse_error|schema_error|io_error

	recipeValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asrconf_recipe_validations_total",
		Help: "Cross-field validation runs by outcome",
	}, []string{"outcome"}) // outcome=ok|invalid

	recipeIssuesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asrconf_recipe_issues_total",
		Help: "Individual issues reported, by stage",
	}, []string{"stage"}) // stage=schema|validation

	recipeLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "asrconf_recipe_load_duration_seconds",
		Help:    "Time spent parsing and checking one recipe",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asrconf_watch_reloads_total",
		Help: "Watcher reloads by outcome",
	}, []string{"outcome"}) // outcome=ok|invalid|skipped
)

// RecordLoad counts one load attempt and its duration.
func RecordLoad(outcome string, issues int, took time.Duration) {
	recipeLoadsTotal.WithLabelValues(outcome).Inc()
	recipeLoadDuration.Observe(took.Seconds())
	if issues > 0 {
		recipeIssuesTotal.WithLabelValues("schema").Add(float64(issues))
	}
}

// RecordValidation counts one Validate run.
func RecordValidation(issues int) {
	if issues == 0 {
		recipeValidationsTotal.WithLabelValues(OutcomeOK).Inc()
		return
	}
	recipeValidationsTotal.WithLabelValues(OutcomeInvalid).Inc()
	recipeIssuesTotal.WithLabelValues("validation").Add(float64(issues))
}

// IncReload counts one watcher reload.
func IncReload(outcome string) { reloadsTotal.WithLabelValues(outcome).Inc() }

// WriteTextfile writes the default registry in the text exposition format,
// for pickup by the node-exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetRegistry_Singleton(t *testing.T) {
	a, err := GetRegistry()
	require.NoError(t, err)
	b, err := GetRegistry()
	require.NoError(t, err)
	require.Same(t, a, b)
}

func TestRegistry_Variants(t *testing.T) {
	reg, err := GetRegistry()
	require.NoError(t, err)

	require.Equal(t, []string{NnetAtt, NnetTransducer, NnetXfmr, NnetXfmrTransducer}, reg.NetTags())
	require.Equal(t, []string{TaskCtc, TaskCtcXent, TaskTransducer}, reg.TaskTags())

	for tag, net := range reg.Nets {
		require.Equal(t, tag, net.newConf().Variant(), "nnet %s", tag)
		require.NotEmpty(t, net.EncTypes, "nnet %s", tag)
	}
	for tag, task := range reg.Tasks {
		require.Equal(t, tag, task.newConf().Variant(), "task %s", tag)
		require.NotEmpty(t, task.Families, "task %s", tag)
		require.Contains(t, task.Metrics, MetricLoss, "task %s", tag)
	}
}

func TestRegistry_EveryNetFamilyIsTrainable(t *testing.T) {
	reg, err := GetRegistry()
	require.NoError(t, err)

	for tag, net := range reg.Nets {
		trainable := false
		for _, task := range reg.Tasks {
			trainable = trainable || containsFamily(task.Families, net.Family)
		}
		require.True(t, trainable, "no task trains %s", tag)
	}
}

func TestRegistry_Schedulers(t *testing.T) {
	reg, err := GetRegistry()
	require.NoError(t, err)

	for name, sch := range reg.Schedulers {
		require.NotEmpty(t, sch.Periods, "scheduler %s", name)
		for _, p := range sch.Periods {
			require.Contains(t, []string{PeriodEpoch, PeriodStep}, p, "scheduler %s", name)
		}
	}
	require.Equal(t, []string{PeriodEpoch}, reg.Schedulers["reduce_lr"].Periods)
	require.Equal(t, []string{PeriodStep}, reg.Schedulers["warmup_noam_lr"].Periods)
}

func TestKwargsSchema_Keys(t *testing.T) {
	reg, err := GetRegistry()
	require.NoError(t, err)

	keys := reg.Optimizers["sgd"].Kwargs.Keys()
	require.True(t, sort.StringsAreSorted(keys))
	require.Equal(t, []string{"dampening", "lr", "momentum", "nesterov", "weight_decay"}, keys)
	require.True(t, reg.Optimizers["sgd"].Kwargs["lr"].required)
	require.False(t, reg.Optimizers["adam"].Kwargs["lr"].required)
}

// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package prism_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	prism "github.com/ptbase/prism-go"
)

func TestMetricsObserveBatch(t *testing.T) {
	chk := require.New(t)

	reg := prometheus.NewRegistry()
	ex := prism.NewExecutor()
	ex.SetMetrics(prism.NewMetrics(reg))

	alg := &stubAlgorithm[bool]{
		run: func(ctx context.Context, arg int64) (bool, error) {
			if arg == 0 {
				return false, errors.New("boom")
			}
			return true, nil
		},
	}
	_, err := prism.Execute(context.Background(), ex, alg, []int64{0, 1, 2})
	chk.NoError(err)

	chk.Equal(float64(1), counterValue(t, reg, "prism_batches_total", ""))
	chk.Equal(float64(0), counterValue(t, reg, "prism_batch_timeouts_total", ""))
	chk.Equal(float64(2), counterValue(t, reg, "prism_tasks_total", "finished"))
	chk.Equal(float64(1), counterValue(t, reg, "prism_tasks_total", "failed"))
	chk.Equal(float64(0), counterValue(t, reg, "prism_tasks_total", "canceled"))
}

func TestMetricsObserveQuotaRounds(t *testing.T) {
	chk := require.New(t)

	reg := prometheus.NewRegistry()
	ex := prism.NewExecutor()
	ex.SetMetrics(prism.NewMetrics(reg))
	ex.SetMaxRounds(2)

	alg := &stubAlgorithm[bool]{
		run: func(ctx context.Context, arg int64) (bool, error) {
			return false, errors.New("never usable")
		},
		generate: sequence(),
	}
	_, err := prism.ExecuteUntil(context.Background(), ex, alg, 2)
	chk.ErrorIs(err, prism.ErrQuotaUnreachable)

	chk.Equal(float64(2), counterValue(t, reg, "prism_quota_rounds_total", ""))
	chk.Equal(float64(2), counterValue(t, reg, "prism_batches_total", ""))
	chk.Equal(float64(4), counterValue(t, reg, "prism_tasks_total", "failed"))
}

// counterValue gathers reg and returns the value of the named counter,
// optionally selected by its status label.
func counterValue(t *testing.T, reg *prometheus.Registry, name, status string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if status == "" || hasStatusLabel(m, status) {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s (status %q) not found", name, status)
	return 0
}

func hasStatusLabel(m *dto.Metric, status string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == "status" && lp.GetValue() == status {
			return true
		}
	}
	return false
}

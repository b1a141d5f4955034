package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(t *testing.T, families []*dto.MetricFamily, prefix string) *dto.MetricFamily {
	t.Helper()
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), prefix) {
			return mf
		}
	}
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestRecordCommand(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := New("xsearch-test", reg)
	require.NoError(t, err)

	ctx := context.Background()
	obs.RecordCommand(ctx, "xsearch build", "ok", 20*time.Millisecond)
	obs.RecordCommand(ctx, "xsearch build", "ok", 30*time.Millisecond)
	obs.RecordCommand(ctx, "xsearch history list", "error", time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	counter := findFamily(t, families, "xsearch_commands")
	require.NotNil(t, counter)
	assert.Equal(t, dto.MetricType_COUNTER, counter.GetType())

	byCommand := map[string]float64{}
	for _, m := range counter.GetMetric() {
		byCommand[labelValue(m, "command")+"|"+labelValue(m, "status")] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{
		"xsearch build|ok":           2,
		"xsearch history list|error": 1,
	}, byCommand)

	histogram := findFamily(t, families, "xsearch_command_duration")
	require.NotNil(t, histogram)
	assert.Equal(t, dto.MetricType_HISTOGRAM, histogram.GetType())

	require.NoError(t, obs.Shutdown(ctx))
}

func TestZeroValueIsNoOp(t *testing.T) {
	var obs Observability

	assert.NotPanics(t, func() {
		obs.RecordCommand(context.Background(), "xsearch", "ok", time.Second)
	})
	assert.NoError(t, obs.Shutdown(context.Background()))
}

func TestDefault_ReturnsSameInstance(t *testing.T) {
	first, err := Default("xsearch-test")
	require.NoError(t, err)
	second, err := Default("xsearch-test")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

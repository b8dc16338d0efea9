package observe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns metrics backed by a ManualReader.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	met := findMetric(rm, name)
	require.NotNil(t, met, name)
	sum, ok := met.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not a sum", name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecordDecode(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordDecode(ctx, "Idle", "Tap", false, false)
	m.RecordDecode(ctx, "Slip", "SlipMove", true, false)
	m.RecordDecode(ctx, "Slip", "Release", false, true)

	rm := collect(t, reader)
	assert.Equal(t, int64(3), sumOf(t, rm, "pyime.decode.events"))
	assert.Equal(t, int64(1), sumOf(t, rm, "pyime.decode.rejected"))
	assert.Equal(t, int64(1), sumOf(t, rm, "pyime.decode.dropped"))
}

func TestDecodeEventAttributes(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordDecode(ctx, "Idle", "Tap", false, false)
	m.RecordDecode(ctx, "Idle", "Tap", false, false)
	m.RecordDecode(ctx, "Idle", "Backspace", false, false)

	met := findMetric(collect(t, reader), "pyime.decode.events")
	require.NotNil(t, met)
	sum := met.Data.(metricdata.Sum[int64])

	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value("event"); ok && v.AsString() == "Tap" {
			assert.Equal(t, int64(2), dp.Value)
			return
		}
	}
	t.Error("data point with event=Tap not found")
}

func TestPredictDuration(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.PredictDuration.Record(ctx, 0.0002)
	m.PredictDuration.Record(ctx, 0.003)

	met := findMetric(collect(t, reader), "pyime.predict.duration")
	require.NotNil(t, met)
	hist, ok := met.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.NotEmpty(t, hist.DataPoints)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
}

func TestDefaultMetrics(t *testing.T) {
	m := DefaultMetrics()
	require.NotNil(t, m)
	assert.Same(t, m, DefaultMetrics())
	m.ModelIngested.Add(context.Background(), 1)
}

// Package observe provides OpenTelemetry metric instruments for the input
// engine.
//
// A package-level default [Metrics] instance ([DefaultMetrics]) records to
// the global meter provider, which is a no-op until the host installs one.
// Tests should use [NewMetrics] with their own [metric.MeterProvider].
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all pyime metrics.
const meterName = "github.com/f3rmion/pyime"

// Metrics holds the metric instruments. All fields are safe for concurrent
// use.
type Metrics struct {
	// DecodeEvents counts decoder events. Use with attributes:
	//   attribute.String("state", ...), attribute.String("event", ...)
	DecodeEvents metric.Int64Counter

	// DecodeRejected counts events the decoder refused.
	DecodeRejected metric.Int64Counter

	// DecodeDropped counts pending syllables discarded as unresolvable.
	DecodeDropped metric.Int64Counter

	// PredictDuration tracks phrase prediction latency.
	PredictDuration metric.Float64Histogram

	// ModelIngested counts training phrases added to the model.
	ModelIngested metric.Int64Counter
}

// NewMetrics creates the instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var (
		met Metrics
		err error
	)

	if met.DecodeEvents, err = m.Int64Counter("pyime.decode.events",
		metric.WithDescription("Decoder events processed."),
	); err != nil {
		return nil, err
	}
	if met.DecodeRejected, err = m.Int64Counter("pyime.decode.rejected",
		metric.WithDescription("Decoder events rejected without a state change."),
	); err != nil {
		return nil, err
	}
	if met.DecodeDropped, err = m.Int64Counter("pyime.decode.dropped",
		metric.WithDescription("Pending syllables dropped as unresolvable."),
	); err != nil {
		return nil, err
	}
	if met.PredictDuration, err = m.Float64Histogram("pyime.predict.duration",
		metric.WithDescription("Latency of phrase prediction."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1),
	); err != nil {
		return nil, err
	}
	if met.ModelIngested, err = m.Int64Counter("pyime.model.ingested",
		metric.WithDescription("Training phrases ingested into the transition model."),
	); err != nil {
		return nil, err
	}

	return &met, nil
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// DefaultMetrics returns metrics bound to the global meter provider.
func DefaultMetrics() *Metrics {
	defaultOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordDecode records one decoder event and its outcome.
func (m *Metrics) RecordDecode(ctx context.Context, state, event string, rejected, dropped bool) {
	m.DecodeEvents.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("state", state),
			attribute.String("event", event),
		),
	)
	if rejected {
		m.DecodeRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
	}
	if dropped {
		m.DecodeDropped.Add(ctx, 1)
	}
}

package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records command metrics through an OpenTelemetry meter whose readings are
// exported into a Prometheus registry. A zero value records nothing.
type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	commandCounter  otelmetric.Int64Counter
	commandDuration otelmetric.Float64Histogram
}

func New(serviceName string, reg promclient.Registerer) (*Observability, error) {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg), prometheus.WithoutScopeInfo())
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	commandCounter, err := meter.Int64Counter(
		"xsearch.commands",
		otelmetric.WithDescription("Number of CLI commands executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("create command counter: %w", err)
	}

	commandDuration, err := meter.Float64Histogram(
		"xsearch.command.duration",
		otelmetric.WithDescription("CLI command duration"),
		otelmetric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create command duration: %w", err)
	}

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		commandCounter:  commandCounter,
		commandDuration: commandDuration,
	}, nil
}

var (
	defaultOnce sync.Once
	defaultObs  *Observability
	defaultErr  error
)

// Default returns the process-wide instance bound to the default Prometheus registerer.
// On failure it returns a no-op instance together with the error.
func Default(serviceName string) (*Observability, error) {
	defaultOnce.Do(func() {
		defaultObs, defaultErr = New(serviceName, promclient.DefaultRegisterer)
		if defaultErr != nil {
			defaultObs = &Observability{}
		}
	})
	return defaultObs, defaultErr
}

// RecordCommand counts one command run and its duration, labelled by command path and status.
func (o *Observability) RecordCommand(ctx context.Context, command, status string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("command", command),
		attribute.String("status", status),
	)
	if o.commandCounter != nil {
		o.commandCounter.Add(ctx, 1, attrs)
	}
	if o.commandDuration != nil {
		o.commandDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}

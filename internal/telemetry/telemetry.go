// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

// Package telemetry provides OpenTelemetry metrics for interlock operations.
//
// Telemetry is disabled by default. When disabled a no-op meter provider is
// installed; when enabled metrics are pretty-printed to the configured
// writer (stderr for the CLI) on every export interval and on shutdown.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/toeirei/interlock/internal/interlock"
)

const instrumentationScope = "github.com/toeirei/interlock"

// Options controls Init.
type Options struct {
	Enabled  bool
	Output   io.Writer
	Interval time.Duration
	Version  string
}

// Init installs the global meter provider and returns its shutdown func,
// which flushes pending metrics.
func Init(ctx context.Context, opts Options) (func(context.Context) error, error) {
	if !opts.Enabled {
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("interlock"),
			semconv.ServiceVersionKey.String(opts.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: resource: %w", err)
	}

	expOpts := []stdoutmetric.Option{stdoutmetric.WithPrettyPrint()}
	if opts.Output != nil {
		expOpts = append(expOpts, stdoutmetric.WithWriter(opts.Output))
	}
	exp, err := stdoutmetric.New(expOpts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: exporter: %w", err)
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// Meter returns a meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationScope)
}

// TransitionCounter counts controller operations and launches.
type TransitionCounter struct {
	ops      metric.Int64Counter
	launches metric.Int64Counter
}

// NewTransitionCounter registers the interlock instruments on meter.
func NewTransitionCounter(meter metric.Meter) (*TransitionCounter, error) {
	ops, err := meter.Int64Counter("interlock.operations",
		metric.WithDescription("Controller operations by outcome."),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: operations counter: %w", err)
	}
	launches, err := meter.Int64Counter("interlock.launches",
		metric.WithDescription("Launcher invocations."),
		metric.WithUnit("{launch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: launches counter: %w", err)
	}
	return &TransitionCounter{ops: ops, launches: launches}, nil
}

// Observe records t. It has the interlock.Observer signature.
func (tc *TransitionCounter) Observe(t interlock.Transition) {
	ctx := context.Background()
	tc.ops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", t.Op.String()),
		attribute.String("from", t.From.String()),
		attribute.String("to", t.To.String()),
		attribute.Bool("changed", t.Changed()),
	))
	if t.Launched {
		tc.launches.Add(ctx, 1)
	}
}

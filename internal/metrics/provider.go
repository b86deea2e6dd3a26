// Package metrics sets up the OpenTelemetry meter provider used by the
// simulator instruments.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const defaultInterval = 10 * time.Second

// Config holds metrics export configuration.
type Config struct {
	Enabled     bool
	ServiceName string
	Writer      io.Writer     // destination of the periodic JSON export
	Interval    time.Duration // export period, 10s when zero
}

// Provider owns the SDK meter provider. When metrics are disabled it hands
// out noop meters.
type Provider struct {
	mp     *sdkmetric.MeterProvider
	config Config
}

// New creates a provider exporting to cfg.Writer every cfg.Interval.
func New(cfg Config) (*Provider, error) {
	p := &Provider{config: cfg}
	if !cfg.Enabled {
		return p, nil
	}
	if cfg.Writer == nil {
		return nil, errors.New("metrics enabled but no writer configured")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}

	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(cfg.Writer))
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))
	p.mp = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Interval))),
	)
	return p, nil
}

// MeterProvider returns the SDK provider, or a noop one when disabled.
func (p *Provider) MeterProvider() metric.MeterProvider {
	if p.mp == nil {
		return noop.NewMeterProvider()
	}
	return p.mp
}

// Meter returns a named meter from MeterProvider.
func (p *Provider) Meter(name string) metric.Meter {
	return p.MeterProvider().Meter(name)
}

// Flush exports everything recorded so far.
func (p *Provider) Flush(ctx context.Context) error {
	if p.mp == nil {
		return nil
	}
	if err := p.mp.ForceFlush(ctx); err != nil {
		return fmt.Errorf("metric flush failed: %w", err)
	}
	return nil
}

// Shutdown exports pending data and stops the periodic reader.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.mp == nil {
		return nil
	}
	if err := p.mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("metric shutdown failed: %w", err)
	}
	return nil
}

// Package trace wires OpenTelemetry tracing for xaidash.
//
// Spans are exported over OTLP/HTTP when an endpoint is configured; otherwise
// a no-op provider is used and tracing costs nothing.
package trace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName is the tracer name used by xaidash components.
const InstrumentationName = "xaidash/project"

// Attribute keys recorded on fetch spans.
const (
	KeyRunID        = attribute.Key("xaidash.run.id")
	KeyProjectID    = attribute.Key("xaidash.project.id")
	KeyExperimentID = attribute.Key("xaidash.experiment.id")
	KeyCount        = attribute.Key("xaidash.count")
)

// Options selects where spans go.
type Options struct {
	Endpoint    string // OTLP/HTTP host:port; empty disables export
	Insecure    bool
	ServiceName string
}

// Provider owns the tracer provider for the process.
type Provider struct {
	sdk    *sdktrace.TracerProvider // nil when disabled
	tracer oteltrace.Tracer
}

// NewProvider creates an OTLP-exporting provider if opts.Endpoint is set.
// Returns a disabled provider (no-op tracer) otherwise.
func NewProvider(ctx context.Context, opts Options) (*Provider, error) {
	if opts.Endpoint == "" {
		return &Provider{tracer: noop.NewTracerProvider().Tracer(InstrumentationName)}, nil
	}

	clientOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, clientOpts...)
	if err != nil {
		return nil, err
	}

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "xaidash"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &Provider{
		sdk:    sdk,
		tracer: sdk.Tracer(InstrumentationName),
	}, nil
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.sdk != nil
}

// Tracer returns the tracer for fetch spans. Safe on a nil Provider.
func (p *Provider) Tracer() oteltrace.Tracer {
	if p == nil || p.tracer == nil {
		return noop.NewTracerProvider().Tracer(InstrumentationName)
	}
	return p.tracer
}

// Shutdown flushes and closes the exporter
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

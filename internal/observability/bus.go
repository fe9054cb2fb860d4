// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package observability implements the fire-and-forget ObservabilityBus
// on top of OpenTelemetry tracing.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Status is the lifecycle stage an emitted event reports.
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Event is the single shape every observability emission takes.
type Event struct {
	Component  string
	Operation  string
	Status     Status
	DurationMs int64
	Metadata   map[string]string
}

// Bus is the interface the rest of the pipeline emits events through. The
// orchestrator never blocks on it: Emit must not be allowed to stall a
// caller waiting on agent execution.
type Bus interface {
	Emit(ctx context.Context, event Event)
}

// Config configures the OTel-backed bus.
type Config struct {
	ServiceName  string
	CollectorURL string
	Insecure     bool
}

// DefaultConfig returns local-development defaults.
func DefaultConfig() Config {
	return Config{
		ServiceName:  "coding-pipeline",
		CollectorURL: "localhost:4318",
		Insecure:     true,
	}
}

// OTelBus emits events as OpenTelemetry spans. Construction establishes a
// TracerProvider; Close must be called on pipeline shutdown to flush.
type OTelBus struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewOTelBus builds an OTelBus against cfg. Exporter construction failures
// are returned rather than silently degrading to a no-op, since losing
// observability silently would defeat the gate's own audit trail.
func NewOTelBus(ctx context.Context, cfg Config) (*OTelBus, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
	))
	if err != nil {
		return nil, fmt.Errorf("observability: build resource: %w", err)
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.CollectorURL)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("observability: build exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	return &OTelBus{
		provider: provider,
		tracer:   provider.Tracer("coding-pipeline/observability"),
	}, nil
}

// Emit records event as a zero-duration span carrying the event's fields as
// attributes. Never blocks the caller on exporter I/O beyond span creation;
// batching and flush happen asynchronously in the SDK.
func (b *OTelBus) Emit(ctx context.Context, event Event) {
	attrs := []attribute.KeyValue{
		attribute.String("component", event.Component),
		attribute.String("operation", event.Operation),
		attribute.String("status", string(event.Status)),
		attribute.Int64("duration_ms", event.DurationMs),
	}
	for k, v := range event.Metadata {
		attrs = append(attrs, attribute.String("metadata."+k, v))
	}

	_, span := b.tracer.Start(ctx, event.Component+"."+event.Operation, trace.WithAttributes(attrs...))
	if event.Status == StatusError {
		span.SetStatus(codes.Error, event.Operation+" failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()

	slog.Debug("observability event",
		"component", event.Component,
		"operation", event.Operation,
		"status", event.Status,
		"duration_ms", event.DurationMs,
	)
}

// Close flushes and shuts down the underlying tracer provider.
func (b *OTelBus) Close(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return b.provider.Shutdown(shutdownCtx)
}

// NoopBus discards every event; useful for tests and for pipelines run
// without a collector configured.
type NoopBus struct{}

// Emit implements Bus by doing nothing.
func (NoopBus) Emit(context.Context, Event) {}

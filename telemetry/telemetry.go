// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Stdout selects standard output as the trace destination.
const Stdout = "-"

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Setup installs a global tracer provider that writes spans as JSON to
// output. An empty output leaves tracing disabled.
func Setup(serviceName, serviceVersion, output string) (ShutdownFunc, error) {
	if output == "" {
		return noop, nil
	}

	var (
		w      io.Writer = os.Stdout
		closer io.Closer
	)
	if output != Stdout {
		f, err := os.Create(output)
		if err != nil {
			return noop, fmt.Errorf("open trace output: %w", err)
		}
		w, closer = f, f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return noop, fmt.Errorf("create trace exporter: %w", err)
	}

	tp, err := NewProvider(serviceName, serviceVersion, exporter)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return noop, err
	}
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if closer != nil {
			err = errors.Join(err, closer.Close())
		}
		return err
	}, nil
}

// NewProvider builds a tracer provider exporting synchronously to exporter.
func NewProvider(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build trace resource: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	), nil
}

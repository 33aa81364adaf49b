// Package otelsetup wires a minimal tracer provider so the aggregator's
// submit-then-forward round trip and the actuator's accept-then-schedule
// step are traceable.
package otelsetup

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Init installs a stdout-exporting tracer provider for the given service
// name and returns a shutdown func. Passing a nil/discard writer is the
// usual case outside of debugging a trace by hand.
func Init(ctx context.Context, serviceName string, out io.Writer) (func(context.Context) error, error) {
	if out == nil {
		out = io.Discard
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

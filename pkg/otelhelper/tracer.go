// Package otelhelper wires OpenTelemetry tracing into the voxflow services
// and defines the span attributes the engine emits.
package otelhelper

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otlptracehttp "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Attribute constructors for the spans the engine produces. Every key lives
// under the voxflow namespace so dashboards can filter on one prefix.

func WorkflowID(id string) attribute.KeyValue {
	return attribute.String("voxflow.workflow.id", id)
}

func WorkflowName(name string) attribute.KeyValue {
	return attribute.String("voxflow.workflow.name", name)
}

func StepCount(n int) attribute.KeyValue {
	return attribute.Int("voxflow.workflow.steps", n)
}

func StepID(id string) attribute.KeyValue {
	return attribute.String("voxflow.step.id", id)
}

func StepType(stepType string) attribute.KeyValue {
	return attribute.String("voxflow.step.type", stepType)
}

func RunID(id string) attribute.KeyValue {
	return attribute.String("voxflow.run.id", id)
}

func TranscriptID(id string) attribute.KeyValue {
	return attribute.String("voxflow.transcript.id", id)
}

func WorkerID(id string) attribute.KeyValue {
	return attribute.String("voxflow.worker.id", id)
}

// Setup installs a global tracer provider exporting OTLP over HTTP (endpoint
// taken from the standard OTEL_EXPORTER_OTLP_* environment). The returned
// function flushes and shuts the provider down.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}))

	return provider.Shutdown, nil
}

package tracing

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// InitTracerProvider wires the OTLP gRPC exporter and installs the global
// tracer provider. Setting TRACING_DISABLED=true skips the exporter entirely,
// which keeps local runs from waiting on a collector that isn't there.
func InitTracerProvider(serviceName string) (func(context.Context) error, error) {
	if os.Getenv("TRACING_DISABLED") == "true" {
		log.Printf("Tracing disabled for service '%s'", serviceName)
		return func(context.Context) error { return nil }, nil
	}

	ctx := context.Background()
	otelAgentAddr := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	if otelAgentAddr == "" {
		otelAgentAddr = "jaeger:4317"
	}

	conn, err := grpc.NewClient(
		otelAgentAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)

	if err != nil {
		return nil, err
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))

	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.TelemetrySDKNameKey.String("opentelemetry"),
			semconv.TelemetrySDKLanguageKey.String("go"),
		),
	)

	if err != nil {
		return nil, err
	}

	sampler := sdktrace.AlwaysSample()
	if ratio := os.Getenv("TRACE_SAMPLE_RATIO"); ratio != "" {
		if parsed, err := strconv.ParseFloat(ratio, 64); err == nil && parsed >= 0 && parsed <= 1 {
			sampler = sdktrace.TraceIDRatioBased(parsed)
		}
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	log.Printf("Initializing OpenTelemetry for service '%s', sending traces to %s", serviceName, otelAgentAddr)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)

		defer cancel()

		log.Printf("Shutting down OpenTelemetry provider for service '%s'...", serviceName)

		return tp.Shutdown(ctx)
	}, nil
}

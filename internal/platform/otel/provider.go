// Package otel wires OpenTelemetry tracing for the commands.
package otel

import (
	"context"
	"fmt"

	"github.com/megamek/acar/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Settings controls trace export.
type Settings struct {
	Endpoint    string  `env:"ACAR_OTEL_ENDPOINT"`
	Enabled     bool    `env:"ACAR_OTEL_ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"ACAR_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := config.ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	if s.SampleRatio < 0 || s.SampleRatio > 1 {
		return Settings{}, fmt.Errorf("ACAR_OTEL_SAMPLE_RATIO must be within [0, 1], got %v", s.SampleRatio)
	}
	return s, nil
}

// Setup initialises tracing for serviceName from the environment.
//
// Tracing is opt-in: when ACAR_OTEL_ENDPOINT is empty or ACAR_OTEL_ENABLED
// is false, Setup returns a no-op shutdown function and leaves the global
// provider alone.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	settings, err := LoadSettings()
	if err != nil {
		return func(context.Context) error { return nil }, err
	}
	return SetupWith(ctx, serviceName, settings)
}

// SetupWith is Setup with explicit settings.
func SetupWith(ctx context.Context, serviceName string, settings Settings) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !settings.Enabled || settings.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(settings.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(settings.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

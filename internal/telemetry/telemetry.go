// Package telemetry provides OpenTelemetry instrumentation for Honeycomb.
package telemetry

import (
	"context"
	"errors"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName    = "mazeband"
	serviceVersion = "0.1.0"

	// flushAttempts bounds how often a failed export is retried at shutdown.
	flushAttempts = 4
)

// Options tune Setup. The zero value is usable.
type Options struct {
	// Logger receives OpenTelemetry's internal diagnostics. Defaults to a
	// stdr logger on stderr.
	Logger *log.Logger
	// Verbosity is the stdr verbosity level for OpenTelemetry diagnostics.
	Verbosity int
	// FlushTimeout caps the time spent flushing spans at shutdown.
	FlushTimeout time.Duration
}

// Setup initializes OpenTelemetry with OTLP HTTP exporter.
// It reads configuration from standard OTEL_* environment variables:
//   - OTEL_EXPORTER_OTLP_ENDPOINT: Honeycomb endpoint (https://api.honeycomb.io)
//   - OTEL_EXPORTER_OTLP_HEADERS: Headers including x-honeycomb-team=<api-key>
//
// Returns a shutdown function that should be called on application exit.
func Setup(ctx context.Context, opts Options) (shutdown func(context.Context) error, err error) {
	otel.SetLogger(NewLogger(opts.Logger, opts.Verbosity))

	// Create OTLP HTTP exporter - automatically uses OTEL_* env vars
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	// We create our own resource without merging with Default() to avoid schema URL conflicts
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("telemetry.sdk.language", "go"),
			attribute.String("telemetry.sdk.name", "opentelemetry"),
			attribute.String("host.name", getHostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.name", "go"),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	flushTimeout := opts.FlushTimeout
	if flushTimeout <= 0 {
		flushTimeout = 5 * time.Second
	}

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, flushTimeout)
		defer cancel()
		flushErr := Flush(ctx, tp.ForceFlush)
		return errors.Join(flushErr, tp.Shutdown(ctx))
	}, nil
}

// Flush calls flush until it succeeds or flushAttempts is reached, backing
// off exponentially between attempts.
func Flush(ctx context.Context, flush func(context.Context) error) error {
	_, err := backoff.Retry[struct{}](ctx, func() (struct{}, error) {
		return struct{}{}, flush(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(flushAttempts),
	)
	return err
}

// NewLogger returns a logr.Logger backed by the standard library logger.
// A nil std logs to stderr.
func NewLogger(std *log.Logger, verbosity int) logr.Logger {
	if std == nil {
		std = log.New(os.Stderr, "otel ", log.LstdFlags)
	}
	stdr.SetVerbosity(verbosity)
	return stdr.New(std)
}

// Tracer returns a named tracer for the given component.
// Use this to create spans within different parts of the application.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer("mazeband/" + name)
}

// NoopTracer returns a no-op tracer for use when telemetry is disabled.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("mazeband/noop")
}

// getHostname returns the system hostname, or "unknown" if it cannot be determined.
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}

// Package tracing installs the global OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/soundboard/internal/config"
	"github.com/zjrosen/soundboard/internal/log"
)

// ServiceName is reported as service.name on every span.
const ServiceName = "soundboard"

// ShutdownFunc flushes and stops tracing.
type ShutdownFunc func(context.Context) error

// Setup installs a tracer provider for cfg. When tracing is disabled the
// global provider is a no-op and shutdown does nothing. defaultFile is used
// by the file exporter when cfg.File is empty.
func Setup(ctx context.Context, cfg config.TracingConfig, version, defaultFile string) (ShutdownFunc, error) {
	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	var (
		exporter sdktrace.SpanExporter
		closeOut func() error
		err      error
	)
	switch cfg.Exporter {
	case config.ExporterOTLP:
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
	default:
		path := cfg.File
		if path == "" {
			path = defaultFile
		}
		var f *os.File
		f, err = openTraceFile(path)
		if err == nil {
			closeOut = f.Close
			exporter, err = stdouttrace.New(stdouttrace.WithWriter(f))
		}
	}
	if err != nil {
		if closeOut != nil {
			_ = closeOut()
		}
		return nil, fmt.Errorf("creating %s trace exporter: %w", cfg.Exporter, err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", ServiceName),
			attribute.String("service.version", version),
		)),
	)
	otel.SetTracerProvider(tp)
	log.Info(log.CatConfig, "Tracing enabled", "exporter", cfg.Exporter)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if closeOut != nil {
			err = errors.Join(err, closeOut())
		}
		otel.SetTracerProvider(noop.NewTracerProvider())
		return err
	}, nil
}

func openTraceFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // G304: configured trace path
}

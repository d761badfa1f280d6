package utils

import (
	"context"

	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation scope used for every span
const TracerName = "github.com/amaumene/gomeshelf"

// logExporter writes finished spans to the application log
type logExporter struct {
	logger *logrus.Logger
}

func (e *logExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		fields := logrus.Fields{
			"span":        span.Name(),
			"trace_id":    span.SpanContext().TraceID().String(),
			"duration_ms": span.EndTime().Sub(span.StartTime()).Milliseconds(),
			"status":      span.Status().Code.String(),
		}
		for _, attr := range span.Attributes() {
			fields[string(attr.Key)] = attr.Value.Emit()
		}
		e.logger.WithFields(fields).Debug("span finished")
	}
	return nil
}

func (e *logExporter) Shutdown(context.Context) error {
	return nil
}

// NewTracerProvider returns a tracer provider that logs spans at debug level,
// or a no-op provider when tracing is disabled. The shutdown func is always
// safe to call.
func NewTracerProvider(enabled bool, logger *logrus.Logger) (trace.TracerProvider, func(context.Context) error) {
	if !enabled {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(&logExporter{logger: logger}),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return tp, tp.Shutdown
}

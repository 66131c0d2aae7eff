// Package tracking forwards unexpected (non-operational) failures to an
// external error-tracking backend.
//
// The only backend shipped is OpenTelemetry: the failure is recorded as an
// exception event on the active request span and the span is marked as
// errored, so it surfaces in whatever trace backend the OTLP exporter feeds.
// Noop is used when ERROR_TRACKING_ENABLED is false.
package tracking

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Event describes one captured failure.
type Event struct {
	Err           error
	Code          string
	Status        int
	CorrelationID string
	Method        string
	Route         string
	ClientIP      string
	UserAgent     string
}

// Tracker receives captured failures. Implementations must not block the
// request for long and must be safe for concurrent use.
type Tracker interface {
	Capture(ctx context.Context, ev Event)
}

// Noop drops every event.
type Noop struct{}

// Capture implements Tracker.
func (Noop) Capture(context.Context, Event) {}

var captured = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "errors_tracked_total",
		Help: "Non-operational errors forwarded to error tracking, by code.",
	},
	[]string{"code"},
)

func init() {
	prometheus.MustRegister(captured)
}

// OTel records events on the span found in ctx.
type OTel struct{}

// Capture implements Tracker.
func (OTel) Capture(ctx context.Context, ev Event) {
	captured.WithLabelValues(ev.Code).Inc()

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() || ev.Err == nil {
		return
	}
	span.RecordError(ev.Err, trace.WithStackTrace(true), trace.WithAttributes(
		attribute.String("error.code", ev.Code),
		attribute.Int("http.status_code", ev.Status),
		attribute.String("request.id", ev.CorrelationID),
		attribute.String("http.method", ev.Method),
		attribute.String("http.route", ev.Route),
		attribute.String("client.address", ev.ClientIP),
		attribute.String("user_agent.original", ev.UserAgent),
	))
	span.SetStatus(codes.Error, ev.Err.Error())
}

// New returns OTel when enabled, Noop otherwise.
func New(enabled bool) Tracker {
	if enabled {
		return OTel{}
	}
	return Noop{}
}

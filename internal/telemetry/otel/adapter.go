package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"tasktracker/backend/internal/telemetry"
	"tasktracker/backend/internal/telemetry/domain"
)

const instrumentationName = "tasktracker.auth"

// recordEmitter is the subset of otellog.Logger the adapter uses.
type recordEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// NewEventEmitter returns an EventEmitter that writes events as OTel log records. A nil provider yields a no-op.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger(instrumentationName)}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *domain.Event) error { return nil }

type otelEmitter struct {
	logger recordEmitter
}

// Emit maps the event onto a log record: metadata becomes the body, identifying fields become attributes.
func (e *otelEmitter) Emit(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return nil
	}
	var rec otellog.Record
	ts := event.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rec.SetTimestamp(ts)
	rec.SetSeverity(severityFor(event.EventType))
	rec.SetBody(otellog.StringValue(event.Metadata))
	attrs := []otellog.KeyValue{
		otellog.String("event_type", event.EventType),
		otellog.String("source", event.Source),
	}
	if event.UserID != "" {
		attrs = append(attrs, otellog.String("user_id", event.UserID))
	}
	if event.Resource != "" {
		attrs = append(attrs, otellog.String("resource", event.Resource))
	}
	if event.IP != "" {
		attrs = append(attrs, otellog.String("client_ip", event.IP))
	}
	rec.AddAttributes(attrs...)
	e.logger.Emit(ctx, rec)
	return nil
}

func severityFor(eventType string) otellog.Severity {
	switch eventType {
	case domain.EventRefreshReuse:
		return otellog.SeverityWarn
	case domain.EventLoginFailure, domain.EventRefreshFailure:
		return otellog.SeverityInfo2
	default:
		return otellog.SeverityInfo
	}
}

// Package audit records security-relevant events: auth transitions and task mutations.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tasktracker/backend/internal/audit/domain"
	auditrepo "tasktracker/backend/internal/audit/repository"
	"tasktracker/backend/internal/telemetry"
	telemetrydomain "tasktracker/backend/internal/telemetry/domain"
)

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event. LogEvent is best-effort: failures are logged and do
// not affect the caller, which makes it the sink for errors that must not reach clients (logout).
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, resource, metadata string)
}

// Logger implements AuditLogger. Entries are persisted to repo and mirrored to emitter.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
	emitter     telemetry.EventEmitter
	log         *zap.Logger
}

// NewLogger returns a Logger. repo, ipExtractor and emitter may each be nil.
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor, emitter telemetry.EventEmitter, log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{repo: repo, ipExtractor: ipExtractor, emitter: emitter, log: log}
}

// LogEvent writes one audit log entry and publishes it as a telemetry event.
func (l *Logger) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	ip := "unknown"
	if l.ipExtractor != nil {
		if v := l.ipExtractor(ctx); v != "" {
			ip = v
		}
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if l.repo != nil {
		if err := l.repo.Create(ctx, entry); err != nil {
			l.log.Warn("audit: failed to persist event",
				zap.String("action", action), zap.String("resource", resource), zap.Error(err))
		}
	}
	telemetry.EmitAsync(l.emitter, &telemetrydomain.Event{
		ID:        entry.ID,
		UserID:    userID,
		EventType: action,
		Resource:  resource,
		Source:    telemetrydomain.SourceAPI,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: entry.CreatedAt,
	}, l.log)
}

// Nop discards every event.
type Nop struct{}

func (Nop) LogEvent(context.Context, string, string, string, string) {}

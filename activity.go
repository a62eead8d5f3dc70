package streambase

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported session lifecycle events.
type ActivityEventType string

const (
	ActivityEventLoginSuccess      ActivityEventType = "session.login.success"
	ActivityEventLoginFailure      ActivityEventType = "session.login.failure"
	ActivityEventAdminLoginSuccess ActivityEventType = "session.admin_login.success"
	ActivityEventAdminLoginFailure ActivityEventType = "session.admin_login.failure"
	ActivityEventLogout            ActivityEventType = "session.logout"
	ActivityEventRestore           ActivityEventType = "session.restore"
	ActivityEventRegister          ActivityEventType = "session.register"
	ActivityEventProfileDeleted    ActivityEventType = "session.profile.deleted"
	ActivityEventPollStarted       ActivityEventType = "notifications.poll.started"
	ActivityEventPollStopped       ActivityEventType = "notifications.poll.stopped"
)

// ActivityEvent captures audit-friendly information about a session action.
type ActivityEvent struct {
	EventType  ActivityEventType
	Principal  Principal
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
// Sinks run best-effort: errors are logged by the emitter, never propagated.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}

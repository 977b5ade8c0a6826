package countdown

import (
	"time"

	"github.com/google/uuid"
)

// Alerts receives the side effects of timer transitions.
//
// Calls are made synchronously while the registry lock is held, so
// implementations must return quickly and must not call back into the
// registry. Any I/O they perform is their own concern: the engine neither
// waits for nor retries it.
type Alerts interface {
	// ScheduleAlert asks for an alert at deadline for the timer with this id.
	ScheduleAlert(id uuid.UUID, name string, deadline time.Time)
	// CancelAlert drops the pending alert for the timer with this id, if any.
	CancelAlert(id uuid.UUID)
	// TimerFinished reports that the timer reached zero.
	TimerFinished(id uuid.UUID, name string)
}

// NopAlerts ignores every call.
type NopAlerts struct{}

// ScheduleAlert does nothing.
func (NopAlerts) ScheduleAlert(uuid.UUID, string, time.Time) {}

// CancelAlert does nothing.
func (NopAlerts) CancelAlert(uuid.UUID) {}

// TimerFinished does nothing.
func (NopAlerts) TimerFinished(uuid.UUID, string) {}

package countdown

import (
	"time"

	"github.com/google/uuid"
)

// Timer is a single countdown.
//
// Remaining time is recomputed from the deadline on every evaluation instead
// of being decremented by a fixed step, so it stays exact no matter how many
// ticks were missed. Timer is not safe for concurrent use; the Registry
// serializes access to the timers it owns.
type Timer struct {
	// id correlates the timer with externally scheduled alerts.
	id uuid.UUID
	// name is the human-readable label.
	name string
	// duration is the configured countdown length.
	duration time.Duration
	// remaining is the time left, always within [0, duration].
	remaining time.Duration
	// state is the current run state.
	state State
	// deadline is when a running timer reaches zero; zero unless running.
	deadline time.Time
	// alerts receives scheduling side effects.
	alerts Alerts
}

// Snapshot is an immutable copy of a timer's observable fields.
type Snapshot struct {
	// ID is the timer identifier.
	ID uuid.UUID
	// Name is the timer label.
	Name string
	// Duration is the configured countdown length.
	Duration time.Duration
	// Remaining is the time left at the moment the snapshot was taken.
	Remaining time.Duration
	// State is the run state.
	State State
	// Deadline is set only while the timer is running.
	Deadline time.Time
}

// NewTimer creates an idle timer with the full duration remaining.
// A nil alerts collaborator is replaced with NopAlerts.
func NewTimer(id uuid.UUID, name string, duration time.Duration, alerts Alerts) *Timer {
	if duration < 0 {
		duration = 0
	}

	if alerts == nil {
		alerts = NopAlerts{}
	}

	return &Timer{
		id:        id,
		name:      name,
		duration:  duration,
		remaining: duration,
		state:     StateIdle,
		alerts:    alerts,
	}
}

// ID returns the timer identifier.
func (t *Timer) ID() uuid.UUID {
	return t.id
}

// Name returns the timer label.
func (t *Timer) Name() string {
	return t.name
}

// Duration returns the configured countdown length.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Remaining returns the time left as of the last transition or tick.
func (t *Timer) Remaining() time.Duration {
	return t.remaining
}

// State returns the run state.
func (t *Timer) State() State {
	return t.state
}

// Deadline returns the instant the timer reaches zero and whether it is set.
func (t *Timer) Deadline() (time.Time, bool) {
	return t.deadline, t.state == StateRunning
}

// Snapshot returns a copy of the observable fields.
func (t *Timer) Snapshot() Snapshot {
	return Snapshot{
		ID:        t.id,
		Name:      t.name,
		Duration:  t.duration,
		Remaining: t.remaining,
		State:     t.state,
		Deadline:  t.deadline,
	}
}

// Rename changes the label without touching the run state.
// It reports whether the name changed.
func (t *Timer) Rename(name string) bool {
	if t.name == name {
		return false
	}

	t.name = name

	return true
}

// Start begins or resumes the countdown at now.
// Running and finished timers are left alone; a finished timer needs Reset first.
func (t *Timer) Start(now time.Time) bool {
	if t.state != StateIdle && t.state != StatePaused {
		return false
	}

	t.deadline = now.Add(t.remaining)
	t.state = StateRunning
	t.alerts.ScheduleAlert(t.id, t.name, t.deadline)

	return true
}

// Pause stops a running countdown and keeps the time left at now.
func (t *Timer) Pause(now time.Time) bool {
	if t.state != StateRunning {
		return false
	}

	t.remaining = t.clamp(t.deadline.Sub(now))
	t.deadline = time.Time{}
	t.state = StatePaused
	t.alerts.CancelAlert(t.id)

	return true
}

// Reset returns the timer to idle with the full duration remaining.
// It always cancels any pending alert and reports whether anything changed.
func (t *Timer) Reset() bool {
	changed := t.state != StateIdle || t.remaining != t.duration

	t.remaining = t.duration
	t.deadline = time.Time{}
	t.state = StateIdle
	t.alerts.CancelAlert(t.id)

	return changed
}

// EvaluateTick recomputes the remaining time of a running timer at now and
// finishes it once the deadline has passed. It reports whether the timer
// changed.
func (t *Timer) EvaluateTick(now time.Time) bool {
	if t.state != StateRunning {
		return false
	}

	left := t.deadline.Sub(now)
	if left > 0 {
		left = t.clamp(left)
		if left == t.remaining {
			return false
		}

		t.remaining = left

		return true
	}

	t.remaining = 0
	t.deadline = time.Time{}
	t.state = StateFinished
	t.alerts.TimerFinished(t.id, t.name)

	return true
}

// clamp bounds d to [0, duration].
func (t *Timer) clamp(d time.Duration) time.Duration {
	return min(max(d, 0), t.duration)
}

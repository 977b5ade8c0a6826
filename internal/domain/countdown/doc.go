// Package countdown contains the core countdown-timer engine.
//
// A Timer is a single countdown state machine whose remaining time is always
// derived from an absolute deadline, so late, skipped or post-suspension ticks
// never introduce drift. A Registry owns an ordered collection of timers,
// serializes every mutation behind one mutex and drives the shared tick.
//
// Side effects (alert scheduling, cancellation and completion events) are
// reported to an Alerts collaborator; the engine never waits on it.
package countdown

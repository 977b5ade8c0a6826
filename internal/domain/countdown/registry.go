package countdown

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrTimerNotFound is returned by per-timer operations for unknown ids.
var ErrTimerNotFound = errors.New("timer not found")

// Preset describes a timer created together with the registry.
type Preset struct {
	// Name is the timer label.
	Name string
	// Duration is the countdown length.
	Duration time.Duration
}

// Registry owns an ordered collection of timers and drives their shared tick.
//
// Every method takes the same mutex, so all mutations are serialized no
// matter how many goroutines call in. Callers only ever see Snapshot values.
type Registry struct {
	// clock supplies the time for Start and Pause.
	clock Clock
	// alerts is handed to every timer the registry creates.
	alerts Alerts
	// newID generates timer identifiers.
	newID func() uuid.UUID
	// timers is kept in insertion order.
	timers []*Timer
	// subscribers are signalled after every observable change.
	subscribers map[int]chan struct{}
	// nextSubscriber is the key of the next subscription.
	nextSubscriber int
	// mu protects all fields above.
	mu sync.Mutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the clock used by Start and Pause.
func WithClock(clock Clock) Option {
	return func(r *Registry) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithAlerts sets the collaborator receiving alert side effects.
func WithAlerts(alerts Alerts) Option {
	return func(r *Registry) {
		if alerts != nil {
			r.alerts = alerts
		}
	}
}

// WithIDGenerator overrides how timer ids are produced.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(r *Registry) {
		if newID != nil {
			r.newID = newID
		}
	}
}

// WithPresets pre-seeds the registry with idle timers in the given order.
func WithPresets(presets ...Preset) Option {
	return func(r *Registry) {
		for _, p := range presets {
			r.timers = append(r.timers, NewTimer(r.uniqueID(), p.Name, p.Duration, r.alerts))
		}
	}
}

// NewRegistry creates an empty registry.
// Options are applied in order, so WithPresets should come last.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		clock:       SystemClock{},
		alerts:      NopAlerts{},
		newID:       uuid.New,
		subscribers: make(map[int]chan struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Add appends a new idle timer and returns its snapshot.
// Input is expected to be validated by the caller.
func (r *Registry) Add(name string, duration time.Duration) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := NewTimer(r.uniqueID(), name, duration, r.alerts)
	r.timers = append(r.timers, t)
	r.notify()

	return t.Snapshot()
}

// Remove deletes the timer with id and cancels its pending alert.
// It reports whether a timer was removed; unknown ids are a no-op.
func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}

	r.timers = slices.Delete(r.timers, i, i+1)
	r.alerts.CancelAlert(id)
	r.notify()

	return true
}

// Start starts or resumes the timer with id at the current clock time.
func (r *Registry) Start(id uuid.UUID) (Snapshot, error) {
	return r.apply(id, func(t *Timer) bool {
		return t.Start(r.clock.Now())
	})
}

// Pause pauses the timer with id at the current clock time.
func (r *Registry) Pause(id uuid.UUID) (Snapshot, error) {
	return r.apply(id, func(t *Timer) bool {
		return t.Pause(r.clock.Now())
	})
}

// Reset returns the timer with id to idle.
func (r *Registry) Reset(id uuid.UUID) (Snapshot, error) {
	return r.apply(id, (*Timer).Reset)
}

// Rename changes the label of the timer with id.
func (r *Registry) Rename(id uuid.UUID, name string) (Snapshot, error) {
	return r.apply(id, func(t *Timer) bool {
		return t.Rename(name)
	})
}

// ResetAll resets every timer.
func (r *Registry) ResetAll() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := false

	for _, t := range r.timers {
		if t.Reset() {
			changed = true
		}
	}

	if changed {
		r.notify()
	}

	return r.snapshots()
}

// Tick evaluates every running timer at now.
func (r *Registry) Tick(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := false

	for _, t := range r.timers {
		if t.State() != StateRunning {
			continue
		}

		if t.EvaluateTick(now) {
			changed = true
		}
	}

	if changed {
		r.notify()
	}
}

// Get returns the snapshot of the timer with id.
func (r *Registry) Get(id uuid.UUID) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Snapshot{}, false
	}

	return r.timers[i].Snapshot(), true
}

// Timers returns snapshots of all timers in insertion order.
func (r *Registry) Timers() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshots()
}

// Len returns the number of timers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.timers)
}

// Subscribe returns a channel signalled after observable changes and a
// function that ends the subscription. Signals coalesce: a slow reader sees
// one pending notification, never a backlog, and should re-read Timers.
func (r *Registry) Subscribe() (<-chan struct{}, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.nextSubscriber
	r.nextSubscriber++

	ch := make(chan struct{}, 1)
	r.subscribers[key] = ch

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()

			delete(r.subscribers, key)
		})
	}
}

// apply runs fn against the timer with id under the lock.
func (r *Registry) apply(id uuid.UUID, fn func(*Timer) bool) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Snapshot{}, ErrTimerNotFound
	}

	t := r.timers[i]
	if fn(t) {
		r.notify()
	}

	return t.Snapshot(), nil
}

// uniqueID draws ids until one is not in use.
func (r *Registry) uniqueID() uuid.UUID {
	for {
		id := r.newID()
		if r.indexOf(id) < 0 {
			return id
		}
	}
}

func (r *Registry) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(r.timers, func(t *Timer) bool {
		return t.ID() == id
	})
}

func (r *Registry) snapshots() []Snapshot {
	result := make([]Snapshot, 0, len(r.timers))
	for _, t := range r.timers {
		result = append(result, t.Snapshot())
	}

	return result
}

// notify signals subscribers without blocking.
func (r *Registry) notify() {
	for _, ch := range r.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

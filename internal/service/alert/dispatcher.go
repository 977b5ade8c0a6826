package alert

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/countdown/internal/domain/countdown"
	"github.com/oshokin/countdown/internal/logger"
)

// Reason tells what triggered a delivery.
type Reason string

const (
	// ReasonDeadline means the scheduled alert fired at the deadline.
	ReasonDeadline Reason = "deadline"
	// ReasonFinished means the engine reported completion before the scheduled alert fired.
	ReasonFinished Reason = "finished"
)

// Alert is a single notification about a finished timer.
type Alert struct {
	// TimerID identifies the timer.
	TimerID uuid.UUID
	// Name is the timer label.
	Name string
	// Deadline is when the timer was due; zero if it was never scheduled.
	Deadline time.Time
	// DeliveredAt is when the alert was handed to the sinks.
	DeliveredAt time.Time
	// Reason tells what triggered the delivery.
	Reason Reason
}

// Sink delivers alerts somewhere: a log, a file, a desktop notification.
type Sink interface {
	Deliver(ctx context.Context, alert *Alert) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, alert *Alert) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, alert *Alert) error {
	return f(ctx, alert)
}

// pending is an armed alert for one run of a timer.
type pending struct {
	// name is the timer label when the alert was scheduled.
	name string
	// deadline is when the alert fires.
	deadline time.Time
	// stop disarms the alert.
	stop func() bool
	// fired is set once the alert was delivered; the entry then only waits for
	// the matching completion event or the next run.
	fired bool
}

// Dispatcher implements countdown.Alerts on top of time.AfterFunc.
type Dispatcher struct {
	// ctx carries the logger and is cancelled by Close.
	ctx context.Context
	// cancel stops in-flight deliveries.
	cancel context.CancelFunc
	// sinks receive every alert.
	sinks []Sink
	// now reads the current time.
	now func() time.Time
	// afterFunc arms a callback; replaced in tests.
	afterFunc func(d time.Duration, f func()) func() bool
	// deliveryTimeout bounds one delivery across all sinks.
	deliveryTimeout time.Duration
	// pending holds one entry per running or just-fired timer.
	pending map[uuid.UUID]*pending
	// closed rejects new work after Close.
	closed bool
	// mu protects pending and closed.
	mu sync.Mutex
	// wg tracks in-flight deliveries.
	wg sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSinks adds sinks to the dispatcher.
func WithSinks(sinks ...Sink) Option {
	return func(d *Dispatcher) {
		for _, s := range sinks {
			if s != nil {
				d.sinks = append(d.sinks, s)
			}
		}
	}
}

// WithClock sets the clock used to compute delays and delivery times.
func WithClock(clock countdown.Clock) Option {
	return func(d *Dispatcher) {
		if clock != nil {
			d.now = clock.Now
		}
	}
}

// WithDeliveryTimeout bounds a single delivery.
func WithDeliveryTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.deliveryTimeout = timeout
		}
	}
}

// defaultDeliveryTimeout applies when WithDeliveryTimeout is not used.
const defaultDeliveryTimeout = 10 * time.Second

// NewDispatcher creates a dispatcher. ctx supplies the logger and bounds the
// lifetime of deliveries; cancelling it is equivalent to Close without waiting.
func NewDispatcher(ctx context.Context, opts ...Option) *Dispatcher {
	ctx, cancel := context.WithCancel(logger.WithName(ctx, "alerts"))

	d := &Dispatcher{
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
		afterFunc: func(delay time.Duration, f func()) func() bool {
			return time.AfterFunc(delay, f).Stop
		},
		deliveryTimeout: defaultDeliveryTimeout,
		pending:         make(map[uuid.UUID]*pending),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

var _ countdown.Alerts = (*Dispatcher)(nil)

// ScheduleAlert arms an alert at deadline, replacing any previous one for id.
func (d *Dispatcher) ScheduleAlert(id uuid.UUID, name string, deadline time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	// A run resumed with nothing left is the run whose alert already went out.
	if p, ok := d.pending[id]; ok && p.fired && !deadline.After(d.now()) {
		logger.DebugKV(d.ctx, "Alert already delivered for this run", "timer_id", id, "timer_name", name)

		return
	}

	d.disarm(id)

	p := &pending{
		name:     name,
		deadline: deadline,
	}
	p.stop = d.afterFunc(deadline.Sub(d.now()), func() {
		d.fire(id, p)
	})
	d.pending[id] = p

	logger.DebugKV(d.ctx, "Alert scheduled", "timer_id", id, "timer_name", name, "deadline", deadline)
}

// CancelAlert disarms the alert for id, if any. An alert that already fired
// stays recorded until the run finishes or a new run is scheduled.
func (d *Dispatcher) CancelAlert(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[id]; !ok || p.fired {
		return
	}

	d.disarm(id)
	logger.DebugKV(d.ctx, "Alert cancelled", "timer_id", id)
}

// TimerFinished delivers the completion alert unless the scheduled one
// already went out for this run.
func (d *Dispatcher) TimerFinished(id uuid.UUID, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	p, ok := d.pending[id]
	delete(d.pending, id)

	if ok && p.fired {
		logger.DebugKV(d.ctx, "Timer finished after its alert fired", "timer_id", id, "timer_name", name)

		return
	}

	var deadline time.Time
	if ok {
		p.stop()
		deadline = p.deadline
	}

	d.deliver(&Alert{
		TimerID:     id,
		Name:        name,
		Deadline:    deadline,
		DeliveredAt: d.now(),
		Reason:      ReasonFinished,
	})
}

// Pending returns the number of armed alerts.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0

	for _, p := range d.pending {
		if !p.fired {
			n++
		}
	}

	return n
}

// Close disarms every alert and waits for in-flight deliveries to end.
func (d *Dispatcher) Close() {
	d.mu.Lock()

	if d.closed {
		d.mu.Unlock()

		return
	}

	d.closed = true

	for id := range d.pending {
		d.disarm(id)
	}

	d.mu.Unlock()

	d.wg.Wait()
	d.cancel()
}

// fire runs on the AfterFunc goroutine when a deadline passes.
func (d *Dispatcher) fire(id uuid.UUID, p *pending) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// The alert was replaced, cancelled or already handled by TimerFinished.
	if d.closed || d.pending[id] != p || p.fired {
		return
	}

	p.fired = true

	d.deliver(&Alert{
		TimerID:     id,
		Name:        p.name,
		Deadline:    p.deadline,
		DeliveredAt: d.now(),
		Reason:      ReasonDeadline,
	})
}

// disarm stops and forgets the alert for id. Callers hold mu.
func (d *Dispatcher) disarm(id uuid.UUID) bool {
	p, ok := d.pending[id]
	if !ok {
		return false
	}

	p.stop()
	delete(d.pending, id)

	return true
}

// deliver hands alert to every sink in the background. Callers hold mu.
func (d *Dispatcher) deliver(alert *Alert) {
	d.wg.Add(1)

	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(d.ctx, d.deliveryTimeout)
		defer cancel()

		ctx = logger.WithFields(ctx, "timer_id", alert.TimerID, "timer_name", alert.Name)

		for _, sink := range d.sinks {
			if err := sink.Deliver(ctx, alert); err != nil {
				logger.ErrorKV(ctx, "Alert delivery failed", "reason", alert.Reason, "error", err)
			}
		}
	}()
}

package countdown

import (
	"time"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// message is implemented by every TimerService message. encode and decode
// copy the Go fields to and from a protobuf message of descriptor().
type message interface {
	descriptor() protoreflect.MessageDescriptor
	encode(m protoreflect.Message)
	decode(m protoreflect.Message)
}

// toWire converts msg into the protobuf message sent over the connection.
func toWire(msg message) *dynamicpb.Message {
	m := dynamicpb.NewMessage(msg.descriptor())
	msg.encode(m)

	return m
}

// Empty is google.protobuf.Empty.
type Empty struct{}

func (*Empty) descriptor() protoreflect.MessageDescriptor { return emptyDesc }

func (*Empty) encode(protoreflect.Message) {}

func (*Empty) decode(protoreflect.Message) {}

// Timer is the wire form of a timer snapshot.
type Timer struct {
	// ID is the timer UUID.
	ID string
	// Name is the timer label.
	Name string
	// Duration is the configured countdown length.
	Duration time.Duration
	// Remaining is the time left when the snapshot was taken.
	Remaining time.Duration
	// State is one of idle, running, paused or finished.
	State string
	// Deadline is set only while the timer is running.
	Deadline *time.Time
	// ServerTime is when the snapshot was taken.
	ServerTime time.Time
}

// GetID returns the id or an empty string for a nil message.
func (t *Timer) GetID() string {
	if t == nil {
		return ""
	}

	return t.ID
}

// GetState returns the state or an empty string for a nil message.
func (t *Timer) GetState() string {
	if t == nil {
		return ""
	}

	return t.State
}

func (*Timer) descriptor() protoreflect.MessageDescriptor { return timerDesc }

func (t *Timer) encode(m protoreflect.Message) {
	if t == nil {
		return
	}

	setString(m, "id", t.ID)
	setString(m, "name", t.Name)
	setDuration(m, "duration", t.Duration)
	setDuration(m, "remaining", t.Remaining)
	setString(m, "state", t.State)

	if t.Deadline != nil {
		setTime(m, "deadline", *t.Deadline)
	}

	setTime(m, "server_time", t.ServerTime)
}

func (t *Timer) decode(m protoreflect.Message) {
	t.ID = getString(m, "id")
	t.Name = getString(m, "name")
	t.Duration = getDuration(m, "duration")
	t.Remaining = getDuration(m, "remaining")
	t.State = getString(m, "state")

	if deadline, ok := getTime(m, "deadline"); ok {
		t.Deadline = &deadline
	}

	t.ServerTime, _ = getTime(m, "server_time")
}

// TimerList is an ordered list of timers.
type TimerList struct {
	// Timers are in registry order.
	Timers []*Timer
	// ServerTime is when the list was taken, for computing live countdowns.
	ServerTime time.Time
}

// GetTimers returns the timers or nil for a nil message.
func (l *TimerList) GetTimers() []*Timer {
	if l == nil {
		return nil
	}

	return l.Timers
}

func (*TimerList) descriptor() protoreflect.MessageDescriptor { return timerListDesc }

func (l *TimerList) encode(m protoreflect.Message) {
	if l == nil {
		return
	}

	if len(l.Timers) > 0 {
		timers := m.Mutable(fieldOf(m, "timers")).List()

		for _, timer := range l.Timers {
			item := timers.NewElement()
			timer.encode(item.Message())
			timers.Append(item)
		}
	}

	setTime(m, "server_time", l.ServerTime)
}

func (l *TimerList) decode(m protoreflect.Message) {
	timers := m.Get(fieldOf(m, "timers")).List()

	l.Timers = make([]*Timer, 0, timers.Len())
	for i := range timers.Len() {
		timer := new(Timer)
		timer.decode(timers.Get(i).Message())
		l.Timers = append(l.Timers, timer)
	}

	l.ServerTime, _ = getTime(m, "server_time")
}

// AddTimerRequest creates a timer.
type AddTimerRequest struct {
	// Name is the timer label.
	Name string
	// Duration is the countdown length.
	Duration time.Duration
}

func (*AddTimerRequest) descriptor() protoreflect.MessageDescriptor { return addTimerRequestDesc }

func (r *AddTimerRequest) encode(m protoreflect.Message) {
	if r == nil {
		return
	}

	setString(m, "name", r.Name)
	setDuration(m, "duration", r.Duration)
}

func (r *AddTimerRequest) decode(m protoreflect.Message) {
	r.Name = getString(m, "name")
	r.Duration = getDuration(m, "duration")
}

// TimerIDRequest addresses a single timer.
type TimerIDRequest struct {
	// ID is the timer UUID.
	ID string
}

func (*TimerIDRequest) descriptor() protoreflect.MessageDescriptor { return timerIDRequestDesc }

func (r *TimerIDRequest) encode(m protoreflect.Message) {
	if r == nil {
		return
	}

	setString(m, "id", r.ID)
}

func (r *TimerIDRequest) decode(m protoreflect.Message) {
	r.ID = getString(m, "id")
}

// RenameTimerRequest changes a timer label.
type RenameTimerRequest struct {
	// ID is the timer UUID.
	ID string
	// Name is the new label.
	Name string
}

func (*RenameTimerRequest) descriptor() protoreflect.MessageDescriptor { return renameTimerRequestDesc }

func (r *RenameTimerRequest) encode(m protoreflect.Message) {
	if r == nil {
		return
	}

	setString(m, "id", r.ID)
	setString(m, "name", r.Name)
}

func (r *RenameTimerRequest) decode(m protoreflect.Message) {
	r.ID = getString(m, "id")
	r.Name = getString(m, "name")
}

// secondsNanos is the shape shared by google.protobuf.Duration and Timestamp.
type secondsNanos interface {
	GetSeconds() int64
	GetNanos() int32
}

//nolint:ireturn // protoreflect descriptors are interfaces.
func fieldOf(m protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	return m.Descriptor().Fields().ByName(name)
}

func setString(m protoreflect.Message, name protoreflect.Name, value string) {
	if value != "" {
		m.Set(fieldOf(m, name), protoreflect.ValueOfString(value))
	}
}

func getString(m protoreflect.Message, name protoreflect.Name) string {
	return m.Get(fieldOf(m, name)).String()
}

func setDuration(m protoreflect.Message, name protoreflect.Name, d time.Duration) {
	if d != 0 {
		setSecondsNanos(m, name, durationpb.New(d))
	}
}

func getDuration(m protoreflect.Message, name protoreflect.Name) time.Duration {
	seconds, nanos, ok := getSecondsNanos(m, name)
	if !ok {
		return 0
	}

	return (&durationpb.Duration{Seconds: seconds, Nanos: nanos}).AsDuration()
}

func setTime(m protoreflect.Message, name protoreflect.Name, t time.Time) {
	if !t.IsZero() {
		setSecondsNanos(m, name, timestamppb.New(t))
	}
}

func getTime(m protoreflect.Message, name protoreflect.Name) (time.Time, bool) {
	seconds, nanos, ok := getSecondsNanos(m, name)
	if !ok {
		return time.Time{}, false
	}

	return (&timestamppb.Timestamp{Seconds: seconds, Nanos: nanos}).AsTime(), true
}

// setSecondsNanos stores value in the well-known message field name.
func setSecondsNanos(m protoreflect.Message, name protoreflect.Name, value secondsNanos) {
	field := fieldOf(m, name)
	nested := m.NewField(field).Message()
	fields := nested.Descriptor().Fields()

	nested.Set(fields.ByName("seconds"), protoreflect.ValueOfInt64(value.GetSeconds()))
	nested.Set(fields.ByName("nanos"), protoreflect.ValueOfInt32(value.GetNanos()))
	m.Set(field, protoreflect.ValueOfMessage(nested))
}

// getSecondsNanos reads the well-known message field name, reporting whether it is set.
func getSecondsNanos(m protoreflect.Message, name protoreflect.Name) (int64, int32, bool) {
	field := fieldOf(m, name)
	if !m.Has(field) {
		return 0, 0, false
	}

	nested := m.Get(field).Message()
	fields := nested.Descriptor().Fields()

	return nested.Get(fields.ByName("seconds")).Int(),
		int32(nested.Get(fields.ByName("nanos")).Int()), //nolint:gosec // nanos is an int32 field.
		true
}

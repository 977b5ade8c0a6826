package countdown

// State is the run state of a timer.
type State int

const (
	// StateIdle means the timer was never started or has been reset.
	StateIdle State = iota
	// StateRunning means the timer is counting down towards its deadline.
	StateRunning
	// StatePaused means the timer is stopped with time left.
	StatePaused
	// StateFinished means the timer reached zero and waits for a reset.
	StateFinished
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ParseState converts a state name produced by String back into a State.
func ParseState(s string) (State, bool) {
	switch s {
	case "idle":
		return StateIdle, true
	case "running":
		return StateRunning, true
	case "paused":
		return StatePaused, true
	case "finished":
		return StateFinished, true
	default:
		return StateIdle, false
	}
}

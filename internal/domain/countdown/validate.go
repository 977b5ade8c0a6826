package countdown

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxDuration is the longest countdown accepted by ValidateTimer.
const MaxDuration = 99*time.Hour + 59*time.Minute + 59*time.Second

var (
	// ErrEmptyName is returned for a timer name that is empty or blank.
	ErrEmptyName = errors.New("timer name must not be empty")
	// ErrNonPositiveDuration is returned for a zero or negative duration.
	ErrNonPositiveDuration = errors.New("timer duration must be positive")
	// ErrDurationTooLong is returned for a duration above MaxDuration.
	ErrDurationTooLong = errors.New("timer duration is too long")
)

// ValidateTimer checks user input for a new timer.
// The Registry does not call it; input boundaries must, before Add.
func ValidateTimer(name string, duration time.Duration) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if duration <= 0 {
		return ErrNonPositiveDuration
	}

	if duration > MaxDuration {
		return fmt.Errorf("%w: %s exceeds %s", ErrDurationTooLong, duration, MaxDuration)
	}

	return nil
}

// ValidateName checks a timer label.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}

	return nil
}

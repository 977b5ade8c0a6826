package ctl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	api "github.com/oshokin/countdown/internal/api/grpc/countdown"
	domain "github.com/oshokin/countdown/internal/domain/countdown"
)

// errInvalidDuration is returned when a duration argument cannot be parsed.
var errInvalidDuration = errors.New("invalid duration")

// shortIDLength is how many id characters the tables show.
const shortIDLength = 8

// maxClockSeconds bounds clock notation to the longest timer the server accepts.
const maxClockSeconds = int64(domain.MaxDuration / time.Second)

// ParseDuration accepts Go durations ("3m", "1h30m") and clock notation
// ("MM:SS" or "HH:MM:SS"). Clock notation above the longest allowed timer is
// rejected.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if !strings.Contains(s, ":") {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w %q: %w", errInvalidDuration, s, err)
		}

		return d, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w %q", errInvalidDuration, s)
	}

	var total int64

	for _, part := range parts {
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w %q", errInvalidDuration, s)
		}

		// Both operands stay below maxClockSeconds, so this cannot overflow.
		if n > maxClockSeconds {
			return 0, fmt.Errorf("%w %q: longer than %s", errInvalidDuration, s, domain.MaxDuration)
		}

		total = total*60 + n
		if total > maxClockSeconds {
			return 0, fmt.Errorf("%w %q: longer than %s", errInvalidDuration, s, domain.MaxDuration)
		}
	}

	return time.Duration(total) * time.Second, nil
}

// FormatDuration renders d as HH:MM:SS, rounding partial seconds up so a
// countdown shows 00:00:01 until it really ends.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "00:00:00"
	}

	seconds := int64((d + time.Second - 1) / time.Second)

	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// displayRemaining returns what a timer shows at now. Running timers are
// derived from their deadline; the rest report the server's value.
func displayRemaining(timer *api.Timer, now time.Time) time.Duration {
	state, ok := domain.ParseState(timer.GetState())
	if !ok || state != domain.StateRunning || timer.Deadline == nil {
		return timer.Remaining
	}

	return min(max(timer.Deadline.Sub(now), 0), timer.Duration)
}

// shortID trims an id for display.
func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}

	return id[:shortIDLength]
}

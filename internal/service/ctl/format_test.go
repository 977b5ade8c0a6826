package ctl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	api "github.com/oshokin/countdown/internal/api/grpc/countdown"
)

// TestParseDuration covers Go and clock notations.
func TestParseDuration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Duration
	}{
		{in: "3m", want: 3 * time.Minute},
		{in: "1h30m", want: 90 * time.Minute},
		{in: "03:00", want: 3 * time.Minute},
		{in: "1:02:03", want: time.Hour + 2*time.Minute + 3*time.Second},
		{in: " 2m ", want: 2 * time.Minute},
		{in: "99:59:59", want: 99*time.Hour + 59*time.Minute + 59*time.Second},
		{in: "5999:59", want: 99*time.Hour + 59*time.Minute + 59*time.Second},
	}

	for _, tc := range cases {
		got, err := ParseDuration(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}

	invalid := []string{
		"", "soon", "45", "1:2:3:4", "1:-2", "a:10",
		"100:00:00",
		"0:36028797018964268",
		"0:99999999999999999999",
		"153722867:0:0",
	}

	for _, bad := range invalid {
		_, err := ParseDuration(bad)
		require.ErrorIs(t, err, errInvalidDuration, bad)
	}
}

// TestFormatDuration checks clock rendering rounds partial seconds up.
func TestFormatDuration(t *testing.T) {
	t.Parallel()

	require.Equal(t, "00:00:00", FormatDuration(0))
	require.Equal(t, "00:00:00", FormatDuration(-time.Second))
	require.Equal(t, "00:00:01", FormatDuration(time.Millisecond))
	require.Equal(t, "00:03:00", FormatDuration(3*time.Minute))
	require.Equal(t, "00:03:00", FormatDuration(2*time.Minute+59*time.Second+400*time.Millisecond))
	require.Equal(t, "99:59:59", FormatDuration(99*time.Hour+59*time.Minute+59*time.Second))
}

// TestDisplayRemaining checks running timers count from their deadline.
func TestDisplayRemaining(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(100 * time.Second)

	running := &api.Timer{
		Duration:  3 * time.Minute,
		Remaining: 3 * time.Minute,
		State:     "running",
		Deadline:  &deadline,
	}

	require.Equal(t, 100*time.Second, displayRemaining(running, now))
	require.Zero(t, displayRemaining(running, now.Add(time.Hour)))
	require.Equal(t, 3*time.Minute, displayRemaining(running, now.Add(-time.Hour)))

	paused := &api.Timer{Duration: 3 * time.Minute, Remaining: time.Minute, State: "paused"}
	require.Equal(t, time.Minute, displayRemaining(paused, now))

	unknown := &api.Timer{Duration: 3 * time.Minute, Remaining: time.Minute, State: "Running", Deadline: &deadline}
	require.Equal(t, time.Minute, displayRemaining(unknown, now))
}

package countdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidateTimer checks the input rules for new timers.
func TestValidateTimer(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		label    string
		duration time.Duration
		want     error
	}{
		{name: "ok", label: "Tea", duration: 3 * time.Minute},
		{name: "max", label: "Long", duration: MaxDuration},
		{name: "empty name", label: "", duration: time.Minute, want: ErrEmptyName},
		{name: "blank name", label: "  \t", duration: time.Minute, want: ErrEmptyName},
		{name: "zero", label: "Tea", duration: 0, want: ErrNonPositiveDuration},
		{name: "negative", label: "Tea", duration: -time.Second, want: ErrNonPositiveDuration},
		{name: "too long", label: "Tea", duration: MaxDuration + time.Second, want: ErrDurationTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateTimer(tc.label, tc.duration)
			if tc.want == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tc.want)
		})
	}
}

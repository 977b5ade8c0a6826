package ctl

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	api "github.com/oshokin/countdown/internal/api/grpc/countdown"
	"github.com/oshokin/countdown/internal/repository/journal"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

// newTable returns a tab-aligned writer over w.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// renderTimers writes a table of timers as seen at now.
func renderTimers(w io.Writer, timers []*api.Timer, now time.Time) error {
	if len(timers) == 0 {
		_, err := fmt.Fprintln(w, "No timers.")

		return err
	}

	table := newTable(w)

	_, _ = fmt.Fprintln(table, "ID\tNAME\tSTATE\tREMAINING\tDURATION")

	for _, timer := range timers {
		_, _ = fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n",
			shortID(timer.GetID()),
			timer.Name,
			timer.GetState(),
			FormatDuration(displayRemaining(timer, now)),
			FormatDuration(timer.Duration))
	}

	return table.Flush()
}

// renderTimer writes a single timer line prefixed by verb. The timer is shown
// as of the server time it carries; now is used only when it has none.
func renderTimer(w io.Writer, verb string, timer *api.Timer, now time.Time) error {
	if !timer.ServerTime.IsZero() {
		now = timer.ServerTime
	}

	_, err := fmt.Fprintf(w, "%s %s %q: %s, %s left\n",
		verb,
		shortID(timer.GetID()),
		timer.Name,
		timer.GetState(),
		FormatDuration(displayRemaining(timer, now)))

	return err
}

// renderHistory writes journal entries with their age relative to now.
func renderHistory(w io.Writer, entries []*journal.Entry, now time.Time) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No alerts yet.")

		return err
	}

	table := newTable(w)

	_, _ = fmt.Fprintln(table, "DELIVERED\tWHEN\tID\tNAME\tREASON")

	for _, entry := range entries {
		_, _ = fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n",
			entry.DeliveredAt.Local().Format(time.DateTime),
			humanize.RelTime(entry.DeliveredAt, now, "ago", "from now"),
			shortID(entry.TimerID.String()),
			entry.Name,
			entry.Reason)
	}

	return table.Flush()
}

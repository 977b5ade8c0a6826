package alert

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/countdown/internal/repository/journal"
)

// TestCommandSink_Args checks placeholders are substituted in every argument.
func TestCommandSink_Args(t *testing.T) {
	t.Parallel()

	sink, err := NewCommandSink([]string{"notify-send", "Timer {name} done", "--hint=string:id:{id}"})
	require.NoError(t, err)

	id := uuid.New()
	args := sink.Args(&Alert{TimerID: id, Name: "Tea"})

	require.Equal(t, []string{"notify-send", "Timer Tea done", "--hint=string:id:" + id.String()}, args)
}

// TestCommandSink_Empty checks an empty command is rejected.
func TestCommandSink_Empty(t *testing.T) {
	t.Parallel()

	_, err := NewCommandSink(nil)
	require.Error(t, err)

	_, err = NewCommandSink([]string{"  "})
	require.Error(t, err)
}

// TestCommandSink_Deliver runs real commands and checks failures are reported.
func TestCommandSink_Deliver(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX true/false")
	}

	for _, name := range []string{"true", "false"} {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s is not available: %v", name, err)
		}
	}

	ok, err := NewCommandSink([]string{"true", "{name}"})
	require.NoError(t, err)
	require.NoError(t, ok.Deliver(context.Background(), &Alert{TimerID: uuid.New(), Name: "Tea"}))

	failing, err := NewCommandSink([]string{"false"})
	require.NoError(t, err)
	require.Error(t, failing.Deliver(context.Background(), &Alert{TimerID: uuid.New(), Name: "Tea"}))
}

// TestJournalSink_Deliver checks alerts end up in the journal file.
func TestJournalSink_Deliver(t *testing.T) {
	t.Parallel()

	repo := journal.NewFileJournal(filepath.Join(t.TempDir(), "alerts.jsonl"))
	sink := NewJournalSink(repo)

	deadline := time.Date(2024, time.March, 1, 12, 3, 0, 0, time.UTC)
	alert := &Alert{
		TimerID:     uuid.New(),
		Name:        "Tea",
		Deadline:    deadline,
		DeliveredAt: deadline,
		Reason:      ReasonDeadline,
	}

	require.NoError(t, sink.Deliver(context.Background(), alert))
	require.NoError(t, LogSink{}.Deliver(context.Background(), alert))

	entries, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, alert.TimerID, entries[0].TimerID)
	require.Equal(t, "deadline", entries[0].Reason)
	require.Equal(t, deadline, entries[0].Deadline)
}

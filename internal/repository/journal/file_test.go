package journal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestFileJournal_NotFound verifies Load returns ErrNotFound for a missing file.
func TestFileJournal_NotFound(t *testing.T) {
	t.Parallel()

	j := NewFileJournal(filepath.Join(t.TempDir(), "missing.jsonl"))

	entries, err := j.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, entries)
}

// TestFileJournal_AppendLoad checks entries come back in append order, one per line.
func TestFileJournal_AppendLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alerts.jsonl")
	j := NewFileJournal(path)
	ctx := context.Background()

	deadline := time.Date(2024, time.March, 1, 12, 3, 0, 0, time.UTC)
	want := []*Entry{
		{
			TimerID:     uuid.New(),
			Name:        "Tea",
			Deadline:    deadline,
			DeliveredAt: deadline.Add(12 * time.Millisecond),
			Reason:      "deadline",
		},
		{
			TimerID:     uuid.New(),
			Name:        "Eggs, \"soft\"\nboiled",
			DeliveredAt: deadline.Add(time.Minute),
			Reason:      "finished",
		},
	}

	for _, e := range want {
		require.NoError(t, j.Append(ctx, e))
	}

	got, err := j.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(string(contents)), "\n"), len(want))
}

// TestFileJournal_Corrupted checks a broken line is reported with its number.
func TestFileJournal_Corrupted(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alerts.jsonl")
	j := NewFileJournal(path)

	require.NoError(t, j.Append(context.Background(), &Entry{TimerID: uuid.New(), Name: "Tea"}))

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)

	_, err = file.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	_, err = j.Load(context.Background())
	require.ErrorContains(t, err, "line 2")
}

// TestFileJournal_NilEntry checks nil entries are rejected.
func TestFileJournal_NilEntry(t *testing.T) {
	t.Parallel()

	j := NewFileJournal(filepath.Join(t.TempDir(), "alerts.jsonl"))
	require.Error(t, j.Append(context.Background(), nil))
}

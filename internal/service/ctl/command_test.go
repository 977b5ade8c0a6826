package ctl

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	api "github.com/oshokin/countdown/internal/api/grpc/countdown"
	"github.com/oshokin/countdown/internal/config"
	domain "github.com/oshokin/countdown/internal/domain/countdown"
	"github.com/oshokin/countdown/internal/repository/journal"
	"github.com/oshokin/countdown/internal/service/common"
)

// syncBuffer is a bytes.Buffer safe for the watch goroutine.
type syncBuffer struct {
	// buf holds the output.
	buf bytes.Buffer
	// mu protects buf.
	mu sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf.Reset()
}

// newTestController serves a fresh registry on loopback and returns a
// controller talking to it.
func newTestController(t *testing.T, settings *config.Config) (*Controller, *domain.Registry, *syncBuffer) {
	t.Helper()

	lc := net.ListenConfig{}

	lis, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	registry := domain.NewRegistry()
	done := make(chan struct{})

	grpcServer := grpc.NewServer()
	api.RegisterTimerServiceServer(grpcServer, api.NewServer(registry, api.WithDone(done)))

	go func() {
		_ = grpcServer.Serve(lis)
	}()

	client, err := common.Dial(context.Background(), lis.Addr().String(), common.WithCallTimeout(5*time.Second))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()

		close(done)
		grpcServer.Stop()
	})

	if settings == nil {
		settings = new(config.Config)
		require.NoError(t, config.Validate(settings))
	}

	out := new(syncBuffer)

	return newController(client, settings, out), registry, out
}

// TestController_Commands walks a timer through every command by name and id prefix.
func TestController_Commands(t *testing.T) {
	t.Parallel()

	c, registry, out := newTestController(t, nil)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "Tea", 3*time.Minute))
	require.Contains(t, out.String(), `Added`)
	require.Contains(t, out.String(), `"Tea": idle, 00:03:00 left`)

	tea := registry.Timers()[0]

	out.Reset()
	require.NoError(t, c.Start(ctx, "Tea"))
	require.Contains(t, out.String(), "Started "+tea.ID.String()[:shortIDLength])

	out.Reset()
	require.NoError(t, c.Pause(ctx, tea.ID.String()[:6]))
	require.Contains(t, out.String(), "paused")

	out.Reset()
	require.NoError(t, c.Rename(ctx, tea.ID.String(), "Green tea"))
	require.Contains(t, out.String(), `"Green tea"`)

	out.Reset()
	require.NoError(t, c.Reset(ctx, "Green tea"))
	require.Contains(t, out.String(), "idle, 00:03:00 left")

	require.NoError(t, c.Add(ctx, "Eggs", 7*time.Minute))

	out.Reset()
	require.NoError(t, c.List(ctx))
	require.Contains(t, out.String(), "NAME")
	require.Contains(t, out.String(), "Green tea")
	require.Contains(t, out.String(), "00:07:00")

	out.Reset()
	require.NoError(t, c.ResetAll(ctx))
	require.Equal(t, 3, strings.Count(out.String(), "\n"))

	require.NoError(t, c.Remove(ctx, "Eggs"))
	require.Equal(t, 1, registry.Len())

	require.ErrorIs(t, c.Start(ctx, "Rice"), ErrTimerNotFound)
	require.Error(t, c.Add(ctx, "", time.Minute))
}

// TestController_ListEmpty prints a placeholder for an empty registry.
func TestController_ListEmpty(t *testing.T) {
	t.Parallel()

	c, _, out := newTestController(t, nil)

	require.NoError(t, c.List(context.Background()))
	require.Equal(t, "No timers.\n", out.String())
}

// TestMatchTimer covers id, prefix and name resolution.
func TestMatchTimer(t *testing.T) {
	t.Parallel()

	a := &api.Timer{ID: "aaaa1111-0000-0000-0000-000000000000", Name: "Tea"}
	b := &api.Timer{ID: "aaaa2222-0000-0000-0000-000000000000", Name: "Tea"}
	c := &api.Timer{ID: "bbbb3333-0000-0000-0000-000000000000", Name: "Eggs"}
	timers := []*api.Timer{a, b, c}

	got, err := matchTimer(timers, b.ID)
	require.NoError(t, err)
	require.Same(t, b, got)

	got, err = matchTimer(timers, "AAAA1")
	require.NoError(t, err)
	require.Same(t, a, got)

	got, err = matchTimer(timers, "Eggs")
	require.NoError(t, err)
	require.Same(t, c, got)

	_, err = matchTimer(timers, "aaaa")
	require.ErrorIs(t, err, ErrAmbiguousTimer)

	_, err = matchTimer(timers, "Tea")
	require.ErrorIs(t, err, ErrAmbiguousTimer)

	_, err = matchTimer(timers, "Rice")
	require.ErrorIs(t, err, ErrTimerNotFound)

	_, err = matchTimer(timers, " ")
	require.ErrorIs(t, err, ErrTimerNotFound)
}

// TestController_History prints the last journal entries.
func TestController_History(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alerts.jsonl")
	settings := &config.Config{Alerts: config.Alerts{JournalFile: path}}
	require.NoError(t, config.Validate(settings))

	c, _, out := newTestController(t, settings)
	ctx := context.Background()

	require.NoError(t, c.History(ctx, 0))
	require.Equal(t, "No alerts yet.\n", out.String())

	repo := journal.NewFileJournal(path)
	delivered := time.Now().Add(-5 * time.Minute)

	for _, name := range []string{"Tea", "Eggs", "Rice"} {
		require.NoError(t, repo.Append(ctx, &journal.Entry{
			TimerID:     uuid.New(),
			Name:        name,
			DeliveredAt: delivered,
			Reason:      "deadline",
		}))
	}

	out.Reset()
	require.NoError(t, c.History(ctx, 2))

	text := out.String()
	require.NotContains(t, text, "Tea")
	require.Contains(t, text, "Eggs")
	require.Contains(t, text, "Rice")
	require.Contains(t, text, "5 minutes ago")
}

// TestShowHistory reads the journal named by the settings file.
func TestShowHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, config.DefaultConfigFilename)
	journalPath := filepath.Join(dir, "alerts.jsonl")

	require.NoError(t, config.Save(configPath, &config.Config{
		Alerts: config.Alerts{JournalFile: journalPath},
	}))

	require.NoError(t, journal.NewFileJournal(journalPath).Append(context.Background(), &journal.Entry{
		TimerID:     uuid.New(),
		Name:        "Tea",
		DeliveredAt: time.Now(),
		Reason:      "finished",
	}))

	out := new(bytes.Buffer)

	require.NoError(t, ShowHistory(context.Background(), &Options{ConfigPath: configPath, Out: out}, 0))
	require.Contains(t, out.String(), "Tea")
	require.Contains(t, out.String(), "finished")
}

// TestController_HistoryDisabled explains how to enable the journal.
func TestController_HistoryDisabled(t *testing.T) {
	t.Parallel()

	c, _, out := newTestController(t, nil)

	require.NoError(t, c.History(context.Background(), 10))
	require.Contains(t, out.String(), "alerts.journal_file")
}

// TestController_Watch checks the view redraws on server changes and ends
// cleanly when the context is cancelled.
func TestController_Watch(t *testing.T) {
	t.Parallel()

	c, registry, out := newTestController(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)

	go func() {
		result <- c.Watch(ctx, &WatchOptions{Refresh: 10 * time.Millisecond})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "No timers.")
	}, 5*time.Second, 10*time.Millisecond)

	registry.Add("Tea", time.Minute)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Tea")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "watch did not stop")
	}
}

// TestController_SingleTimerUsesServerTime checks one-timer output is not
// skewed by a local clock that disagrees with the server.
func TestController_SingleTimerUsesServerTime(t *testing.T) {
	t.Parallel()

	c, _, out := newTestController(t, nil)
	c.now = func() time.Time { return time.Now().Add(time.Hour) }

	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "Tea", 3*time.Minute))

	out.Reset()
	require.NoError(t, c.Start(ctx, "Tea"))
	require.Contains(t, out.String(), `"Tea": running, 00:03:00 left`)
}

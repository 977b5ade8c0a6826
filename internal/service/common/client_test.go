//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	api "github.com/oshokin/countdown/internal/api/grpc/countdown"
	domain "github.com/oshokin/countdown/internal/domain/countdown"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	_, ok := ctx.Deadline()
	require.False(t, ok)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_withActor checks the actor travels as outgoing metadata.
func TestClient_withActor(t *testing.T) {
	t.Parallel()

	c := &Client{actor: &Actor{Hostname: "kitchen", Username: "alice"}}

	md, ok := metadata.FromOutgoingContext(c.withActor(context.Background()))
	require.True(t, ok)
	require.Equal(t, []string{"alice@kitchen"}, md.Get(api.ActorMetadataKey))

	c.actor = nil

	_, ok = metadata.FromOutgoingContext(c.withActor(context.Background()))
	require.False(t, ok)
}

// startServer serves a fresh registry on a loopback port and returns its address.
func startServer(t *testing.T) string {
	t.Helper()

	lc := net.ListenConfig{}

	lis, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	grpcServer := grpc.NewServer()
	api.RegisterTimerServiceServer(grpcServer, api.NewServer(domain.NewRegistry()))

	go func() {
		_ = grpcServer.Serve(lis)
	}()

	t.Cleanup(grpcServer.Stop)

	return lis.Addr().String()
}

// TestClient_RoundTrip drives every unary call through a real server.
func TestClient_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, startServer(t),
		WithCallTimeout(2*time.Second),
		WithActor(&Actor{Hostname: "kitchen", Username: "alice"}))
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })

	tea, err := c.AddTimer(ctx, "Tea", 3*time.Minute)
	require.NoError(t, err)
	require.Equal(t, "idle", tea.GetState())

	_, err = c.AddTimer(ctx, "", time.Minute)
	require.Error(t, err)

	started, err := c.StartTimer(ctx, tea.ID)
	require.NoError(t, err)
	require.Equal(t, "running", started.GetState())

	paused, err := c.PauseTimer(ctx, tea.ID)
	require.NoError(t, err)
	require.Equal(t, "paused", paused.GetState())

	renamed, err := c.RenameTimer(ctx, tea.ID, "Green tea")
	require.NoError(t, err)
	require.Equal(t, "Green tea", renamed.Name)

	reset, err := c.ResetTimer(ctx, tea.ID)
	require.NoError(t, err)
	require.Equal(t, 3*time.Minute, reset.Remaining)

	list, err := c.ResetAll(ctx)
	require.NoError(t, err)
	require.Len(t, list.GetTimers(), 1)

	require.NoError(t, c.RemoveTimer(ctx, tea.ID))

	list, err = c.ListTimers(ctx)
	require.NoError(t, err)
	require.Empty(t, list.GetTimers())
}

// TestClient_Close tolerates a nil client.
func TestClient_Close(t *testing.T) {
	t.Parallel()

	var c *Client

	require.NoError(t, c.Close())
}

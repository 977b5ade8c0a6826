package countdown

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	domain "github.com/oshokin/countdown/internal/domain/countdown"
)

// fixedClock always returns the same instant.
type fixedClock struct {
	// now is the instant returned by Now.
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// testNow is the instant used by the fixed clocks below.
var testNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// newTestServer returns a Server over a registry with a fixed clock.
func newTestServer(opts ...Option) (*Server, *domain.Registry) {
	clock := fixedClock{now: testNow}
	registry := domain.NewRegistry(domain.WithClock(clock))

	opts = append([]Option{WithClock(clock)}, opts...)

	return NewServer(registry, opts...), registry
}

// TestServer_AddTimer_Validation ensures invalid input never reaches the registry.
func TestServer_AddTimer_Validation(t *testing.T) {
	t.Parallel()

	s, registry := newTestServer()
	ctx := context.Background()

	cases := []*AddTimerRequest{
		nil,
		{Name: "", Duration: time.Minute},
		{Name: "   ", Duration: time.Minute},
		{Name: "Tea", Duration: 0},
		{Name: "Tea", Duration: -time.Second},
		{Name: "Tea", Duration: domain.MaxDuration + time.Second},
	}

	for _, req := range cases {
		_, err := s.AddTimer(ctx, req)
		require.Equal(t, codes.InvalidArgument, status.Code(err), "%+v", req)
	}

	require.Zero(t, registry.Len())
}

// TestServer_Lifecycle exercises add, start, pause, rename, reset and remove.
func TestServer_Lifecycle(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer()
	ctx := context.Background()

	added, err := s.AddTimer(ctx, &AddTimerRequest{Name: "Tea", Duration: 3 * time.Minute})
	require.NoError(t, err)
	require.Equal(t, "idle", added.GetState())
	require.Nil(t, added.Deadline)

	started, err := s.StartTimer(ctx, &TimerIDRequest{ID: added.ID})
	require.NoError(t, err)
	require.Equal(t, "running", started.GetState())
	require.NotNil(t, started.Deadline)
	require.Equal(t, testNow.Add(3*time.Minute), *started.Deadline)

	paused, err := s.PauseTimer(ctx, &TimerIDRequest{ID: added.ID})
	require.NoError(t, err)
	require.Equal(t, "paused", paused.GetState())
	require.Equal(t, 3*time.Minute, paused.Remaining)

	renamed, err := s.RenameTimer(ctx, &RenameTimerRequest{ID: added.ID, Name: "Green tea"})
	require.NoError(t, err)
	require.Equal(t, "Green tea", renamed.Name)
	require.Equal(t, "paused", renamed.GetState())

	_, err = s.RenameTimer(ctx, &RenameTimerRequest{ID: added.ID, Name: " "})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	reset, err := s.ResetTimer(ctx, &TimerIDRequest{ID: added.ID})
	require.NoError(t, err)
	require.Equal(t, "idle", reset.GetState())

	list, err := s.ListTimers(ctx, new(Empty))
	require.NoError(t, err)
	require.Len(t, list.GetTimers(), 1)
	require.Equal(t, testNow, list.ServerTime)

	_, err = s.RemoveTimer(ctx, &TimerIDRequest{ID: added.ID})
	require.NoError(t, err)

	list, err = s.ListTimers(ctx, new(Empty))
	require.NoError(t, err)
	require.Empty(t, list.GetTimers())
}

// TestServer_IDErrors checks malformed and unknown ids map to the right codes.
func TestServer_IDErrors(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer()
	ctx := context.Background()

	_, err := s.StartTimer(ctx, &TimerIDRequest{ID: "not-a-uuid"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.StartTimer(ctx, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	unknown := &TimerIDRequest{ID: uuid.NewString()}

	_, err = s.PauseTimer(ctx, unknown)
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = s.ResetTimer(ctx, unknown)
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = s.RenameTimer(ctx, &RenameTimerRequest{ID: unknown.ID, Name: "Tea"})
	require.Equal(t, codes.NotFound, status.Code(err))

	// Removing an unknown timer is not an error.
	_, err = s.RemoveTimer(ctx, unknown)
	require.NoError(t, err)
}

// TestServer_ResetAll checks every timer comes back idle.
func TestServer_ResetAll(t *testing.T) {
	t.Parallel()

	s, registry := newTestServer()
	ctx := context.Background()

	tea := registry.Add("Tea", time.Minute)
	registry.Add("Eggs", 2*time.Minute)

	_, err := registry.Start(tea.ID)
	require.NoError(t, err)

	list, err := s.ResetAll(ctx, new(Empty))
	require.NoError(t, err)
	require.Len(t, list.GetTimers(), 2)

	for _, timer := range list.GetTimers() {
		require.Equal(t, "idle", timer.GetState())
		require.Equal(t, timer.Duration, timer.Remaining)
	}
}

// dialBufconn serves s over an in-memory listener and returns a client.
func dialBufconn(t *testing.T, s *Server) TimerServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	grpcServer := grpc.NewServer()
	RegisterTimerServiceServer(grpcServer, s)

	go func() {
		_ = grpcServer.Serve(lis)
	}()

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()

		grpcServer.Stop()
	})

	return NewTimerServiceClient(conn)
}

// TestTimerService_OverTheWire checks the protobuf messages and descriptor end to end.
func TestTimerService_OverTheWire(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer()
	client := dialBufconn(t, s)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	added, err := client.AddTimer(ctx, &AddTimerRequest{Name: "Tea", Duration: 180 * time.Second})
	require.NoError(t, err)
	require.Equal(t, "Tea", added.Name)
	require.Equal(t, 180*time.Second, added.Duration)

	_, err = client.AddTimer(ctx, &AddTimerRequest{Name: "", Duration: time.Second})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	started, err := client.StartTimer(ctx, &TimerIDRequest{ID: added.ID})
	require.NoError(t, err)
	require.Equal(t, "running", started.GetState())
	require.True(t, testNow.Add(180*time.Second).Equal(*started.Deadline))
	require.True(t, testNow.Equal(started.ServerTime))
	require.Equal(t, 180*time.Second, started.Remaining)

	list, err := client.ListTimers(ctx, new(Empty))
	require.NoError(t, err)
	require.Len(t, list.GetTimers(), 1)
	require.Equal(t, added.ID, list.GetTimers()[0].GetID())
	require.True(t, testNow.Equal(list.ServerTime))

	renamed, err := client.RenameTimer(ctx, &RenameTimerRequest{ID: added.ID, Name: "Green tea"})
	require.NoError(t, err)
	require.Equal(t, "Green tea", renamed.Name)

	_, err = client.RemoveTimer(ctx, &TimerIDRequest{ID: added.ID})
	require.NoError(t, err)

	list, err = client.ResetAll(ctx, new(Empty))
	require.NoError(t, err)
	require.Empty(t, list.GetTimers())
}

// TestTimerService_Watch checks the stream sends the initial list and every change.
func TestTimerService_Watch(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	s, registry := newTestServer(WithDone(done))
	client := dialBufconn(t, s)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.WatchTimers(ctx, new(Empty))
	require.NoError(t, err)

	first, err := stream.Recv()
	require.NoError(t, err)
	require.Empty(t, first.GetTimers())

	registry.Add("Tea", time.Minute)

	second, err := stream.Recv()
	require.NoError(t, err)
	require.Len(t, second.GetTimers(), 1)
	require.Equal(t, "Tea", second.GetTimers()[0].Name)

	close(done)

	_, err = stream.Recv()
	require.Equal(t, codes.Unavailable, status.Code(err))
}

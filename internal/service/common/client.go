//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	api "github.com/oshokin/countdown/internal/api/grpc/countdown"
	"github.com/oshokin/countdown/internal/config"
)

// Client wraps the TimerService client with timeouts and caller identity.
type Client struct {
	// conn is the underlying gRPC connection.
	conn *grpc.ClientConn
	// api is the TimerService client.
	api api.TimerServiceClient
	// callTimeout bounds every unary call.
	callTimeout time.Duration
	// actor is sent with every call for the server's audit log.
	actor *Actor
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for unary calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor identifies the caller to the server.
func WithActor(actor *Actor) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial creates a client for the countdown server at address.
// The connection uses insecure transport credentials; the server is meant to
// listen on loopback or a trusted network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial countdown server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewTimerServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// AddTimer creates a timer.
func (c *Client) AddTimer(ctx context.Context, name string, duration time.Duration) (*api.Timer, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	timer, err := c.api.AddTimer(callCtx, &api.AddTimerRequest{Name: name, Duration: duration})
	if err != nil {
		return nil, fmt.Errorf("add timer: %w", err)
	}

	return timer, nil
}

// RemoveTimer deletes a timer.
func (c *Client) RemoveTimer(ctx context.Context, id string) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.api.RemoveTimer(callCtx, &api.TimerIDRequest{ID: id}); err != nil {
		return fmt.Errorf("remove timer: %w", err)
	}

	return nil
}

// StartTimer starts or resumes a timer.
func (c *Client) StartTimer(ctx context.Context, id string) (*api.Timer, error) {
	return c.byID(ctx, "start", id, c.api.StartTimer)
}

// PauseTimer pauses a timer.
func (c *Client) PauseTimer(ctx context.Context, id string) (*api.Timer, error) {
	return c.byID(ctx, "pause", id, c.api.PauseTimer)
}

// ResetTimer resets a timer.
func (c *Client) ResetTimer(ctx context.Context, id string) (*api.Timer, error) {
	return c.byID(ctx, "reset", id, c.api.ResetTimer)
}

// RenameTimer changes a timer label.
func (c *Client) RenameTimer(ctx context.Context, id, name string) (*api.Timer, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	timer, err := c.api.RenameTimer(callCtx, &api.RenameTimerRequest{ID: id, Name: name})
	if err != nil {
		return nil, fmt.Errorf("rename timer: %w", err)
	}

	return timer, nil
}

// ResetAll resets every timer.
func (c *Client) ResetAll(ctx context.Context) (*api.TimerList, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	list, err := c.api.ResetAll(callCtx, new(api.Empty))
	if err != nil {
		return nil, fmt.Errorf("reset all timers: %w", err)
	}

	return list, nil
}

// ListTimers returns every timer.
func (c *Client) ListTimers(ctx context.Context) (*api.TimerList, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	list, err := c.api.ListTimers(callCtx, new(api.Empty))
	if err != nil {
		return nil, fmt.Errorf("list timers: %w", err)
	}

	return list, nil
}

// WatchTimers streams the timer list until ctx is cancelled. It has no call
// timeout because the stream is meant to stay open.
//
//nolint:ireturn // The generated-style stream interface is the natural return type.
func (c *Client) WatchTimers(ctx context.Context) (api.TimerService_WatchTimersClient, error) {
	stream, err := c.api.WatchTimers(c.withActor(ctx), new(api.Empty))
	if err != nil {
		return nil, fmt.Errorf("watch timers: %w", err)
	}

	return stream, nil
}

// byID performs a unary call addressed by timer id.
func (c *Client) byID(
	ctx context.Context,
	action string,
	id string,
	call func(context.Context, *api.TimerIDRequest, ...grpc.CallOption) (*api.Timer, error),
) (*api.Timer, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	timer, err := call(callCtx, &api.TimerIDRequest{ID: id})
	if err != nil {
		return nil, fmt.Errorf("%s timer: %w", action, err)
	}

	return timer, nil
}

// callContext returns a context with the client's call timeout and caller
// identity, or a cancellable child without a deadline when no timeout is set.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = c.withActor(ctx)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

// withActor adds the caller identity to the outgoing metadata.
func (c *Client) withActor(ctx context.Context) context.Context {
	if c.actor == nil {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx, api.ActorMetadataKey, c.actor.String())
}

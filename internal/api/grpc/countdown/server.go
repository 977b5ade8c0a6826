package countdown

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/oshokin/countdown/internal/domain/countdown"
	"github.com/oshokin/countdown/internal/logger"
)

// Registry abstracts the timer operations the transport layer depends on.
type Registry interface {
	Add(name string, duration time.Duration) domain.Snapshot
	Remove(id uuid.UUID) bool
	Start(id uuid.UUID) (domain.Snapshot, error)
	Pause(id uuid.UUID) (domain.Snapshot, error)
	Reset(id uuid.UUID) (domain.Snapshot, error)
	Rename(id uuid.UUID, name string) (domain.Snapshot, error)
	ResetAll() []domain.Snapshot
	Timers() []domain.Snapshot
	Subscribe() (<-chan struct{}, func())
}

// Server implements TimerServiceServer on top of a Registry.
type Server struct {
	// registry owns the timers.
	registry Registry
	// now stamps timer lists with the server time.
	now func() time.Time
	// done ends open watch streams when closed.
	done <-chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock used to stamp responses with the server time.
func WithClock(clock domain.Clock) Option {
	return func(s *Server) {
		if clock != nil {
			s.now = clock.Now
		}
	}
}

// WithDone ends every watch stream once done is closed, so a graceful stop
// does not wait for clients that watch forever.
func WithDone(done <-chan struct{}) Option {
	return func(s *Server) {
		s.done = done
	}
}

// NewServer wires registry into a TimerService handler.
func NewServer(registry Registry, opts ...Option) *Server {
	s := &Server{
		registry: registry,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

var _ TimerServiceServer = (*Server)(nil)

// AddTimer validates the input and appends a new idle timer.
func (s *Server) AddTimer(ctx context.Context, req *AddTimerRequest) (*Timer, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := domain.ValidateTimer(req.Name, req.Duration); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	snapshot := s.registry.Add(req.Name, req.Duration)

	logger.InfoKV(ctx, "Timer added", "timer_id", snapshot.ID, "timer_name", snapshot.Name, "duration", snapshot.Duration)

	return toProtoTimer(&snapshot, s.now()), nil
}

// RemoveTimer deletes a timer; unknown ids succeed without effect.
func (s *Server) RemoveTimer(ctx context.Context, req *TimerIDRequest) (*Empty, error) {
	id, err := parseID(req)
	if err != nil {
		return nil, err
	}

	if s.registry.Remove(id) {
		logger.InfoKV(ctx, "Timer removed", "timer_id", id)
	}

	return new(Empty), nil
}

// StartTimer starts or resumes a timer.
func (s *Server) StartTimer(ctx context.Context, req *TimerIDRequest) (*Timer, error) {
	return s.transition(ctx, req, "start", s.registry.Start)
}

// PauseTimer pauses a running timer.
func (s *Server) PauseTimer(ctx context.Context, req *TimerIDRequest) (*Timer, error) {
	return s.transition(ctx, req, "pause", s.registry.Pause)
}

// ResetTimer returns a timer to idle.
func (s *Server) ResetTimer(ctx context.Context, req *TimerIDRequest) (*Timer, error) {
	return s.transition(ctx, req, "reset", s.registry.Reset)
}

// RenameTimer changes a timer label.
func (s *Server) RenameTimer(ctx context.Context, req *RenameTimerRequest) (*Timer, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := domain.ValidateName(req.Name); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	return s.transition(ctx, &TimerIDRequest{ID: req.ID}, "rename", func(id uuid.UUID) (domain.Snapshot, error) {
		return s.registry.Rename(id, req.Name)
	})
}

// ResetAll resets every timer.
func (s *Server) ResetAll(ctx context.Context, _ *Empty) (*TimerList, error) {
	snapshots := s.registry.ResetAll()

	logger.InfoKV(ctx, "All timers reset", "count", len(snapshots))

	return s.toProtoList(snapshots), nil
}

// ListTimers returns every timer in registry order.
func (s *Server) ListTimers(_ context.Context, _ *Empty) (*TimerList, error) {
	return s.toProtoList(s.registry.Timers()), nil
}

// WatchTimers sends the timer list now and after every change until the
// client leaves or the server shuts down.
func (s *Server) WatchTimers(_ *Empty, stream TimerService_WatchTimersServer) error {
	ctx := stream.Context()

	changes, unsubscribe := s.registry.Subscribe()
	defer unsubscribe()

	logger.Debug(ctx, "Watcher subscribed")

	for {
		if err := stream.Send(s.toProtoList(s.registry.Timers())); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			logger.Debug(ctx, "Watcher left")

			return nil
		case <-s.done:
			return status.Error(codes.Unavailable, "server is shutting down")
		case <-changes:
		}
	}
}

// transition resolves the timer id and applies op, mapping domain errors to gRPC codes.
func (s *Server) transition(
	ctx context.Context,
	req *TimerIDRequest,
	action string,
	op func(uuid.UUID) (domain.Snapshot, error),
) (*Timer, error) {
	id, err := parseID(req)
	if err != nil {
		return nil, err
	}

	snapshot, err := op(id)
	if err != nil {
		if errors.Is(err, domain.ErrTimerNotFound) {
			return nil, status.Errorf(codes.NotFound, "timer %s not found", id)
		}

		return nil, status.Error(codes.Internal, "unable to "+action+" timer")
	}

	logger.DebugKV(ctx, "Timer "+action, "timer_id", id, "state", snapshot.State, "remaining", snapshot.Remaining)

	return toProtoTimer(&snapshot, s.now()), nil
}

// parseID extracts the timer id from the request.
func parseID(req *TimerIDRequest) (uuid.UUID, error) {
	if req == nil {
		return uuid.Nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid timer id %q", req.ID)
	}

	return id, nil
}

// toProtoList converts snapshots into a TimerList stamped with the server time.
func (s *Server) toProtoList(snapshots []domain.Snapshot) *TimerList {
	now := s.now()

	timers := make([]*Timer, 0, len(snapshots))
	for i := range snapshots {
		timers = append(timers, toProtoTimer(&snapshots[i], now))
	}

	return &TimerList{
		Timers:     timers,
		ServerTime: now,
	}
}

// toProtoTimer converts a domain snapshot taken at now into its wire form.
func toProtoTimer(snapshot *domain.Snapshot, now time.Time) *Timer {
	var deadline *time.Time
	if snapshot.State == domain.StateRunning && !snapshot.Deadline.IsZero() {
		d := snapshot.Deadline
		deadline = &d
	}

	return &Timer{
		ID:         snapshot.ID.String(),
		Name:       snapshot.Name,
		Duration:   snapshot.Duration,
		Remaining:  snapshot.Remaining,
		State:      snapshot.State.String(),
		Deadline:   deadline,
		ServerTime: now,
	}
}

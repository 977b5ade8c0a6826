package ctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	api "github.com/oshokin/countdown/internal/api/grpc/countdown"
	"github.com/oshokin/countdown/internal/logger"
)

// DefaultRefreshInterval is how often the watch view redraws between updates.
const DefaultRefreshInterval = time.Second

// WatchOptions configures the live view.
type WatchOptions struct {
	// Refresh is the redraw period between server updates.
	Refresh time.Duration
	// Clear clears the terminal before every redraw.
	Clear bool
}

// update is one message from the watch stream.
type update struct {
	list *api.TimerList
	err  error
}

// Watch shows the timers live until ctx is cancelled or the server goes away.
// Running timers count down locally from their deadline, corrected for the
// offset between the local and the server clock.
func (c *Controller) Watch(ctx context.Context, opts *WatchOptions) error {
	if opts.Refresh <= 0 {
		opts.Refresh = DefaultRefreshInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.client.WatchTimers(ctx)
	if err != nil {
		return err
	}

	updates := make(chan update)

	go func() {
		for {
			list, err := stream.Recv()

			select {
			case updates <- update{list: list, err: err}:
			case <-ctx.Done():
				return
			}

			if err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(opts.Refresh)
	defer ticker.Stop()

	var (
		latest *api.TimerList
		offset time.Duration
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case u := <-updates:
			if u.err != nil {
				return watchError(ctx, u.err)
			}

			latest = u.list
			offset = latest.ServerTime.Sub(c.now())
		case <-ticker.C:
		}

		if latest == nil {
			continue
		}

		if err := c.redraw(latest, c.now().Add(offset), opts.Clear); err != nil {
			return err
		}
	}
}

// redraw renders one frame of the watch view.
func (c *Controller) redraw(list *api.TimerList, serverNow time.Time, wipe bool) error {
	if wipe {
		if _, err := io.WriteString(c.out, clearScreen); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintln(c.out); err != nil {
			return err
		}
	}

	return renderTimers(c.out, list.GetTimers(), serverNow)
}

// watchError turns the end of the stream into the command result.
func watchError(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil, status.Code(err) == codes.Canceled:
		return nil
	case status.Code(err) == codes.Unavailable:
		logger.Info(ctx, "Server went away, watch ended")

		return fmt.Errorf("watch ended: %w", err)
	case errors.Is(err, io.EOF):
		return nil
	default:
		return fmt.Errorf("watch timers: %w", err)
	}
}

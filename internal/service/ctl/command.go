package ctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	api "github.com/oshokin/countdown/internal/api/grpc/countdown"
	"github.com/oshokin/countdown/internal/config"
	"github.com/oshokin/countdown/internal/logger"
	"github.com/oshokin/countdown/internal/repository/journal"
	"github.com/oshokin/countdown/internal/service/common"
)

// Options configures countdown-ctl.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Out receives command output; os.Stdout when nil.
	Out io.Writer
}

var (
	// ErrTimerNotFound is returned when a reference matches no timer.
	ErrTimerNotFound = errors.New("no timer matches")
	// ErrAmbiguousTimer is returned when a reference matches several timers.
	ErrAmbiguousTimer = errors.New("several timers match")
)

// Controller issues timer commands against a countdown server.
type Controller struct {
	// client talks to the server.
	client *common.Client
	// settings are the loaded configuration.
	settings *config.Config
	// out receives rendered output.
	out io.Writer
	// now is the local clock used for rendering.
	now func() time.Time
}

// Connect loads settings, identifies the caller and dials the server.
func Connect(ctx context.Context, opts *Options) (*Controller, error) {
	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	// Determine server address: command line argument overrides config.
	serverAddress := settings.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	// Identify current user and hostname for the server's audit log.
	actor, err := common.DetectActor()
	if err != nil {
		return nil, fmt.Errorf("detect actor: %w", err)
	}

	client, err := common.Dial(ctx, serverAddress,
		common.WithCallTimeout(settings.Timeout),
		common.WithActor(actor))
	if err != nil {
		return nil, fmt.Errorf("dial server: %w", err)
	}

	logger.DebugKV(ctx, "Connected", "server_address", serverAddress, "actor", actor.String())

	return newController(client, settings, opts.Out), nil
}

// newController assembles a Controller from its parts.
func newController(client *common.Client, settings *config.Config, out io.Writer) *Controller {
	if out == nil {
		out = os.Stdout
	}

	return &Controller{
		client:   client,
		settings: settings,
		out:      out,
		now:      time.Now,
	}
}

// Close releases the server connection.
func (c *Controller) Close() error {
	return c.client.Close()
}

// Add creates a timer.
func (c *Controller) Add(ctx context.Context, name string, duration time.Duration) error {
	timer, err := c.client.AddTimer(ctx, name, duration)
	if err != nil {
		return err
	}

	return renderTimer(c.out, "Added", timer, c.now())
}

// Remove deletes the timer matching ref.
func (c *Controller) Remove(ctx context.Context, ref string) error {
	timer, err := c.resolve(ctx, ref)
	if err != nil {
		return err
	}

	if err = c.client.RemoveTimer(ctx, timer.GetID()); err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.out, "Removed %s %q\n", shortID(timer.GetID()), timer.Name)

	return err
}

// Start starts or resumes the timer matching ref.
func (c *Controller) Start(ctx context.Context, ref string) error {
	return c.byRef(ctx, ref, "Started", c.client.StartTimer)
}

// Pause pauses the timer matching ref.
func (c *Controller) Pause(ctx context.Context, ref string) error {
	return c.byRef(ctx, ref, "Paused", c.client.PauseTimer)
}

// Reset resets the timer matching ref.
func (c *Controller) Reset(ctx context.Context, ref string) error {
	return c.byRef(ctx, ref, "Reset", c.client.ResetTimer)
}

// Rename changes the label of the timer matching ref.
func (c *Controller) Rename(ctx context.Context, ref, name string) error {
	return c.byRef(ctx, ref, "Renamed", func(ctx context.Context, id string) (*api.Timer, error) {
		return c.client.RenameTimer(ctx, id, name)
	})
}

// ResetAll resets every timer and prints the result.
func (c *Controller) ResetAll(ctx context.Context) error {
	list, err := c.client.ResetAll(ctx)
	if err != nil {
		return err
	}

	return renderTimers(c.out, list.GetTimers(), list.ServerTime)
}

// List prints every timer.
func (c *Controller) List(ctx context.Context) error {
	list, err := c.client.ListTimers(ctx)
	if err != nil {
		return err
	}

	return renderTimers(c.out, list.GetTimers(), list.ServerTime)
}

// History prints the last limit alerts from the local alert journal.
// A non-positive limit prints everything.
func (c *Controller) History(ctx context.Context, limit int) error {
	path := c.settings.Alerts.JournalFile
	if path == "" {
		_, err := fmt.Fprintln(c.out, "The alert journal is disabled (alerts.journal_file).")

		return err
	}

	entries, err := journal.NewFileJournal(path).Load(ctx)
	if err != nil && !errors.Is(err, journal.ErrNotFound) {
		return err
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	return renderHistory(c.out, entries, c.now())
}

// ShowHistory prints the alert history without contacting the server.
func ShowHistory(ctx context.Context, opts *Options, limit int) error {
	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	return newController(nil, settings, opts.Out).History(ctx, limit)
}

// byRef resolves ref and applies call to the timer id.
func (c *Controller) byRef(
	ctx context.Context,
	ref string,
	verb string,
	call func(context.Context, string) (*api.Timer, error),
) error {
	target, err := c.resolve(ctx, ref)
	if err != nil {
		return err
	}

	timer, err := call(ctx, target.GetID())
	if err != nil {
		return err
	}

	return renderTimer(c.out, verb, timer, c.now())
}

// resolve finds the timer matching ref by full id, unique id prefix or exact name.
func (c *Controller) resolve(ctx context.Context, ref string) (*api.Timer, error) {
	list, err := c.client.ListTimers(ctx)
	if err != nil {
		return nil, err
	}

	return matchTimer(list.GetTimers(), ref)
}

// matchTimer picks the single timer ref refers to.
func matchTimer(timers []*api.Timer, ref string) (*api.Timer, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w an empty reference", ErrTimerNotFound)
	}

	for _, timer := range timers {
		if timer.GetID() == ref {
			return timer, nil
		}
	}

	matches := func(match func(*api.Timer) bool) []*api.Timer {
		var found []*api.Timer

		for _, timer := range timers {
			if match(timer) {
				found = append(found, timer)
			}
		}

		return found
	}

	byPrefix := matches(func(t *api.Timer) bool { return strings.HasPrefix(t.GetID(), strings.ToLower(ref)) })
	byName := matches(func(t *api.Timer) bool { return t.Name == ref })

	for _, found := range [][]*api.Timer{byPrefix, byName} {
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0], nil
		default:
			return nil, fmt.Errorf("%w %q", ErrAmbiguousTimer, ref)
		}
	}

	return nil, fmt.Errorf("%w %q", ErrTimerNotFound, ref)
}

package server

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/oshokin/countdown/internal/config"
	domain "github.com/oshokin/countdown/internal/domain/countdown"
	"github.com/oshokin/countdown/internal/logger"
	"github.com/oshokin/countdown/internal/repository/journal"
	"github.com/oshokin/countdown/internal/service/alert"
)

// service owns the timer registry and the alert dispatcher behind it.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// registry holds every timer.
	registry *domain.Registry
	// dispatcher schedules and delivers alerts for the registry.
	dispatcher *alert.Dispatcher
	// clock is shared by the registry, the dispatcher and the tick driver.
	clock domain.Clock
}

// newService builds the dispatcher and its sinks from settings, then the
// registry with the configured presets.
func newService(ctx context.Context, settings *config.Config, clock domain.Clock) (*service, error) {
	sinks, err := buildSinks(ctx, &settings.Alerts)
	if err != nil {
		return nil, err
	}

	dispatcher := alert.NewDispatcher(ctx,
		alert.WithSinks(sinks...),
		alert.WithClock(clock),
		alert.WithDeliveryTimeout(settings.Alerts.DeliveryTimeout))

	presets := make([]domain.Preset, 0, len(settings.Presets))
	for _, p := range settings.Presets {
		presets = append(presets, domain.Preset{Name: p.Name, Duration: p.Duration})
	}

	registry := domain.NewRegistry(
		domain.WithClock(clock),
		domain.WithAlerts(dispatcher),
		domain.WithPresets(presets...))

	logger.InfoKV(ctx, "Timer registry ready", "presets", len(presets), "sinks", len(sinks))

	return &service{
		registry:   registry,
		dispatcher: dispatcher,
		clock:      clock,
	}, nil
}

// buildSinks returns the log sink plus every optional sink the settings enable.
func buildSinks(ctx context.Context, settings *config.Alerts) ([]alert.Sink, error) {
	sinks := []alert.Sink{alert.LogSink{}}

	if settings.JournalFile != "" {
		sinks = append(sinks, alert.NewJournalSink(journal.NewFileJournal(settings.JournalFile)))

		logger.InfoKV(ctx, "Alert journal enabled", "journal_file", settings.JournalFile)
	}

	if len(settings.Command) > 0 {
		commandSink, err := alert.NewCommandSink(settings.Command)
		if err != nil {
			return nil, fmt.Errorf("alert command: %w", err)
		}

		sinks = append(sinks, commandSink)

		logger.InfoKV(ctx, "Alert command enabled", "command", settings.Command[0])
	}

	if settings.Desktop {
		argv, err := alert.DesktopCommand(runtime.GOOS)
		if err != nil {
			return nil, err
		}

		desktopSink, err := alert.NewCommandSink(argv)
		if err != nil {
			return nil, fmt.Errorf("desktop notifier: %w", err)
		}

		sinks = append(sinks, desktopSink)

		logger.InfoKV(ctx, "Desktop notifications enabled", "notifier", argv[0])
	}

	return sinks, nil
}

// runTicker advances the registry on every interval until ctx is done.
// The tick time comes from the shared clock, not from the ticker, so a
// stalled process catches up with a single late tick.
func (s *service) runTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.registry.Tick(s.clock.Now())
		}
	}
}

// Close disarms pending alerts and waits for in-flight deliveries.
func (s *service) Close() {
	s.dispatcher.Close()
}

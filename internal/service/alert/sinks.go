package alert

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/oshokin/countdown/internal/logger"
	"github.com/oshokin/countdown/internal/repository/journal"
)

// LogSink writes every alert to the context logger.
type LogSink struct{}

// Deliver logs the alert.
func (LogSink) Deliver(ctx context.Context, alert *Alert) error {
	logger.InfoKV(ctx, "Timer finished",
		"reason", alert.Reason,
		"deadline", alert.Deadline,
		"delivered_at", alert.DeliveredAt,
	)

	return nil
}

// JournalSink appends every alert to a journal repository.
type JournalSink struct {
	// repo stores the alert history.
	repo journal.Repository
}

// NewJournalSink creates a sink backed by repo.
func NewJournalSink(repo journal.Repository) *JournalSink {
	return &JournalSink{
		repo: repo,
	}
}

// Deliver appends the alert to the journal.
func (s *JournalSink) Deliver(ctx context.Context, alert *Alert) error {
	entry := &journal.Entry{
		TimerID:     alert.TimerID,
		Name:        alert.Name,
		Deadline:    alert.Deadline,
		DeliveredAt: alert.DeliveredAt,
		Reason:      string(alert.Reason),
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("append to journal: %w", err)
	}

	return nil
}

// CommandSink runs an external program for every alert, for example
// notify-send, say or paplay. The placeholders {name} and {id} are replaced
// in every argument.
type CommandSink struct {
	// argv is the program and its arguments.
	argv []string
}

// errEmptyCommand is returned when a command sink has no program to run.
var errEmptyCommand = errors.New("alert command is empty")

// NewCommandSink creates a sink running argv.
func NewCommandSink(argv []string) (*CommandSink, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, errEmptyCommand
	}

	return &CommandSink{
		argv: append([]string(nil), argv...),
	}, nil
}

// Deliver runs the command and waits for it within the delivery timeout.
func (s *CommandSink) Deliver(ctx context.Context, alert *Alert) error {
	args := s.Args(alert)

	//nolint:gosec // The command comes from the operator's own settings file.
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("run %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}

	logger.DebugKV(ctx, "Alert command finished", "command", args[0])

	return nil
}

// Args returns the command line for alert with placeholders substituted.
func (s *CommandSink) Args(alert *Alert) []string {
	replacer := strings.NewReplacer(
		"{name}", alert.Name,
		"{id}", alert.TimerID.String(),
	)

	args := make([]string, 0, len(s.argv))
	for _, arg := range s.argv {
		args = append(args, replacer.Replace(arg))
	}

	return args
}

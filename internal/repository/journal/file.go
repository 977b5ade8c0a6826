package journal

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/countdown/internal/config"
)

// Repository records delivered alerts.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	Load(ctx context.Context) ([]*Entry, error)
}

// Entry is one delivered alert.
type Entry struct {
	// TimerID is the id of the timer the alert belongs to.
	TimerID uuid.UUID
	// Name is the timer label at delivery time.
	Name string
	// Deadline is when the timer was due to reach zero.
	Deadline time.Time
	// DeliveredAt is when the alert was handed to the sinks.
	DeliveredAt time.Time
	// Reason tells what triggered the delivery, e.g. "deadline" or "finished".
	Reason string
}

// FileJournal appends entries to a JSON lines file.
type FileJournal struct {
	// path is the journal file location.
	path string
	// mu serializes appends and reads.
	mu sync.Mutex
}

const (
	fieldTimerID     = "timer_id"
	fieldName        = "name"
	fieldDeadline    = "deadline"
	fieldDeliveredAt = "delivered_at"
	fieldReason      = "reason"

	// maxLineSize bounds a single journal line when reading.
	maxLineSize = 64 * 1024
)

var (
	// ErrNotFound is returned by Load when the journal file does not exist yet.
	ErrNotFound = errors.New("journal not found")

	errEntryIsNotSet = errors.New("journal entry is not set")
)

// NewFileJournal creates a journal stored at path.
func NewFileJournal(path string) *FileJournal {
	return &FileJournal{
		path: filepath.Clean(path),
	}
}

// Append writes entry as a new line at the end of the journal.
func (j *FileJournal) Append(_ context.Context, entry *Entry) error {
	if entry == nil {
		return errEntryIsNotSet
	}

	line, err := encode(entry)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	if _, err = file.Write(append(line, '\n')); err != nil {
		_ = file.Close()

		return fmt.Errorf("write journal: %w", err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}

	return nil
}

// Load reads every entry in the order it was appended.
func (j *FileJournal) Load(_ context.Context) ([]*Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	contents, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read journal: %w", err)
	}

	var (
		entries []*Entry
		scanner = bufio.NewScanner(bytes.NewReader(contents))
		lineNo  int
	)

	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	for scanner.Scan() {
		lineNo++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		entry, err := decode(line)
		if err != nil {
			return nil, fmt.Errorf("decode journal line %d: %w", lineNo, err)
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}

	return entries, nil
}

// encode renders entry as a single protojson line.
func encode(entry *Entry) ([]byte, error) {
	message, err := structpb.NewStruct(map[string]any{
		fieldTimerID:     entry.TimerID.String(),
		fieldName:        entry.Name,
		fieldDeadline:    formatTime(entry.Deadline),
		fieldDeliveredAt: formatTime(entry.DeliveredAt),
		fieldReason:      entry.Reason,
	})
	if err != nil {
		return nil, fmt.Errorf("build journal entry: %w", err)
	}

	// Multiline output would break the one-entry-per-line layout.
	options := protojson.MarshalOptions{
		Multiline: false,
	}

	data, err := options.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("encode journal entry: %w", err)
	}

	return data, nil
}

// decode parses a protojson line produced by encode.
func decode(line []byte) (*Entry, error) {
	var message structpb.Struct
	if err := protojson.Unmarshal(line, &message); err != nil {
		return nil, err
	}

	fields := message.GetFields()

	id, err := uuid.Parse(fields[fieldTimerID].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("timer id: %w", err)
	}

	deadline, err := parseTime(fields[fieldDeadline].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("deadline: %w", err)
	}

	deliveredAt, err := parseTime(fields[fieldDeliveredAt].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("delivered at: %w", err)
	}

	return &Entry{
		TimerID:     id,
		Name:        fields[fieldName].GetStringValue(),
		Deadline:    deadline,
		DeliveredAt: deliveredAt,
		Reason:      fields[fieldReason].GetStringValue(),
	}, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.RFC3339Nano, s)
}

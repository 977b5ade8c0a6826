package alert

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedOS indicates there is no built-in desktop notifier for the OS.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// desktopTitle is the notification title shown by desktop notifiers.
const desktopTitle = "Countdown"

// DesktopCommand returns the argv of a built-in desktop notifier for goos,
// ready for NewCommandSink:
// - Linux:   `notify-send Countdown "{name} is done"`
// - macOS:   `osascript -e 'display notification ...'`
// - Windows: `msg * "{name} is done"`.
func DesktopCommand(goos string) ([]string, error) {
	message := "{name} is done"

	switch osName := strings.ToLower(goos); {
	case strings.Contains(osName, "linux"), strings.Contains(osName, "freebsd"):
		return []string{"notify-send", "--urgency=critical", desktopTitle, message}, nil
	case strings.Contains(osName, "darwin"):
		script := fmt.Sprintf("display notification %q with title %q sound name \"Glass\"", message, desktopTitle)

		return []string{"osascript", "-e", script}, nil
	case strings.Contains(osName, "windows"):
		return []string{"msg.exe", "*", message}, nil
	default:
		return nil, fmt.Errorf("desktop notifications on %s: %w", goos, ErrUnsupportedOS)
	}
}

//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another process with the same executable is alive.
var ErrAlreadyRunning = errors.New("another instance is already running")

// FindRunning returns the pids of other processes whose executable name is
// executable. The current process is never included.
func FindRunning(executable string) ([]int, error) {
	processList, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	thisProcessID := os.Getpid()

	var pids []int

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if !sameExecutable(process.Executable(), executable) {
			continue
		}

		pids = append(pids, process.Pid())
	}

	return pids, nil
}

// EnsureSingleInstance fails with ErrAlreadyRunning when another process runs
// the same executable as the caller.
func EnsureSingleInstance() error {
	path, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	pids, err := FindRunning(filepath.Base(path))
	if err != nil {
		return err
	}

	if len(pids) > 0 {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pids[0])
	}

	return nil
}

// commLength is the size of the Linux process name field, which truncates
// longer executable names.
const commLength = 15

// sameExecutable reports whether a listed process name refers to executable.
func sameExecutable(listed, executable string) bool {
	if listed == executable {
		return true
	}

	return len(listed) == commLength && strings.HasPrefix(executable, listed)
}

package investigation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another orchestrator run holds the case lock.
var ErrLocked = errors.New("case is locked by another run")

// RunLock is an advisory per-case lock held for the duration of a run.
type RunLock struct {
	path string
	lock *flock.Flock
}

// Lock acquires the run lock for c under dir without blocking.
func Lock(dir string, c Case) (*RunLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path := filepath.Join(dir, c.Name+".lock")
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return &RunLock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *RunLock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Unlock releases the lock. The lock file itself is left in place.
func (l *RunLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}

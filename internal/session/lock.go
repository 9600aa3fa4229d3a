package session

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the advisory lock created in the results directory.
const LockFileName = ".abx-session.lock"

// ErrLocked reports another session writing to the same results directory.
var ErrLocked = errors.New("another abx session is using this results directory")

// Lock guards a results directory for the lifetime of one session.
type Lock struct {
	path string
	lock *flock.Flock
}

// AcquireLock takes the results directory lock without blocking.
func AcquireLock(resultsDir string) (*Lock, error) {
	path := filepath.Join(resultsDir, LockFileName)
	l := &Lock{path: path, lock: flock.New(path)}
	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return l, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

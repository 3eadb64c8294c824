package site

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another process holds the output directory lock.
var ErrLocked = errors.New("output directory is in use by another qrsite process")

// Lock is an advisory lock on an output directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// LockPath is the lock file guarding outputDir.
func LockPath(outputDir string) string {
	return filepath.Clean(outputDir) + ".lock"
}

// AcquireLock takes the lock for outputDir without blocking.
func AcquireLock(outputDir string) (*Lock, error) {
	path := LockPath(outputDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
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
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and removes the lock file.
func (l *Lock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

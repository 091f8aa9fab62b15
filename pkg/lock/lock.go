// Package lock provides a cross-process lock on an output directory so two
// builds never write the same artifact at once.
package lock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/errors"
)

// FileName is the lock file created inside the locked directory.
const FileName = ".indexer.lock"

// DirLock is an exclusive, non-blocking lock on a directory.
type DirLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

func New(dir string) *DirLock {
	lockPath := filepath.Join(dir, FileName)
	return &DirLock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

// TryLock acquires the lock or fails with ErrLocked if another process holds
// it. The directory is created if missing.
func (l *DirLock) TryLock() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.Wrap(apperrors.ErrOutputWriteError, dir, fmt.Errorf("creating lock directory: %w", err))
	}
	acquired, err := l.flock.TryLock()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrOutputWriteError, l.path, fmt.Errorf("acquiring lock: %w", err))
	}
	if !acquired {
		return apperrors.New(apperrors.ErrLocked, dir, "")
	}
	l.locked = true
	return nil
}

// Unlock releases the lock. Calling it on an unlocked DirLock is a no-op.
func (l *DirLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}

func (l *DirLock) Locked() bool {
	return l.locked
}

func (l *DirLock) Path() string {
	return l.path
}

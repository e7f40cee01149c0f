package fs

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

var (
	// ErrWouldBlock is returned by [Locker.LockWithTimeout] when the lock
	// is still held elsewhere after the timeout expires.
	ErrWouldBlock = errors.New("lock would block")

	// ErrInvalidTimeout is returned when a timeout is <= 0.
	ErrInvalidTimeout = errors.New("invalid lock timeout")
)

// Locker provides file-based locking using flock(2).
//
// flock is advisory and applies to an open file, not a pathname. All
// cooperating writers must take the lock for it to have effect; writers
// that skip it are not serialized. Lock a dedicated lock file that is
// stable on disk (for example "index.lock"), never a file that gets
// replaced by rename, since a rename leaves the lock attached to the old
// inode.
//
// This implementation is Unix-only.
type Locker struct {
	fs FS
}

// NewLocker creates a Locker that uses the given filesystem to open lock
// files.
func NewLocker(fsys FS) *Locker {
	return &Locker{fs: fsys}
}

// Lock represents a held file lock. Call [Lock.Close] to release it.
type Lock struct {
	mu   sync.Mutex
	file File
}

// Close releases the lock and closes the underlying file descriptor.
// Close is idempotent; subsequent calls return nil.
func (lk *Lock) Close() error {
	lk.mu.Lock()
	defer lk.mu.Unlock()

	if lk.file == nil {
		return nil
	}

	fd := int(lk.file.Fd())

	unlockErr := flockRetryEINTR(fd, unix.LOCK_UN)
	closeErr := lk.file.Close()
	lk.file = nil

	if unlockErr != nil {
		unlockErr = fmt.Errorf("unlocking lock: %w", unlockErr)
	}

	if closeErr != nil {
		closeErr = fmt.Errorf("closing lock fd: %w", closeErr)
	}

	return errors.Join(unlockErr, closeErr)
}

// LockWithTimeout acquires an exclusive lock on the file at path, retrying
// with backoff until the timeout expires. The lock file is created if it
// does not exist.
//
// The timeout is best-effort: the method polls non-blocking flock calls
// with sleeps (1ms to 25ms) and may overshoot slightly under scheduler
// delay. Returns an error satisfying errors.Is with [ErrWouldBlock] if the
// timeout expires, or [ErrInvalidTimeout] if timeout <= 0.
func (l *Locker) LockWithTimeout(path string, timeout time.Duration) (*Lock, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be > 0", ErrInvalidTimeout)
	}

	deadline := time.Now().Add(timeout)

	file, err := l.openLockFile(path)
	if err != nil {
		return nil, err
	}

	backoff := lockBackoffMin

	for {
		flockErr := flockRetryEINTR(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if flockErr == nil {
			return &Lock{file: file}, nil
		}

		if !errors.Is(flockErr, unix.EWOULDBLOCK) {
			_ = file.Close()
			return nil, fmt.Errorf("flock %q: %w", path, flockErr)
		}

		if time.Now().After(deadline) {
			_ = file.Close()
			return nil, fmt.Errorf("%w: %q", ErrWouldBlock, path)
		}

		time.Sleep(backoff)

		backoff *= 2
		if backoff > lockBackoffMax {
			backoff = lockBackoffMax
		}
	}
}

const (
	lockBackoffMin = time.Millisecond
	lockBackoffMax = 25 * time.Millisecond
)

func (l *Locker) openLockFile(path string) (File, error) {
	file, err := l.fs.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening lockfile: %w", err)
	}

	return file, nil
}

func flockRetryEINTR(fd int, how int) error {
	for {
		err := unix.Flock(fd, how)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

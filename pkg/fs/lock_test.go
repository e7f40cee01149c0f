package fs_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pedroaldea/md-editor/pkg/fs"
)

func TestLockAcquireAndRelease(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), "index.lock")
	locker := fs.NewLocker(fs.NewReal())

	lock, err := locker.LockWithTimeout(lockPath, time.Second)
	if err != nil {
		t.Fatalf("LockWithTimeout failed: %v", err)
	}

	err = lock.Close()
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Re-acquire after release.
	lock2, err := locker.LockWithTimeout(lockPath, time.Second)
	if err != nil {
		t.Fatalf("re-acquire failed: %v", err)
	}

	_ = lock2.Close()
}

func TestLockCloseIdempotent(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), "index.lock")
	locker := fs.NewLocker(fs.NewReal())

	lock, err := locker.LockWithTimeout(lockPath, time.Second)
	if err != nil {
		t.Fatalf("LockWithTimeout failed: %v", err)
	}

	if err := lock.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}

	if err := lock.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestLockWithTimeoutExpires(t *testing.T) {
	t.Parallel()

	// flock locks are per file description, so a second open descriptor in
	// the same process still observes contention.
	lockPath := filepath.Join(t.TempDir(), "index.lock")
	locker := fs.NewLocker(fs.NewReal())

	held, err := locker.LockWithTimeout(lockPath, time.Second)
	if err != nil {
		t.Fatalf("LockWithTimeout failed: %v", err)
	}
	defer held.Close()

	start := time.Now()

	_, err = locker.LockWithTimeout(lockPath, 30*time.Millisecond)
	if !errors.Is(err, fs.ErrWouldBlock) {
		t.Fatalf("LockWithTimeout error = %v, want ErrWouldBlock", err)
	}

	if time.Since(start) < 30*time.Millisecond {
		t.Error("LockWithTimeout returned before timeout")
	}
}

func TestLockWithTimeoutRejectsNonPositive(t *testing.T) {
	t.Parallel()

	locker := fs.NewLocker(fs.NewReal())

	_, err := locker.LockWithTimeout(filepath.Join(t.TempDir(), "x.lock"), 0)
	if !errors.Is(err, fs.ErrInvalidTimeout) {
		t.Fatalf("error = %v, want ErrInvalidTimeout", err)
	}
}

package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// ErrDirSync indicates the parent directory could not be synced after rename.
//
// When returned, the new file is in place but durability of the directory
// entry is not guaranteed. Callers can detect this with
// errors.Is(err, ErrDirSync).
var ErrDirSync = errors.New("dir sync")

// AtomicWriter performs durable single-file replace-writes.
//
// The contract: after Write returns, the target either fully contains the
// new content or is left completely unchanged. It is never partially
// written or truncated. Parent directories are created as a side effect,
// so writing into a new subtree (for example an assets folder) works
// without a separate mkdir step.
type AtomicWriter struct {
	fs FS
}

// NewAtomicWriter creates an AtomicWriter that uses the given filesystem.
// Panics if fsys is nil.
func NewAtomicWriter(fsys FS) *AtomicWriter {
	if fsys == nil {
		panic("fs is nil")
	}

	return &AtomicWriter{fs: fsys}
}

const (
	atomicFilePerm = os.FileMode(0o644)
	atomicDirPerm  = os.FileMode(0o755)
)

// Write writes data to path atomically and durably.
//
// It creates the parent directory if needed, writes to a uniquely named
// temp file in the same directory, syncs it, renames it over path, then
// syncs the parent directory. On any failure after temp-file creation the
// temp file is removed best-effort before the error is surfaced.
//
// If only the final directory sync fails, the returned error satisfies
// errors.Is(err, ErrDirSync) and the target already holds the new content.
func (w *AtomicWriter) Write(path string, data []byte) error {
	if path == "" {
		return errors.New("path is empty")
	}

	dir, base := filepath.Split(path)
	if base == "" || base == string(os.PathSeparator) || base == "." {
		return fmt.Errorf("path is invalid: %q", path)
	}

	if dir == "" {
		dir = "."
	}

	dir = filepath.Clean(dir)

	mkdirErr := w.fs.MkdirAll(dir, atomicDirPerm)
	if mkdirErr != nil {
		return fmt.Errorf("create parent dir %q: %w", dir, mkdirErr)
	}

	tmpFile, tmpPath, err := w.createTempFile(dir, base)
	if err != nil {
		return err
	}

	cleanup := func() error {
		closeErr := tmpFile.Close()
		if closeErr != nil {
			closeErr = fmt.Errorf("close temp file %q: %w", tmpPath, closeErr)
		}

		removeErr := w.fs.Remove(tmpPath)
		if removeErr != nil && os.IsNotExist(removeErr) {
			removeErr = nil
		} else if removeErr != nil {
			removeErr = fmt.Errorf("remove temp file %q: %w", tmpPath, removeErr)
		}

		return errors.Join(closeErr, removeErr)
	}

	_, writeErr := tmpFile.Write(data)
	if writeErr != nil {
		return errors.Join(fmt.Errorf("write temp file %q: %w", tmpPath, writeErr), cleanup())
	}

	syncErr := tmpFile.Sync()
	if syncErr != nil {
		return errors.Join(fmt.Errorf("sync temp file %q: %w", tmpPath, syncErr), cleanup())
	}

	renameErr := w.fs.Rename(tmpPath, path)
	if renameErr != nil {
		return errors.Join(fmt.Errorf("rename: %w", renameErr), cleanup())
	}

	cleanupErr := cleanup()

	dirSyncErr := w.syncDir(dir)
	if dirSyncErr != nil {
		return errors.Join(dirSyncErr, cleanupErr)
	}

	// Don't surface cleanup errors if the main operations worked.
	return nil
}

const tempFileMaxAttempts = 10000

// Distinguishes temp files of concurrent writers inside one process. The
// pid in the name handles concurrent processes.
var tempFileSeq atomic.Uint64

func (w *AtomicWriter) createTempFile(dir, base string) (File, string, error) {
	pid := os.Getpid()

	for attempt := 0; attempt < tempFileMaxAttempts; attempt++ {
		seq := tempFileSeq.Add(1)
		path := filepath.Join(dir, fmt.Sprintf(".%s.%d-%d.tmp", base, pid, seq))

		file, err := w.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, atomicFilePerm)
		if err == nil {
			return file, path, nil
		}

		if os.IsExist(err) {
			continue
		}

		return nil, "", fmt.Errorf("create temp file: %w", err)
	}

	return nil, "", fmt.Errorf("exhausted temp file attempts in %q", dir)
}

func (w *AtomicWriter) syncDir(dir string) error {
	dirFd, err := w.fs.Open(dir)
	if err != nil {
		return errors.Join(ErrDirSync, fmt.Errorf("open dir %q: %w", dir, err))
	}

	syncErr := dirFd.Sync()
	closeErr := dirFd.Close()

	if syncErr != nil {
		return errors.Join(ErrDirSync, fmt.Errorf("%q: %w", dir, syncErr), closeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close dir %q: %w", dir, closeErr)
	}

	return nil
}

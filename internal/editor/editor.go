// Package editor implements document persistence for the markdown editor:
// opening, conflict-checked saving, the recovery draft, and the on-disk
// layout of the application-support directory.
package editor

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pedroaldea/md-editor/internal/apperr"
	"github.com/pedroaldea/md-editor/internal/oplog"
	"github.com/pedroaldea/md-editor/pkg/fs"
)

// Paths describes the application-support directory layout.
//
// DataDir holds the history index, snapshot payload directories, the
// recovery draft, and the operation log.
type Paths struct {
	DataDir string
}

// HistoryDir returns the directory holding the index and per-document
// snapshot directories.
func (p Paths) HistoryDir() string {
	return filepath.Join(p.DataDir, "history")
}

// HistoryIndexPath returns the serialized history index location.
func (p Paths) HistoryIndexPath() string {
	return filepath.Join(p.HistoryDir(), "index.json")
}

// HistoryLockPath returns the advisory lock file guarding index
// mutations. The lock file is separate from the index because the index
// itself is replaced by rename on every write.
func (p Paths) HistoryLockPath() string {
	return filepath.Join(p.HistoryDir(), "index.lock")
}

// RecoveryDraftPath returns where the crash-recovery draft lives.
func (p Paths) RecoveryDraftPath() string {
	return filepath.Join(p.DataDir, "recovery-draft.md")
}

// LogPath returns the operation log location.
func (p Paths) LogPath() string {
	return filepath.Join(p.DataDir, "mdvault.log")
}

// Editor performs document persistence operations. Each method is an
// independent, synchronous unit of work; the only cross-call state is what
// lives on disk.
type Editor struct {
	fs     fs.FS
	writer *fs.AtomicWriter
	paths  Paths
	log    *oplog.Logger
}

// New creates an Editor over the given filesystem and layout. logger may
// be nil to disable operation logging.
func New(fsys fs.FS, paths Paths, logger *oplog.Logger) *Editor {
	if fsys == nil {
		panic("fs is nil")
	}

	return &Editor{
		fs:     fsys,
		writer: fs.NewAtomicWriter(fsys),
		paths:  paths,
		log:    logger,
	}
}

// Paths returns the layout this editor operates on.
func (e *Editor) Paths() Paths {
	return e.paths
}

// IsMarkdownFile reports whether path has a markdown-family extension.
func IsMarkdownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}

// IsTextOpenable reports whether path has an extension the editor opens
// as text.
func IsTextOpenable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt":
		return true
	default:
		return false
	}
}

// ReadTextFile reads path and decodes it as UTF-8 text.
//
// Returns FileNotFound/PermissionDenied/Io per the OS error, or
// InvalidEncoding if the bytes are not valid UTF-8.
func ReadTextFile(fsys fs.FS, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", apperr.FromOS(err)
	}

	if !utf8.Valid(data) {
		return "", apperr.New(apperr.InvalidEncoding, "file must be UTF-8")
	}

	return string(data), nil
}

// ModTimeMillis returns path's modification time in milliseconds since
// the epoch, the precision conflict detection operates at.
func ModTimeMillis(fsys fs.FS, path string) (int64, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return 0, apperr.FromOS(err)
	}

	return info.ModTime().UnixMilli(), nil
}

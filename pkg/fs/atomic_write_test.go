package fs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pedroaldea/md-editor/pkg/fs"
)

func TestAtomicWriteRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")

	w := fs.NewAtomicWriter(fs.NewReal())

	err := w.Write(path, []byte("# Hello\n\nWorld"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if string(got) != "# Hello\n\nWorld" {
		t.Errorf("content = %q, want %q", got, "# Hello\n\nWorld")
	}
}

func TestAtomicWriteReplacesExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")

	err := os.WriteFile(path, []byte("old"), 0o644)
	if err != nil {
		t.Fatalf("seed file: %v", err)
	}

	w := fs.NewAtomicWriter(fs.NewReal())

	err = w.Write(path, []byte("new"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}
}

func TestAtomicWriteCreatesParentDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "assets", "nested", "img.txt")

	w := fs.NewAtomicWriter(fs.NewReal())

	err := w.Write(path, []byte("data"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file at %s: %v", path, err)
	}
}

func TestAtomicWriteLeavesNoTempResidue(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")

	w := fs.NewAtomicWriter(fs.NewReal())

	for i := 0; i < 5; i++ {
		err := w.Write(path, []byte("content"))
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestAtomicWriteRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	w := fs.NewAtomicWriter(fs.NewReal())

	err := w.Write("", []byte("data"))
	if err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestAtomicWriteRejectsDirectoryPath(t *testing.T) {
	t.Parallel()

	w := fs.NewAtomicWriter(fs.NewReal())

	err := w.Write(t.TempDir()+string(os.PathSeparator), []byte("data"))
	if err == nil {
		t.Fatal("expected error for directory path")
	}
}

// failRenameFS fails every rename, simulating a crash at the atomicity
// boundary. The target must stay untouched.
type failRenameFS struct {
	*fs.Real
}

func (f *failRenameFS) Rename(oldpath, newpath string) error {
	return os.ErrPermission
}

func TestAtomicWriteFailedRenameLeavesTargetUnchanged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")

	err := os.WriteFile(path, []byte("original"), 0o644)
	if err != nil {
		t.Fatalf("seed file: %v", err)
	}

	w := fs.NewAtomicWriter(&failRenameFS{fs.NewReal()})

	err = w.Write(path, []byte("replacement"))
	if err == nil {
		t.Fatal("expected rename failure")
	}

	got, _ := os.ReadFile(path)
	if string(got) != "original" {
		t.Errorf("target changed after failed rename: %q", got)
	}

	entries, _ := os.ReadDir(dir)
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("temp file left behind after failure: %s", entry.Name())
		}
	}
}

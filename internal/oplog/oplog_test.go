package oplog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pedroaldea/md-editor/internal/oplog"
)

func TestLogAppendsLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "mdvault.log")
	logger := oplog.New(path)

	logger.Log("open_document", "/tmp/a.md")
	logger.Log("save_document", "/tmp/a.md")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), data)
	}

	if !strings.Contains(lines[0], "open_document: /tmp/a.md") {
		t.Errorf("unexpected first line: %q", lines[0])
	}

	if !strings.HasPrefix(lines[0], "[") {
		t.Errorf("line missing timestamp prefix: %q", lines[0])
	}
}

func TestLogSwallowsFailures(t *testing.T) {
	t.Parallel()

	// Parent path is a file, so MkdirAll fails. Log must not panic or
	// surface anything.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")

	err := os.WriteFile(blocker, []byte("x"), 0o644)
	if err != nil {
		t.Fatalf("seed file: %v", err)
	}

	logger := oplog.New(filepath.Join(blocker, "sub", "mdvault.log"))
	logger.Log("anything", "goes")
}

func TestNilLoggerDiscards(t *testing.T) {
	t.Parallel()

	var logger *oplog.Logger

	logger.Log("noop", "noop")
	logger.Logf("noop", "%d", 1)

	if logger.Path() != "" {
		t.Error("nil logger should report empty path")
	}
}

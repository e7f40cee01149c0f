package cli_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pedroaldea/md-editor/internal/cli"
)

func Test_No_Args_Prints_Usage(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, _, code := c.Run()

	if code != 0 {
		t.Errorf("exitCode=%d, want=0", code)
	}

	cli.AssertContains(t, stdout, "Usage: mdvault")
	cli.AssertContains(t, stdout, "Commands:")
}

func Test_Unknown_Command(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, code := c.Run("frobnicate")

	if code != 1 {
		t.Errorf("exitCode=%d, want=1", code)
	}

	if stdout != "" {
		t.Errorf("stdout=%q, want empty", stdout)
	}

	cli.AssertContains(t, stderr, "unknown command: frobnicate")
}

func Test_Invalid_Global_Flag(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--invalid-flag", "ls")

	cli.AssertContains(t, stderr, "unknown flag")
	cli.AssertContains(t, stderr, "--invalid-flag")
}

func Test_Open_Prints_Content_And_Mtime(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("notes.md", "# Notes\n")

	stdout, stderr, code := c.Run("open", "notes.md")

	if code != 0 {
		t.Fatalf("exitCode=%d, stderr=%s", code, stderr)
	}

	if stdout != "# Notes\n" {
		t.Errorf("stdout=%q", stdout)
	}

	cli.AssertContains(t, stderr, "mtime_ms:")
}

func Test_Open_Missing_File(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("open", "ghost.md")

	cli.AssertContains(t, stderr, "document does not exist")
}

func Test_Save_Round_Trip(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("doc.md", "old\n")

	mtime := c.MustRun("open", "--mtime-only", "doc.md")

	if _, err := strconv.ParseInt(mtime, 10, 64); err != nil {
		t.Fatalf("mtime %q is not an integer: %v", mtime, err)
	}

	stdout, stderr, code := c.RunWithInput("new\n", "save", "--expect-mtime="+mtime, "doc.md")
	if code != 0 {
		t.Fatalf("exitCode=%d, stderr=%s", code, stderr)
	}

	cli.AssertContains(t, stdout, "saved doc.md")

	if got := c.ReadFile("doc.md"); got != "new\n" {
		t.Errorf("file content=%q, want %q", got, "new\n")
	}
}

func Test_Save_Conflict(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("doc.md", "original\n")

	_, stderr, code := c.RunWithInput("clobber\n", "save", "--expect-mtime=12345", "doc.md")

	if code != 1 {
		t.Errorf("exitCode=%d, want=1", code)
	}

	cli.AssertContains(t, stderr, "file changed on disk")

	// The conflicting save must not touch the file.
	if got := c.ReadFile("doc.md"); got != "original\n" {
		t.Errorf("file content=%q, want untouched original", got)
	}
}

func Test_Save_Missing_File(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	_, stderr, code := c.RunWithInput("content\n", "save", "ghost.md")

	if code != 1 {
		t.Errorf("exitCode=%d, want=1", code)
	}

	cli.AssertContains(t, stderr, "no longer exists")
}

func Test_SaveAs_Creates_File(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout, _, code := c.RunWithInput("fresh\n", "save-as", "sub/dir/new.md")
	if code != 0 {
		t.Fatalf("exitCode=%d", code)
	}

	cli.AssertContains(t, stdout, "saved sub/dir/new.md")

	if got := c.ReadFile("sub/dir/new.md"); got != "fresh\n" {
		t.Errorf("file content=%q", got)
	}
}

func Test_Ls_Lists_Markdown_Sorted(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("zeta.md", "z")
	c.WriteFile("Alpha.md", "a")
	c.WriteFile("sub/inner.md", "i")
	c.WriteFile("node_modules/dep.md", "skip")
	c.WriteFile(".hidden/secret.md", "skip")
	c.WriteFile("readme.txt", "skip")

	stdout := c.MustRun("ls")

	want := "Alpha.md\nsub/inner.md\nzeta.md"
	if stdout != want {
		t.Errorf("ls output=%q, want=%q", stdout, want)
	}
}

func Test_Search_Finds_All_Terms(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("match.md", "first line\nThe Quick Brown fox\n")
	c.WriteFile("partial.md", "only quick here\n")

	stdout := c.MustRun("search", "quick", "BROWN")

	cli.AssertContains(t, stdout, "match.md:2:")

	if strings.Contains(stdout, "partial.md") {
		t.Errorf("file missing a term should not match: %q", stdout)
	}
}

func Test_Search_Explicit_Zero_Limit_Clamps_To_One(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("one.md", "shared term\n")
	c.WriteFile("two.md", "shared term\n")

	stdout := c.MustRun("search", "--limit=0", "shared")

	if lines := strings.Split(stdout, "\n"); len(lines) != 1 {
		t.Errorf("hits = %d, want exactly 1:\n%s", len(lines), stdout)
	}
}

func Test_Ls_And_Search_Are_Logged(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("doc.md", "findme\n")

	c.MustRun("ls")
	c.MustRun("search", "findme")

	raw, err := os.ReadFile(filepath.Join(c.DataDir, "mdvault.log"))
	if err != nil {
		t.Fatalf("read operation log: %v", err)
	}

	log := string(raw)
	cli.AssertContains(t, log, "list_files")
	cli.AssertContains(t, log, `search_files: "findme" (1 hits)`)
}

func Test_Search_Requires_Terms(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("search")

	cli.AssertContains(t, stderr, "missing search terms")
}

func Test_Snapshot_History_Restore(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("doc.md", "version one\n")

	stdout := c.MustRun("snapshot", "doc.md")
	cli.AssertContains(t, stdout, "snapshot ")

	fields := strings.Fields(stdout)
	if len(fields) != 2 {
		t.Fatalf("snapshot output=%q", stdout)
	}

	snapshotID := fields[1]

	c.WriteFile("doc.md", "version two\n")
	c.MustRun("snapshot", "doc.md")

	historyOut := c.MustRun("history", "doc.md")

	lines := strings.Split(historyOut, "\n")
	if len(lines) != 2 {
		t.Fatalf("history lines=%d, want 2:\n%s", len(lines), historyOut)
	}

	// Newest first: the second snapshot leads.
	if !strings.Contains(lines[1], snapshotID) {
		t.Errorf("oldest snapshot %s should be last:\n%s", snapshotID, historyOut)
	}

	restored, _, code := c.Run("restore", "doc.md", snapshotID)
	if code != 0 {
		t.Fatalf("restore exitCode=%d", code)
	}

	if restored != "version one\n" {
		t.Errorf("restored=%q, want %q", restored, "version one\n")
	}
}

func Test_Restore_To_File(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("doc.md", "keep me\n")

	stdout := c.MustRun("snapshot", "doc.md")
	snapshotID := strings.Fields(stdout)[1]

	c.MustRun("restore", "-o", "copy.md", "doc.md", snapshotID)

	if got := c.ReadFile("copy.md"); got != "keep me\n" {
		t.Errorf("copy content=%q", got)
	}
}

func Test_Check_Reports_Broken_Link(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("doc.md", "[dead](./missing.md)\n")

	stdout, stderr, code := c.Run("check", "doc.md")

	if code != 1 {
		t.Errorf("exitCode=%d, want=1", code)
	}

	cli.AssertContains(t, stdout, "doc.md:1: error: target file does not exist")
	cli.AssertContains(t, stderr, "broken link")
}

func Test_Check_Clean_Document(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("other.md", "# Other\n")
	c.WriteFile("doc.md", "## Heading\n[ok](./other.md)\n[self](#heading)\n")

	stdout := c.MustRun("check", "doc.md")

	if stdout != "ok" {
		t.Errorf("stdout=%q, want ok", stdout)
	}
}

func Test_Draft_Store_Show_Clear(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	_, _, code := c.RunWithInput("unsaved work\n", "draft", "store")
	if code != 0 {
		t.Fatalf("draft store exitCode=%d", code)
	}

	stdout, _, code := c.Run("draft", "show")
	if code != 0 || stdout != "unsaved work\n" {
		t.Errorf("draft show=%q code=%d", stdout, code)
	}

	c.MustRun("draft", "clear")

	stdout, stderr, code := c.Run("draft", "show")
	if code != 0 || stdout != "" {
		t.Errorf("cleared draft show=%q code=%d", stdout, code)
	}

	cli.AssertContains(t, stderr, "no recovery draft")
}

func Test_Print_Config_Shows_Sources(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".mdvault.json", `{
		// project config
		"workspace": "docs",
	}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, `"workspace": "docs"`)
	cli.AssertContains(t, stdout, "# Sources:")
	cli.AssertContains(t, stdout, ".mdvault.json")
}

func Test_Explicit_Config_Must_Exist(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--config", "nope.json", "ls")

	cli.AssertContains(t, stderr, "config file not found")
}

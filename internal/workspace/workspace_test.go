package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pedroaldea/md-editor/internal/apperr"
	"github.com/pedroaldea/md-editor/internal/workspace"
	"github.com/pedroaldea/md-editor/pkg/fs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err = os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestListFindsMarkdownFamilyOnly(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "README.md"), "root")
	writeFile(t, filepath.Join(root, "docs", "guide.markdown"), "nested")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")

	entries, err := workspace.List(fs.NewReal(), root)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	var rels []string
	for _, entry := range entries {
		rels = append(rels, entry.RelativePath)
	}

	want := []string{"README.md", "docs/guide.markdown"}
	if diff := cmp.Diff(want, rels); diff != "" {
		t.Errorf("relative paths mismatch (-want +got):\n%s", diff)
	}
}

func TestListSkipsHiddenAndDenylistedDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.md"), "x")
	writeFile(t, filepath.Join(root, ".git", "hidden.md"), "x")
	writeFile(t, filepath.Join(root, ".obsidian", "cache.md"), "x")
	writeFile(t, filepath.Join(root, "node_modules", "dep.md"), "x")
	writeFile(t, filepath.Join(root, "target", "out.md"), "x")
	writeFile(t, filepath.Join(root, "vendor", "lib.md"), "x")

	entries, err := workspace.List(fs.NewReal(), root)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(entries) != 1 || entries[0].RelativePath != "keep.md" {
		t.Errorf("entries = %+v, want only keep.md", entries)
	}
}

func TestListFollowsSymlinkedDirs(t *testing.T) {
	t.Parallel()

	shared := t.TempDir()
	writeFile(t, filepath.Join(shared, "linked.md"), "reachable")

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "direct.md"), "x")

	if err := os.Symlink(shared, filepath.Join(root, "shared")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	// A dangling symlink is skipped, not fatal.
	if err := os.Symlink(filepath.Join(shared, "gone.md"), filepath.Join(root, "broken.md")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	entries, err := workspace.List(fs.NewReal(), root)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	var rels []string
	for _, entry := range entries {
		rels = append(rels, entry.RelativePath)
	}

	want := []string{"direct.md", "shared/linked.md"}
	if diff := cmp.Diff(want, rels); diff != "" {
		t.Errorf("relative paths mismatch (-want +got):\n%s", diff)
	}
}

func TestListSortsCaseInsensitively(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Beta.md"), "x")
	writeFile(t, filepath.Join(root, "alpha.md"), "x")
	writeFile(t, filepath.Join(root, "Gamma.md"), "x")

	entries, err := workspace.List(fs.NewReal(), root)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	var rels []string
	for _, entry := range entries {
		rels = append(rels, entry.RelativePath)
	}

	want := []string{"alpha.md", "Beta.md", "Gamma.md"}
	if diff := cmp.Diff(want, rels); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestListMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := workspace.List(fs.NewReal(), filepath.Join(t.TempDir(), "absent"))
	if !apperr.IsKind(err, apperr.FileNotFound) {
		t.Fatalf("error = %v, want FileNotFound", err)
	}
}

func TestListRootIsFile(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "file.md")
	writeFile(t, root, "x")

	_, err := workspace.List(fs.NewReal(), root)
	if !apperr.IsKind(err, apperr.FileNotFound) {
		t.Fatalf("error = %v, want FileNotFound", err)
	}
}

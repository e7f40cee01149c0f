// Package workspace indexes a directory tree of markdown documents and
// runs multi-token content search over it.
package workspace

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/pedroaldea/md-editor/internal/apperr"
	"github.com/pedroaldea/md-editor/internal/editor"
	"github.com/pedroaldea/md-editor/pkg/fs"
)

// Entry is one workspace document.
type Entry struct {
	// Path is the document location as walked from the root.
	Path string

	// Name is the file name.
	Name string

	// RelativePath is the path relative to the root, with forward-slash
	// separators regardless of platform.
	RelativePath string
}

// Directories never descended into. Hidden directories (leading dot,
// which also covers version-control metadata) are skipped by name.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"target":       true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
}

func shouldSkipDir(name string) bool {
	return strings.HasPrefix(name, ".") || skippedDirs[name]
}

// List walks root recursively and returns every markdown-family document,
// sorted case-insensitively by relative path for deterministic ordering.
// Symlinks are followed, so a symlinked subdirectory is descended into
// like a plain one.
//
// A missing root or a root that is not a directory fails with
// FileNotFound. Directory read errors abort the whole listing; no partial
// results are returned.
func List(fsys fs.FS, root string) ([]Entry, error) {
	info, err := fsys.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, apperr.New(apperr.FileNotFound, "folder does not exist")
	}

	var entries []Entry

	err = collect(fsys, root, root, &entries)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(strings.ToLower(a.RelativePath), strings.ToLower(b.RelativePath))
	})

	return entries, nil
}

func collect(fsys fs.FS, root, current string, out *[]Entry) error {
	dirEntries, err := fsys.ReadDir(current)
	if err != nil {
		return apperr.FromOS(err)
	}

	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		path := filepath.Join(current, name)

		// Stat instead of DirEntry.Type so symlinked directories and
		// documents count as what they point at. Entries that cannot be
		// resolved (dangling symlinks) are skipped, not fatal.
		info, err := fsys.Stat(path)
		if err != nil {
			continue
		}

		if info.IsDir() {
			if shouldSkipDir(name) {
				continue
			}

			if err := collect(fsys, root, path, out); err != nil {
				return err
			}

			continue
		}

		if !info.Mode().IsRegular() || !editor.IsMarkdownFile(name) {
			continue
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}

		*out = append(*out, Entry{
			Path:         path,
			Name:         name,
			RelativePath: filepath.ToSlash(rel),
		})
	}

	return nil
}

// Package links validates the link/anchor graph of a markdown document:
// inline links and autolinks are extracted per line, local targets are
// resolved against the filesystem and heading slugs, and external URLs
// can optionally be probed for reachability.
package links

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pedroaldea/md-editor/internal/editor"
	"github.com/pedroaldea/md-editor/pkg/fs"
)

// splitLines mirrors strings.Lines (Go 1.24): each line keeps its
// trailing newline, and a final line without one is still returned.
func splitLines(s string) []string {
	var out []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, s)
			break
		}
		out = append(out, s[:i+1])
		s = s[i+1:]
	}
	return out
}

// Severity grades a validation issue.
type Severity string

const (
	// SeverityError marks broken local targets and missing anchors.
	SeverityError Severity = "error"

	// SeverityWarning marks external URLs that failed the reachability
	// probe; the probe is best-effort, so this is never an error.
	SeverityWarning Severity = "warning"
)

// Issue is one problem found in a document's links.
type Issue struct {
	Line     int
	Link     string
	Severity Severity
	Message  string
}

// Report is the outcome of one validation call.
type Report struct {
	// CheckedExternal records whether external URLs were probed, so the
	// caller can tell "no issues" from "not checked".
	CheckedExternal bool
	Issues          []Issue
}

var (
	inlineLinkRe = regexp.MustCompile(`!?\[[^\]]*\]\(([^)]+)\)`)
	autoLinkRe   = regexp.MustCompile(`<(https?://[^>\s]+)>`)
)

// Validator checks a document's links. Validation with external checking
// enabled can block for seconds (up to ~6s per unreachable URL); callers
// should treat it as a long-running call, not something to await on every
// keystroke.
type Validator struct {
	fs    fs.FS
	probe func(ctx context.Context, url string) bool
}

// NewValidator creates a Validator over the given filesystem.
func NewValidator(fsys fs.FS) *Validator {
	if fsys == nil {
		panic("fs is nil")
	}

	return &Validator{fs: fsys, probe: Reachable}
}

// Validate checks every link in markdown, which is the content of the
// document at documentPath. When checkExternal is false, external URLs
// are skipped entirely and issues can only come from local targets.
func (v *Validator) Validate(ctx context.Context, documentPath, markdown string, checkExternal bool) Report {
	documentPath = filepath.Clean(documentPath)
	documentDir := filepath.Dir(documentPath)

	ownSlugs := HeadingSlugs(markdown)
	issues := []Issue{}

	for _, ref := range extractLinks(markdown) {
		if isIgnoredLink(ref.target) {
			continue
		}

		if isExternalLink(ref.target) {
			if checkExternal && !v.probe(ctx, ref.target) {
				issues = append(issues, Issue{
					Line:     ref.line,
					Link:     ref.target,
					Severity: SeverityWarning,
					Message:  "external URL did not respond to a quick reachability check",
				})
			}

			continue
		}

		pathPart, anchor, hasAnchor := splitLinkAnchor(ref.target)

		targetPath := documentPath
		if pathPart != "" {
			targetPath = filepath.Join(documentDir, pathPart)
		}

		if exists, err := v.fs.Exists(targetPath); err != nil || !exists {
			issues = append(issues, Issue{
				Line:     ref.line,
				Link:     ref.target,
				Severity: SeverityError,
				Message:  "target file does not exist",
			})

			continue
		}

		if !hasAnchor || strings.TrimSpace(anchor) == "" {
			continue
		}

		if !v.anchorSlugs(targetPath, documentPath, ownSlugs)[strings.ToLower(anchor)] {
			issues = append(issues, Issue{
				Line:     ref.line,
				Link:     ref.target,
				Severity: SeverityError,
				Message:  "anchor was not found in target document",
			})
		}
	}

	return Report{CheckedExternal: checkExternal, Issues: issues}
}

// anchorSlugs returns the slug set to check an anchor against: the
// already-computed set for the document itself, a freshly slugified set
// for text-openable targets, and an empty set otherwise (including
// unreadable targets — the file exists, so only the anchor is at fault).
func (v *Validator) anchorSlugs(targetPath, documentPath string, ownSlugs map[string]bool) map[string]bool {
	if targetPath == documentPath {
		return ownSlugs
	}

	if !editor.IsTextOpenable(targetPath) {
		return map[string]bool{}
	}

	content, err := editor.ReadTextFile(v.fs, targetPath)
	if err != nil {
		return map[string]bool{}
	}

	return HeadingSlugs(content)
}

type linkRef struct {
	line   int
	target string
}

// extractLinks pulls every inline link/image target and bare autolink out
// of markdown, line by line, 1-indexed.
func extractLinks(markdown string) []linkRef {
	var refs []linkRef

	lineNumber := 0

	for _, line := range splitLines(markdown) {
		lineNumber++

		for _, match := range inlineLinkRe.FindAllStringSubmatch(line, -1) {
			target := normalizeLinkTarget(match[1])
			if target != "" {
				refs = append(refs, linkRef{line: lineNumber, target: target})
			}
		}

		for _, match := range autoLinkRe.FindAllStringSubmatch(line, -1) {
			refs = append(refs, linkRef{line: lineNumber, target: match[1]})
		}
	}

	return refs
}

// normalizeLinkTarget cleans a raw link target: trim, strip one pair of
// surrounding angle brackets, cut at the first whitespace (dropping a
// quoted title), strip one layer of surrounding quotes.
func normalizeLinkTarget(raw string) string {
	value := strings.TrimSpace(raw)

	if len(value) > 2 && strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">") {
		value = value[1 : len(value)-1]
	}

	if index := strings.IndexFunc(value, isSpace); index >= 0 {
		value = value[:index]
	}

	value = strings.Trim(value, `"`)
	value = strings.Trim(value, `'`)

	return strings.TrimSpace(value)
}

// splitLinkAnchor splits a local link at its first '#'. A link that is
// only an anchor ("#section") has an empty path part, meaning "this
// document".
func splitLinkAnchor(link string) (pathPart, anchor string, hasAnchor bool) {
	if rest, ok := strings.CutPrefix(link, "#"); ok {
		return "", rest, true
	}

	if before, after, ok := strings.Cut(link, "#"); ok {
		return before, after, true
	}

	return link, "", false
}

func isExternalLink(link string) bool {
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}

func isIgnoredLink(link string) bool {
	return link == "" ||
		strings.HasPrefix(link, "mailto:") ||
		strings.HasPrefix(link, "tel:") ||
		strings.HasPrefix(link, "javascript:")
}

package workspace

import (
	"strings"

	"github.com/pedroaldea/md-editor/internal/editor"
	"github.com/pedroaldea/md-editor/pkg/fs"
)

// Hit is one search result.
type Hit struct {
	Path         string
	Name         string
	RelativePath string

	// Line is the 1-based line of the first occurrence of the query's
	// first token.
	Line int

	// Snippet is a whitespace-collapsed single-line excerpt around that
	// occurrence, taken from the original (not lowercased) content.
	Snippet string
}

// DefaultSearchLimit caps results when the caller passes limit <= 0.
const DefaultSearchLimit = 200

const (
	snippetCharsBefore = 80
	snippetCharsAfter  = 120
)

// Search scans every workspace document under root for documents
// containing all query tokens (case-insensitive, unordered substring AND
// match — not a phrase match).
//
// The query is tokenized on whitespace; an empty token set yields an
// empty result set, not an error. Unreadable or non-UTF-8 documents are
// skipped silently. Scanning stops once limit hits are collected.
func Search(fsys fs.FS, root, query string, limit int) ([]Hit, error) {
	tokens := strings.Fields(toLowerASCII(query))
	if len(tokens) == 0 {
		return []Hit{}, nil
	}

	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	entries, err := List(fsys, root)
	if err != nil {
		return nil, err
	}

	hits := []Hit{}

	for _, entry := range entries {
		if len(hits) >= limit {
			break
		}

		content, err := editor.ReadTextFile(fsys, entry.Path)
		if err != nil {
			continue
		}

		lower := toLowerASCII(content)

		if !matchesAll(lower, tokens) {
			continue
		}

		firstIndex := strings.Index(lower, tokens[0])
		if firstIndex < 0 {
			firstIndex = 0
		}

		hits = append(hits, Hit{
			Path:         entry.Path,
			Name:         entry.Name,
			RelativePath: entry.RelativePath,
			Line:         1 + strings.Count(lower[:firstIndex], "\n"),
			Snippet:      buildSnippet(content, firstIndex),
		})
	}

	return hits, nil
}

func matchesAll(lowerContent string, tokens []string) bool {
	for _, token := range tokens {
		if !strings.Contains(lowerContent, token) {
			return false
		}
	}

	return true
}

// buildSnippet extracts a window around the match at byteIndex: up to 80
// characters before and 120 after, with all whitespace runs (including
// newlines) collapsed to single spaces.
func buildSnippet(content string, byteIndex int) string {
	if byteIndex > len(content) {
		byteIndex = len(content)
	}

	charIndex := len([]rune(content[:byteIndex]))
	runes := []rune(content)

	start := charIndex - snippetCharsBefore
	if start < 0 {
		start = 0
	}

	end := charIndex + snippetCharsAfter
	if end > len(runes) {
		end = len(runes)
	}

	return strings.Join(strings.Fields(string(runes[start:end])), " ")
}

// toLowerASCII lowercases ASCII letters only, preserving byte offsets
// between the lowered string and the original so match positions can be
// mapped back for snippet extraction.
func toLowerASCII(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}

		b.WriteByte(c)
	}

	return b.String()
}

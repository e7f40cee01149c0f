package links

import "strings"

// SlugifyHeading converts heading text to its GitHub-style anchor slug.
//
// ASCII letters and digits pass through lowercased; any run of
// whitespace, '-', or '_' collapses to a single '-', never at the start;
// everything else is dropped; trailing '-' runs are stripped. The result
// may be empty (punctuation-only headings), in which case callers discard
// it.
func SlugifyHeading(input string) string {
	var (
		slug     strings.Builder
		lastDash bool
	)

	for _, ch := range input {
		switch {
		case ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9':
			slug.WriteRune(ch)

			lastDash = false
		case ch >= 'A' && ch <= 'Z':
			slug.WriteRune(ch + ('a' - 'A'))

			lastDash = false
		case (isSpace(ch) || ch == '-' || ch == '_') && !lastDash && slug.Len() > 0:
			slug.WriteByte('-')

			lastDash = true
		}
	}

	return strings.TrimRight(slug.String(), "-")
}

// HeadingSlugs returns the slug set of every heading line in markdown.
//
// A heading is a line whose trimmed text starts with 1-6 '#' markers;
// zero or more than six markers is not a heading. Empty slugs are not
// inserted.
func HeadingSlugs(markdown string) map[string]bool {
	slugs := map[string]bool{}

	for _, line := range splitLines(markdown) {
		trimmed := strings.TrimLeft(line, " \t")

		hashes := 0
		for hashes < len(trimmed) && trimmed[hashes] == '#' {
			hashes++
		}

		if hashes == 0 || hashes > 6 {
			continue
		}

		text := strings.TrimSpace(trimmed[hashes:])
		if text == "" {
			continue
		}

		slug := SlugifyHeading(text)
		if slug != "" {
			slugs[slug] = true
		}
	}

	return slugs
}

func isSpace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x85, 0xA0:
		return true
	default:
		return false
	}
}

package service

import (
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Snippet window sizes for the full result view and the compact
// autocomplete view.
const (
	snippetLenFull    = 120
	snippetLenCompact = 80
)

var markupTagRe = regexp.MustCompile(`<[^>]*>`)

// parseQueryTerms splits a query into whitespace-separated tokens.
func parseQueryTerms(query string) []string {
	return strings.Fields(strings.TrimSpace(query))
}

// stripMarkup removes any markup already present in upstream text so it can
// never leak into rendered output.
func stripMarkup(text string) string {
	return markupTagRe.ReplaceAllString(text, "")
}

// termPatterns compiles one case-insensitive matcher per non-empty term.
// Matching runs against the original text, so the returned offsets stay
// valid even for runes whose lowercase form has a different byte length.
func termPatterns(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(term)))
	}
	return patterns
}

// highlightTerms wraps every case-insensitive occurrence of any term in
// <mark> tags. All surrounding text is entity-escaped, so the emphasis
// wrapper is the only markup the output can contain.
func highlightTerms(text string, terms []string) string {
	text = stripMarkup(text)
	if text == "" || len(terms) == 0 {
		return html.EscapeString(text)
	}

	type span struct{ start, end int }
	var spans []span
	for _, pattern := range termPatterns(terms) {
		for _, m := range pattern.FindAllStringIndex(text, -1) {
			spans = append(spans, span{m[0], m[1]})
		}
	}
	if len(spans) == 0 {
		return html.EscapeString(text)
	}

	// Merge overlapping match ranges so nested marks never occur.
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end {
			if s.end > last.end {
				last.end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}

	var b strings.Builder
	prev := 0
	for _, s := range merged {
		b.WriteString(html.EscapeString(text[prev:s.start]))
		b.WriteString("<mark>")
		b.WriteString(html.EscapeString(text[s.start:s.end]))
		b.WriteString("</mark>")
		prev = s.end
	}
	b.WriteString(html.EscapeString(text[prev:]))
	return b.String()
}

// runeStart backs a byte offset up to the nearest rune boundary so window
// slicing never splits a multi-byte rune.
func runeStart(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// extractSnippet returns a window of at most maxLen bytes centered on the
// first occurrence of any term, or the start of the text when no term
// occurs. Truncated ends get ellipses.
func extractSnippet(text string, terms []string, maxLen int) string {
	text = stripMarkup(text)
	if len(text) <= maxLen {
		return text
	}

	first := -1
	matchLen := 0
	for _, pattern := range termPatterns(terms) {
		if m := pattern.FindStringIndex(text); m != nil && (first == -1 || m[0] < first) {
			first = m[0]
			matchLen = m[1] - m[0]
		}
	}

	if first < 0 {
		return text[:runeStart(text, maxLen)] + "..."
	}

	before := (maxLen - matchLen) / 2
	start := first - before
	if start < 0 {
		start = 0
	}
	end := start + maxLen
	if end > len(text) {
		end = len(text)
		if start = end - maxLen; start < 0 {
			start = 0
		}
	}
	start = runeStart(text, start)
	if end < len(text) {
		end = runeStart(text, end)
	}

	snippet := text[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet = snippet + "..."
	}
	return snippet
}

// Relevance weights per field class, mirroring the storefront's historical
// tuning: titles dominate, identifying codes next, free text after.
const (
	weightTitle    = 2.0
	weightIdentity = 1.5
	weightBody     = 1.0
	weightMeta     = 0.8
)

// Match-quality multipliers: whole-field equality beats prefix beats
// substring.
const (
	qualityExact     = 1.0
	qualityPrefix    = 0.8
	qualitySubstring = 0.6
)

type weightedField struct {
	text   string
	weight float64
}

// scoreFields ranks a record against the query terms. Every term must match
// at least one field (case-insensitive) for the record to match at all; the
// score is the sum over terms of the best weighted field match.
func scoreFields(fields []weightedField, terms []string) (float64, bool) {
	total := 0.0
	for _, term := range terms {
		needle := strings.ToLower(term)
		best := 0.0
		for _, f := range fields {
			if f.text == "" {
				continue
			}
			hay := strings.ToLower(f.text)
			var quality float64
			switch {
			case hay == needle:
				quality = qualityExact
			case strings.HasPrefix(hay, needle):
				quality = qualityPrefix
			case strings.Contains(hay, needle):
				quality = qualitySubstring
			default:
				continue
			}
			if score := f.weight * quality; score > best {
				best = score
			}
		}
		if best == 0 {
			return 0, false
		}
		total += best
	}
	return total, true
}

package text

import (
	"strings"

	"redline/types"
)

const (
	// maxParagraphLen is the paragraph length above which sentences
	// become the section unit.
	maxParagraphLen = 200
	// minSentenceLen is the shortest trimmed sentence emitted as a
	// section. Shorter sentences are dropped from section coverage and
	// are therefore never re-analyzed by the incremental remote pass;
	// an accepted coverage gap.
	minSentenceLen = 10
)

// SplitSections partitions text into non-overlapping, hashable units in
// document order. Paragraphs (blank-line separated) are the primary
// unit; paragraphs longer than maxParagraphLen are split into
// sentences. If nothing qualifies, the whole text is one section.
func SplitSections(text string) []types.TextSection {
	var sections []types.TextSection

	for _, p := range paragraphs(text) {
		if strings.TrimSpace(p.content) == "" {
			continue
		}
		if len(p.content) <= maxParagraphLen {
			if sec, ok := newSection(p.content, p.start); ok {
				sections = append(sections, sec)
			}
			continue
		}
		sections = append(sections, splitSentences(p.content, p.start)...)
	}

	if len(sections) == 0 && strings.TrimSpace(text) != "" {
		if sec, ok := newSection(text, 0); ok {
			sections = append(sections, sec)
		}
	}
	return sections
}

// ChangedSections returns the sections of curr whose hash did not occur
// anywhere in prev. Hash collisions read as "unchanged", a false
// negative that merely skips one re-analysis.
func ChangedSections(prev, curr []types.TextSection) []types.TextSection {
	known := make(map[uint32]bool, len(prev))
	for _, s := range prev {
		known[s.Hash] = true
	}

	var changed []types.TextSection
	for _, s := range curr {
		if !known[s.Hash] {
			changed = append(changed, s)
		}
	}
	return changed
}

// SectionHash computes a 32-bit order-sensitive polynomial hash over s.
// Collision-tolerant by design; not cryptographic.
func SectionHash(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}

type chunk struct {
	content string
	start   int
}

// paragraphs splits text on blank-line boundaries, preserving offsets.
func paragraphs(text string) []chunk {
	var out []chunk
	start := 0
	for start <= len(text) {
		idx := strings.Index(text[start:], "\n\n")
		if idx < 0 {
			out = append(out, chunk{text[start:], start})
			break
		}
		out = append(out, chunk{text[start : start+idx], start})
		start = start + idx + 2
	}
	return out
}

// newSection builds a TextSection over the trimmed content of chunk
// text, with offsets adjusted past the trimmed whitespace.
func newSection(content string, start int) (types.TextSection, bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return types.TextSection{}, false
	}
	leading := strings.Index(content, trimmed[:1])
	if leading < 0 {
		leading = 0
	}
	return types.TextSection{
		Hash:       SectionHash(trimmed),
		Content:    trimmed,
		StartIndex: start + leading,
		EndIndex:   start + leading + len(trimmed),
	}, true
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// splitSentences splits a long paragraph into sentence sections. Two
// heuristics suppress false splits: terminators preceded by an
// uppercase letter inside a very short candidate (abbreviations and
// initials), and decimal points flanked by digits.
func splitSentences(par string, base int) []types.TextSection {
	var sections []types.TextSection

	emit := func(start, end int) {
		sentence := par[start:end]
		if len(strings.TrimSpace(sentence)) < minSentenceLen {
			return
		}
		if sec, ok := newSection(sentence, base+start); ok {
			sections = append(sections, sec)
		}
	}

	start := 0
	i := 0
	for i < len(par) {
		if !isTerminator(par[i]) {
			i++
			continue
		}

		// Consume a terminator run ("...", "?!").
		end := i
		for end+1 < len(par) && isTerminator(par[end+1]) {
			end++
		}

		if splitAllowed(par, start, i) {
			emit(start, end+1)
			start = end + 1
		}
		i = end + 1
	}
	if start < len(par) {
		emit(start, len(par))
	}
	return sections
}

// splitAllowed applies the guard heuristics for a terminator at term
// ending the candidate sentence beginning at sentStart.
func splitAllowed(par string, sentStart, term int) bool {
	// Decimal point flanked by digits.
	if par[term] == '.' && term > 0 && term+1 < len(par) &&
		isDigit(par[term-1]) && isDigit(par[term+1]) {
		return false
	}
	// Likely abbreviation or initial: uppercase right before the
	// terminator in a very short candidate.
	if term > 0 && isUpper(par[term-1]) &&
		len(strings.TrimSpace(par[sentStart:term])) < minSentenceLen {
		return false
	}
	return true
}

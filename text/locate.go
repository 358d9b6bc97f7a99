package text

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	// contextSlack is how far beyond the context string's own length
	// the surrounding text is searched when disambiguating occurrences.
	contextSlack = 10
	// fuzzyWindowRadius bounds the fuzzy search window around the hint.
	fuzzyWindowRadius = 250
	// fuzzyThreshold is the minimum fraction of the original's words a
	// fuzzy candidate must contain.
	fuzzyThreshold = 0.6
)

// Location is the result of resolving a suggestion's remembered text
// against the current document. When Found is false the span carries
// the unchanged hint and must not be used.
type Location struct {
	Start int
	End   int
	Found bool
}

// Locate finds the best current position of original in text, given a
// possibly stale hint span and optional surrounding context captured at
// creation time.
//
// Resolution order, first success wins: verify the hint verbatim;
// disambiguate repeated occurrences by context; take the unique or
// hint-closest exact occurrence; fall back to a fuzzy word-window match
// near the hint. The ordering trades precision for recall step by
// step — the fuzzy fallback may shift the logical span and its end
// offset is approximate.
func Locate(text, original string, hintStart, hintEnd int, contextBefore, contextAfter string) Location {
	if original == "" {
		return Location{Start: hintStart, End: hintEnd, Found: false}
	}

	// Step 1: the hint still points at the original text.
	if hintStart >= 0 && hintStart < hintEnd && hintEnd <= len(text) &&
		text[hintStart:hintEnd] == original {
		return Location{Start: hintStart, End: hintEnd, Found: true}
	}

	occurrences := findAll(text, original)

	// Step 2: context-disambiguated search.
	if len(occurrences) > 0 && (contextBefore != "" || contextAfter != "") {
		best := bestByContext(text, original, occurrences, contextBefore, contextAfter, hintStart)
		return Location{Start: best, End: best + len(original), Found: true}
	}

	// Step 3: unique or hint-closest exact occurrence.
	if len(occurrences) == 1 {
		return Location{Start: occurrences[0], End: occurrences[0] + len(original), Found: true}
	}
	if len(occurrences) > 1 {
		closest := closestTo(occurrences, hintStart)
		return Location{Start: closest, End: closest + len(original), Found: true}
	}

	// Step 4: fuzzy window match.
	if loc, ok := fuzzyLocate(text, original, hintStart); ok {
		return loc
	}

	return Location{Start: hintStart, End: hintEnd, Found: false}
}

// findAll returns the start offsets of every occurrence of needle.
func findAll(text, needle string) []int {
	var out []int
	for from := 0; ; {
		idx := strings.Index(text[from:], needle)
		if idx < 0 {
			return out
		}
		out = append(out, from+idx)
		from += idx + 1
	}
}

// bestByContext scores each occurrence by how much of the remembered
// surrounding context still matches: 1 point for existing, 2 more for
// each side whose context is found nearby. Highest score wins; ties go
// to the occurrence closest to the hint.
func bestByContext(text, original string, occurrences []int, before, after string, hint int) int {
	bestScore := -1
	best := occurrences[0]
	for _, occ := range occurrences {
		score := 1
		if before != "" {
			windowStart := max(0, occ-len(before)-contextSlack)
			if strings.Contains(text[windowStart:occ], before) {
				score += 2
			}
		}
		if after != "" {
			occEnd := occ + len(original)
			windowEnd := min(len(text), occEnd+len(after)+contextSlack)
			if strings.Contains(text[occEnd:windowEnd], after) {
				score += 2
			}
		}
		if score > bestScore ||
			(score == bestScore && absInt(occ-hint) < absInt(best-hint)) {
			bestScore = score
			best = occ
		}
	}
	return best
}

func closestTo(offsets []int, target int) int {
	best := offsets[0]
	bestDist := absInt(best - target)
	for _, o := range offsets[1:] {
		if d := absInt(o - target); d < bestDist {
			best = o
			bestDist = d
		}
	}
	return best
}

// fuzzyLocate slides a window of words across the text near hintStart,
// scoring candidates by the fraction of original's words they contain,
// refined by character similarity. The returned end offset is a rough
// len(original)*1.5 estimate, which may overshoot word boundaries.
func fuzzyLocate(text, original string, hintStart int) (Location, bool) {
	originalWords := fuzzyWords(original)
	if len(originalWords) == 0 {
		return Location{}, false
	}

	hint := min(max(hintStart, 0), len(text))
	windowStart := max(0, hint-fuzzyWindowRadius)
	windowEnd := min(len(text), hint+fuzzyWindowRadius)
	windowWords := Words(text[windowStart:windowEnd])
	if len(windowWords) == 0 {
		return Location{}, false
	}

	wanted := make(map[string]bool, len(originalWords))
	for _, w := range originalWords {
		wanted[w] = true
	}

	span := 2 * len(originalWords)
	bestRank := -1.0
	bestStart := -1
	bestEnd := -1

	for i := 0; i < len(windowWords); i++ {
		last := min(i+span, len(windowWords))
		candidate := windowWords[i:last]

		found := 0
		seen := make(map[string]bool, len(candidate))
		for _, w := range candidate {
			lw := strings.ToLower(w.Text)
			if wanted[lw] && !seen[lw] {
				seen[lw] = true
				found++
			}
		}
		fraction := float64(found) / float64(len(originalWords))
		if fraction < fuzzyThreshold {
			continue
		}

		candStart := windowStart + candidate[0].Start
		candEnd := windowStart + candidate[len(candidate)-1].End
		candText := text[candStart:candEnd]
		confidence := (fraction + Similarity(candText, original) + editSimilarity(candText, original)) / 3
		rank := confidence - float64(absInt(candStart-hint))/1000

		if rank > bestRank {
			bestRank = rank
			bestStart = candStart
			bestEnd = min(len(text), candStart+len(original)*3/2)
		}
	}

	if bestStart < 0 {
		return Location{}, false
	}
	return Location{Start: bestStart, End: bestEnd, Found: true}, true
}

// editSimilarity maps levenshtein distance into [0, 1], 1 meaning
// identical strings.
func editSimilarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}
	d := levenshtein.ComputeDistance(a, b)
	if d >= longest {
		return 0.0
	}
	return 1.0 - float64(d)/float64(longest)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

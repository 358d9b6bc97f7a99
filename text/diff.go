package text

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Change describes the net effect of one text edit: the first character
// offset at which the old and new snapshots diverge, and the length
// delta the edit introduced.
type Change struct {
	Start       int
	LengthDelta int
}

// Diff computes the first point of divergence between two snapshots.
// When one string is a prefix of the other, Start is the length of the
// shorter string (a pure trailing insertion or deletion). Callers must
// short-circuit the no-op case before reaching here.
func Diff(oldText, newText string) Change {
	limit := min(len(oldText), len(newText))
	start := limit
	for i := 0; i < limit; i++ {
		if oldText[i] != newText[i] {
			start = i
			break
		}
	}
	return Change{
		Start:       start,
		LengthDelta: len(newText) - len(oldText),
	}
}

// Similarity computes a character-level similarity score between two
// strings in [0, 1]. Empty strings have zero similarity with non-empty
// ones.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)

	equalChars := 0
	totalChars := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			equalChars += len(d.Text)
		}
		totalChars += len(d.Text)
	}

	if totalChars == 0 {
		return 0.0
	}
	return float64(equalChars) / float64(totalChars)
}

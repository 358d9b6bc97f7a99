package text

import (
	"testing"

	"redline/assert"
	"redline/types"
)

func sugg(id string, start, end int, original string) *types.Suggestion {
	return &types.Suggestion{
		ID:       id,
		Kind:     types.KindGrammar,
		Span:     types.Span{Start: start, End: end},
		Original: original,
	}
}

// Inserting k characters at offset p shifts every suggestion at or
// after p by +k, leaves suggestions before p untouched, and drops any
// suggestion the edit landed inside.
func TestRepositionShift(t *testing.T) {
	oldText := "alpha beta gamma"
	newText := "alpha XX beta gamma"
	// Insertion of "XX " at offset 6.

	before := sugg("dict-1", 0, 5, "alpha")
	after := sugg("dict-2", 6, 10, "beta")
	later := sugg("dict-3", 11, 16, "gamma")

	out := Reposition([]*types.Suggestion{before, after, later}, oldText, newText, 6)

	assert.Equal(t, 3, len(out), "survivor count")
	assert.Equal(t, 0, out[0].Span.Start, "before-edit start unchanged")
	assert.Equal(t, 9, out[1].Span.Start, "after-edit start shifted")
	assert.Equal(t, 14, out[2].Span.Start, "later start shifted")
	for _, s := range out {
		assert.True(t, s.MatchesText(newText), "span invariant for "+s.ID)
	}
}

func TestRepositionDropsEditInsideSpan(t *testing.T) {
	oldText := "the brown fox"
	newText := "the brXwn fox"

	inside := sugg("dict-1", 4, 9, "brown")
	out := Reposition([]*types.Suggestion{inside}, oldText, newText, 6)
	assert.Equal(t, 0, len(out), "edit inside span drops the suggestion")
}

func TestRepositionDropsUnverifiable(t *testing.T) {
	oldText := "delete this phrase entirely"
	newText := "entirely"

	victim := sugg("sem-1", 0, 11, "delete this")
	out := Reposition([]*types.Suggestion{victim}, oldText, newText, 0)
	assert.Equal(t, 0, len(out), "unrelocatable suggestion dropped")
}

func TestRepositionRelocatesDrifted(t *testing.T) {
	// A deletion before the suggestion shifts it; the locate pass must
	// land it back on the original text.
	oldText := "some filler words here, target phrase at the end"
	newText := "words here, target phrase at the end"

	s := sugg("sem-1", 24, 37, "target phrase")
	out := Reposition([]*types.Suggestion{s}, oldText, newText, 0)

	assert.Equal(t, 1, len(out), "survivor count")
	assert.Equal(t, "target phrase", newText[out[0].Span.Start:out[0].Span.End], "relocated span")
}

func TestRepositionDeletionShiftsLeft(t *testing.T) {
	oldText := "abcde target"
	newText := "de target"
	// Deletion of "abc" at offset 0.

	s := sugg("dict-1", 6, 12, "target")
	out := Reposition([]*types.Suggestion{s}, oldText, newText, 0)

	assert.Equal(t, 1, len(out), "survivor count")
	assert.Equal(t, 3, out[0].Span.Start, "start shifted left")
	assert.True(t, out[0].MatchesText(newText), "span invariant")
}

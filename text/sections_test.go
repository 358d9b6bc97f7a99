package text

import (
	"strings"
	"testing"

	"redline/assert"
	"redline/types"
)

func TestSplitSectionsParagraphs(t *testing.T) {
	doc := "Para one sentence. Another sentence here.\n\nPara two."

	sections := SplitSections(doc)
	assert.Equal(t, 2, len(sections), "section count")
	assert.Equal(t, "Para one sentence. Another sentence here.", sections[0].Content, "first section")
	assert.Equal(t, "Para two.", sections[1].Content, "second section")

	// Offsets index into the original document.
	for _, s := range sections {
		assert.Equal(t, s.Content, doc[s.StartIndex:s.EndIndex], "section offsets")
	}
}

func TestSplitSectionsLongParagraph(t *testing.T) {
	first := "This opening sentence of the long paragraph keeps going for a while to push the paragraph over the length threshold."
	second := "A second sentence follows with plenty of additional words of its very own so that the combined paragraph comfortably exceeds the threshold."
	doc := first + " " + second

	sections := SplitSections(doc)
	assert.Equal(t, 2, len(sections), "sentence section count")
	assert.Equal(t, first, sections[0].Content, "first sentence")
	assert.Equal(t, second, sections[1].Content, "second sentence")
}

func TestSplitSectionsDecimalGuard(t *testing.T) {
	doc := "The measured growth rate was exactly 3.14 percent across every region we tracked last year, " +
		"which surprised the finance team reviewing the numbers. They had planned for roughly half of that " +
		"amount when the original budget was first drafted."

	sections := SplitSections(doc)
	assert.Equal(t, 2, len(sections), "section count")
	assert.True(t, strings.Contains(sections[0].Content, "3.14"), "decimal stays in one sentence")
}

func TestSplitSectionsAbbreviationGuard(t *testing.T) {
	// "J." must not terminate a sentence of its own.
	doc := "J. Smith wrote the memo that management circulated widely last week despite several objections. " +
		"Everyone read the entire document carefully before the meeting started on Monday morning and took notes."

	sections := SplitSections(doc)
	for _, s := range sections {
		assert.False(t, s.Content == "J.", "initial emitted as its own section")
	}
}

func TestSplitSectionsDropsShortSentences(t *testing.T) {
	doc := strings.Repeat("many words fill this opening sentence ", 6) + "end. Go now. " +
		"Then a final full sentence arrives with plenty of words to stay."

	sections := SplitSections(doc)
	for _, s := range sections {
		assert.False(t, s.Content == "Go now.", "short sentence kept as section")
	}
}

func TestSplitSectionsFallback(t *testing.T) {
	sections := SplitSections("hi")
	assert.Equal(t, 1, len(sections), "whole text fallback")
	assert.Equal(t, "hi", sections[0].Content, "fallback content")

	assert.Equal(t, 0, len(SplitSections("   \n\n  ")), "blank text has no sections")
}

func TestSectionHashStability(t *testing.T) {
	assert.Equal(t, SectionHash("same text"), SectionHash("same text"), "hash determinism")
	assert.False(t, SectionHash("one") == SectionHash("two"), "distinct content hashes")
}

// Editing only the second paragraph must mark only its section as
// changed, so the first paragraph's cached suggestions survive.
func TestChangedSectionsScopesReanalysis(t *testing.T) {
	before := SplitSections("Para one sentence. Another sentence here.\n\nPara two.")
	after := SplitSections("Para one sentence. Another sentence here.\n\nPara two, edited.")

	changed := ChangedSections(before, after)
	assert.Equal(t, 1, len(changed), "changed section count")
	assert.Equal(t, "Para two, edited.", changed[0].Content, "changed section content")
}

func TestChangedSectionsNoChanges(t *testing.T) {
	doc := "Stable paragraph.\n\nAnother stable paragraph."
	prev := SplitSections(doc)
	curr := SplitSections(doc)
	assert.Equal(t, 0, len(ChangedSections(prev, curr)), "no hash differences")
}

func TestChangedSectionsAllNewOnFirstPass(t *testing.T) {
	curr := SplitSections("Fresh paragraph one.\n\nFresh paragraph two.")
	changed := ChangedSections(nil, curr)
	assert.Equal(t, len(curr), len(changed), "everything changed on first pass")
}

func TestSectionsNonOverlapping(t *testing.T) {
	doc := "First paragraph with some words in it. More words here too.\n\n" +
		strings.Repeat("A somewhat longer sentence that contributes to paragraph length. ", 5)

	sections := SplitSections(doc)
	assert.True(t, len(sections) >= 2, "multiple sections")
	var prev types.TextSection
	for i, s := range sections {
		if i > 0 {
			assert.True(t, s.StartIndex >= prev.EndIndex, "sections in order without overlap")
		}
		prev = s
	}
}

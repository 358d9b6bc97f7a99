package text

import (
	"testing"

	"redline/assert"
)

func TestWords(t *testing.T) {
	words := Words("The cat, obviously, sat.")
	assert.Equal(t, 4, len(words), "word count")
	assert.Equal(t, "The", words[0].Text, "first word")
	assert.Equal(t, 0, words[0].Start, "first word start")
	assert.Equal(t, "obviously", words[2].Text, "third word")
	assert.Equal(t, "sat", words[3].Text, "last word")

	assert.Equal(t, 0, len(Words("123 456 ...")), "digits are not words")
}

func TestCompletedWord(t *testing.T) {
	// Caret right after the space that finished "cat".
	w, ok := CompletedWord("The cat ", 8)
	assert.True(t, ok, "word completed")
	assert.Equal(t, "cat", w.Text, "completed word")
	assert.Equal(t, 4, w.Start, "completed word start")

	_, ok = CompletedWord("The ca", 6)
	assert.False(t, ok, "mid-word caret does not complete")

	_, ok = CompletedWord("a ", 2)
	assert.False(t, ok, "single-letter token is not a completion")

	w, ok = CompletedWord("Done.", 5)
	assert.True(t, ok, "punctuation completes a word")
	assert.Equal(t, "Done", w.Text, "word before punctuation")
}

func TestLastWords(t *testing.T) {
	doc := "one two three four five "

	window, start := LastWords(doc, len(doc), 3)
	assert.Equal(t, "three four five ", window, "last three words window")
	assert.Equal(t, 8, start, "window start offset")

	window, start = LastWords(doc, len(doc), 100)
	assert.Equal(t, doc, window, "window capped at full text")
	assert.Equal(t, 0, start, "window start at zero")

	window, _ = LastWords("", 0, 3)
	assert.Equal(t, "", window, "empty text")
}

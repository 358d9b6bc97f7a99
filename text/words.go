package text

import "strings"

// Word is a token of consecutive ASCII letters with its document offsets.
type Word struct {
	Text  string
	Start int
	End   int
}

// isLetter reports whether c is an ASCII letter. Word-boundary rules are
// deliberately ASCII-only.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Words tokenizes text into letter runs with their offsets.
func Words(text string) []Word {
	var words []Word
	start := -1
	for i := 0; i < len(text); i++ {
		if isLetter(text[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, Word{Text: text[start:i], Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, Word{Text: text[start:], Start: start, End: len(text)})
	}
	return words
}

// fuzzyWords returns the lowercased words of s longer than two
// characters, the token set used by the fuzzy locator.
func fuzzyWords(s string) []string {
	var out []string
	for _, w := range Words(s) {
		if len(w.Text) > 2 {
			out = append(out, strings.ToLower(w.Text))
		}
	}
	return out
}

// CompletedWord reports whether the character typed at caret finished a
// word: the caret sits right after whitespace or punctuation, and the
// token preceding that boundary is at least two letters long. Returns
// the completed word when true.
func CompletedWord(text string, caret int) (Word, bool) {
	if caret < 2 || caret > len(text) {
		return Word{}, false
	}
	boundary := text[caret-1]
	if isLetter(boundary) {
		return Word{}, false
	}

	end := caret - 1
	start := end
	for start > 0 && isLetter(text[start-1]) {
		start--
	}
	if end-start < 2 {
		return Word{}, false
	}
	return Word{Text: text[start:end], Start: start, End: end}, true
}

// LastWords returns the window of up to n words ending at caret, as a
// substring of text together with its start offset. Used to scope the
// immediate dictionary check to what was just typed.
func LastWords(text string, caret, n int) (string, int) {
	if caret > len(text) {
		caret = len(text)
	}
	if caret <= 0 || n <= 0 {
		return "", 0
	}

	words := Words(text[:caret])
	if len(words) == 0 {
		return "", 0
	}
	first := words[0]
	if len(words) > n {
		first = words[len(words)-n]
	}
	return text[first.Start:caret], first.Start
}

package text

import (
	"redline/logger"
	"redline/types"
)

// Reposition applies one text-change event to a set of live suggestions
// and returns the survivors with corrected spans.
//
// The coarse pass shifts every suggestion starting at or after the
// change point by the length delta, drops every suggestion the edit
// landed strictly inside of, and leaves suggestions entirely before the
// change untouched. Each survivor is then re-verified with Locate
// against the new text; anything that cannot be restored to
// document[span] == original is dropped.
func Reposition(suggestions []*types.Suggestion, oldText, newText string, changeStart int) []*types.Suggestion {
	delta := len(newText) - len(oldText)

	var out []*types.Suggestion
	for _, s := range suggestions {
		switch {
		case s.Span.Start >= changeStart:
			s.Span.Start += delta
			s.Span.End += delta
		case s.Span.End > changeStart:
			// The edit landed inside this suggestion's text. No
			// partial-span healing is attempted.
			logger.Debug("reposition: dropping %s, edit inside span", s.ID)
			continue
		}

		loc := Locate(newText, s.Original, s.Span.Start, s.Span.End, s.ContextBefore, s.ContextAfter)
		if !loc.Found {
			logger.Debug("reposition: dropping %s, not relocatable", s.ID)
			continue
		}
		s.Span.Start = loc.Start
		s.Span.End = loc.End
		if !s.MatchesText(newText) {
			logger.Debug("reposition: dropping %s, span no longer verbatim", s.ID)
			continue
		}
		out = append(out, s)
	}
	return out
}

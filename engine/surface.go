package engine

import (
	"redline/logger"
	"redline/text"
	"redline/types"
)

// Surface owns the document text buffer, the caret, and the live
// suggestion set. It is the sole source of truth for offsets; every
// other component works on snapshots handed to it. Surface methods do
// no locking of their own, the engine serializes all access.
type Surface struct {
	docID       string
	text        string
	caret       int
	suggestions []*types.Suggestion
	// selectedID is the suggestion the user currently has focused.
	// Cleared whenever that suggestion leaves the live set; while it
	// survives, its span is kept current by the same repositioning
	// that moves every other suggestion.
	selectedID string
}

// setDocument switches the surface to a new document, discarding the
// previous suggestion set.
func (s *Surface) setDocument(id, content string) {
	s.docID = id
	s.text = content
	s.caret = len(content)
	s.suggestions = nil
	s.selectedID = ""
}

// updateText replaces the buffer with a new snapshot, repositioning
// every live suggestion across the edit. A snapshot identical to the
// current buffer never reaches the differ. Returns the computed change.
func (s *Surface) updateText(newText string, caret int) text.Change {
	if newText == s.text {
		s.caret = clamp(caret, 0, len(newText))
		return text.Change{Start: len(newText)}
	}

	change := text.Diff(s.text, newText)
	s.suggestions = text.Reposition(s.suggestions, s.text, newText, change.Start)
	s.text = newText
	s.caret = clamp(caret, 0, len(newText))
	s.syncSelection()
	return change
}

// syncSelection clears the selection when the selected suggestion is
// no longer live.
func (s *Surface) syncSelection() {
	if s.selectedID != "" && s.find(s.selectedID) == nil {
		s.selectedID = ""
	}
}

// find returns the live suggestion with the given ID, or nil.
func (s *Surface) find(id string) *types.Suggestion {
	for _, sg := range s.suggestions {
		if sg.ID == id {
			return sg
		}
	}
	return nil
}

// removeByID drops a suggestion from the live set. Returns false when
// no suggestion with that ID is live.
func (s *Surface) removeByID(id string) bool {
	for i, sg := range s.suggestions {
		if sg.ID == id {
			s.suggestions = append(s.suggestions[:i], s.suggestions[i+1:]...)
			if s.selectedID == id {
				s.selectedID = ""
			}
			return true
		}
	}
	return false
}

// apply splices the suggestion's replacement into the buffer and
// repositions the remaining set across the splice. The caller has
// already verified the span against the current text.
func (s *Surface) apply(sg *types.Suggestion) {
	oldText := s.text
	newText := oldText[:sg.Span.Start] + sg.Suggested + oldText[sg.Span.End:]

	s.removeByID(sg.ID)
	s.suggestions = text.Reposition(s.suggestions, oldText, newText, sg.Span.Start)
	s.text = newText
	s.syncSelection()

	delta := len(sg.Suggested) - sg.Span.Len()
	switch {
	case s.caret >= sg.Span.End:
		s.caret += delta
	case s.caret > sg.Span.Start:
		s.caret = sg.Span.Start + len(sg.Suggested)
	}

	logger.Debug("applied suggestion %s at [%d,%d)", sg.ID, sg.Span.Start, sg.Span.End)
}

// snapshot returns copies of the live suggestions so callers can read
// them without holding the engine lock.
func (s *Surface) snapshot() []*types.Suggestion {
	out := make([]*types.Suggestion, len(s.suggestions))
	for i, sg := range s.suggestions {
		cp := *sg
		out[i] = &cp
	}
	return out
}

// liveIDs returns the set of IDs currently live.
func (s *Surface) liveIDs() map[string]bool {
	ids := make(map[string]bool, len(s.suggestions))
	for _, sg := range s.suggestions {
		ids[sg.ID] = true
	}
	return ids
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

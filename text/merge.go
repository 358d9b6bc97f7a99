package text

import (
	"sort"

	"redline/logger"
	"redline/types"
)

// Merge combines an existing suggestion set with a freshly produced
// one, resolving spatial overlaps by source priority, and returns a
// conflict-free set sorted by span start. Incoming suggestions
// originate from a single producer per call.
//
// Priority is asymmetric: semantic analysis displaces dictionary
// analysis on overlap, a newer semantic suggestion displaces an older
// one, but an incoming dictionary suggestion overlapping an existing
// semantic one is dropped outright, never inserted. Expensive analysis
// is never silently overwritten by cheaper analysis.
func Merge(existing, incoming []*types.Suggestion, currentText string) []*types.Suggestion {
	// Defensive re-validation: evict anything whose span no longer
	// points at its original text.
	merged := make([]*types.Suggestion, 0, len(existing)+len(incoming))
	for _, s := range existing {
		if !s.MatchesText(currentText) {
			logger.Debug("merge: evicting stale %s", s.ID)
			continue
		}
		merged = append(merged, s)
	}

	for _, inc := range incoming {
		var overlapped []*types.Suggestion
		for _, cur := range merged {
			if inc.Span.Overlaps(cur.Span) {
				overlapped = append(overlapped, cur)
			}
		}

		if inc.Source() == types.SourceDictionary && anySemantic(overlapped) {
			logger.Debug("merge: dropping dictionary %s, semantic coverage exists", inc.ID)
			continue
		}

		if len(overlapped) > 0 {
			merged = remove(merged, overlapped)
		}
		merged = append(merged, inc)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Span.Start < merged[j].Span.Start
	})
	return merged
}

func anySemantic(suggestions []*types.Suggestion) bool {
	for _, s := range suggestions {
		if s.Source() == types.SourceSemantic {
			return true
		}
	}
	return false
}

func remove(set, victims []*types.Suggestion) []*types.Suggestion {
	doomed := make(map[string]bool, len(victims))
	for _, v := range victims {
		doomed[v.ID] = true
	}
	out := set[:0]
	for _, s := range set {
		if !doomed[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

package engine

import (
	"redline/text"
	"redline/types"
)

// sectionCache holds the previous section partition of the document and
// a hash-indexed record of the suggestions each section carried, so
// unchanged sections keep their results without another remote call and
// a reverted section can restore its old suggestions. Scoped to one
// document session, reset on document switch.
type sectionCache struct {
	previous []types.TextSection
	byHash   map[uint32][]*types.Suggestion
}

func newSectionCache() *sectionCache {
	return &sectionCache{byHash: make(map[uint32][]*types.Suggestion)}
}

func (c *sectionCache) reset() {
	c.previous = nil
	c.byHash = make(map[uint32][]*types.Suggestion)
}

// changed diffs a new partition against the previous one and makes the
// new partition current.
func (c *sectionCache) changed(curr []types.TextSection) []types.TextSection {
	changed := text.ChangedSections(c.previous, curr)
	c.previous = curr
	return changed
}

// lookup returns copies of the suggestions last recorded for a section
// hash. A hit with an empty slice is meaningful: the section was
// analyzed before and produced nothing.
func (c *sectionCache) lookup(hash uint32) ([]*types.Suggestion, bool) {
	cached, ok := c.byHash[hash]
	if !ok {
		return nil, false
	}
	out := make([]*types.Suggestion, len(cached))
	for i, sg := range cached {
		cp := *sg
		out[i] = &cp
	}
	return out, true
}

// record snapshots the live suggestion set into the per-hash map,
// grouping suggestions by span containment in the current partition.
func (c *sectionCache) record(live []*types.Suggestion) {
	for _, sec := range c.previous {
		var inside []*types.Suggestion
		for _, sg := range live {
			if sg.Span.Start >= sec.StartIndex && sg.Span.End <= sec.EndIndex {
				cp := *sg
				inside = append(inside, &cp)
			}
		}
		if inside == nil {
			inside = []*types.Suggestion{}
		}
		c.byHash[sec.Hash] = inside
	}
}

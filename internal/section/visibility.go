// Package section holds the pure rules of a profile's section registry: which
// sections a viewer sees, in what order, and which reorder requests are valid.
package section

import (
	"sort"

	"github.com/rize-social/rize/internal/model"
)

// Resolution is the rendered section list for one viewer.
type Resolution struct {
	Slugs []model.SectionSlug `json:"sections"`
	// Empty is set for an owner whose profile has no eligible section; the
	// presentation layer shows a content invitation instead of sections.
	Empty bool `json:"empty"`
}

// Resolve filters and orders sections for a viewer.
//
// A disabled section is never shown. Visitors see enabled sections that have
// content, in registry order. Owners see every enabled section, populated ones
// first, registry order preserved inside each group.
func Resolve(sections []model.Section, content map[model.SectionSlug]bool, isOwner bool) Resolution {
	ordered := make([]model.Section, len(sections))
	copy(ordered, sections)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	eligible := make([]model.Section, 0, len(ordered))
	for _, s := range ordered {
		if !s.Enabled {
			continue
		}
		if !isOwner && !content[s.Slug] {
			continue
		}
		eligible = append(eligible, s)
	}

	if isOwner {
		sort.SliceStable(eligible, func(i, j int) bool {
			return content[eligible[i].Slug] && !content[eligible[j].Slug]
		})
	}

	out := Resolution{Slugs: make([]model.SectionSlug, 0, len(eligible))}
	for _, s := range eligible {
		out.Slugs = append(out.Slugs, s.Slug)
	}
	out.Empty = isOwner && len(out.Slugs) == 0
	return out
}

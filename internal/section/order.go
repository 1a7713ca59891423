package section

import "github.com/rize-social/rize/internal/model"

// ValidateOrder checks that ordered is a permutation of the slugs in existing.
func ValidateOrder(existing []model.Section, ordered []model.SectionSlug) error {
	if len(existing) != len(ordered) {
		return model.ErrInvalidOrder
	}
	have := make(map[model.SectionSlug]bool, len(existing))
	for _, s := range existing {
		have[s.Slug] = true
	}
	seen := make(map[model.SectionSlug]bool, len(ordered))
	for _, slug := range ordered {
		if !slug.Valid() {
			return model.ErrInvalidSection
		}
		if !have[slug] || seen[slug] {
			return model.ErrInvalidOrder
		}
		seen[slug] = true
	}
	return nil
}

// ValidateIDs is ValidateOrder for id-addressed collections.
func ValidateIDs(existing, ordered []string) error {
	if len(existing) != len(ordered) {
		return model.ErrInvalidOrder
	}
	have := make(map[string]bool, len(existing))
	for _, id := range existing {
		have[id] = true
	}
	seen := make(map[string]bool, len(ordered))
	for _, id := range ordered {
		if !have[id] || seen[id] {
			return model.ErrInvalidOrder
		}
		seen[id] = true
	}
	return nil
}

// ToggleSet validates slugs and collapses duplicates, keeping first-seen order.
func ToggleSet(slugs []model.SectionSlug) ([]model.SectionSlug, error) {
	seen := make(map[model.SectionSlug]bool, len(slugs))
	out := make([]model.SectionSlug, 0, len(slugs))
	for _, slug := range slugs {
		if !slug.Valid() {
			return nil, model.ErrInvalidSection
		}
		if seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, slug)
	}
	return out, nil
}

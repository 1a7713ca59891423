package model

type SectionSlug string

const (
	SectionGallery    SectionSlug = "gallery"
	SectionPosts      SectionSlug = "posts"
	SectionWritings   SectionSlug = "writings"
	SectionProjects   SectionSlug = "projects"
	SectionEducation  SectionSlug = "education"
	SectionExperience SectionSlug = "experience"
)

var sectionSlugs = []SectionSlug{
	SectionGallery,
	SectionPosts,
	SectionWritings,
	SectionProjects,
	SectionEducation,
	SectionExperience,
}

// SectionSlugs returns the fixed set of section slugs in default order.
func SectionSlugs() []SectionSlug {
	out := make([]SectionSlug, len(sectionSlugs))
	copy(out, sectionSlugs)
	return out
}

func (s SectionSlug) Valid() bool {
	for _, v := range sectionSlugs {
		if v == s {
			return true
		}
	}
	return false
}

// Section is one registry entry of a profile's content categories.
type Section struct {
	ID        string      `json:"id"`
	ProfileID string      `json:"profile_id"`
	Slug      SectionSlug `json:"slug"`
	Enabled   bool        `json:"enabled"`
	Order     int         `json:"order"`
}

// DefaultSections returns the registry a new profile starts with: every slug
// enabled, ordered as declared.
func DefaultSections(profileID string) []Section {
	out := make([]Section, 0, len(sectionSlugs))
	for i, slug := range sectionSlugs {
		out = append(out, Section{
			ProfileID: profileID,
			Slug:      slug,
			Enabled:   true,
			Order:     i,
		})
	}
	return out
}

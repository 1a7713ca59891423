// Package importer fills a profile's experience and education from a JSON
// Resume document (https://jsonresume.org/schema) published at a URL.
package importer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rize-social/rize/internal/model"
)

// Resume is the subset of the JSON Resume schema that is imported.
type Resume struct {
	Basics struct {
		Summary string `json:"summary"`
	} `json:"basics"`
	Work      []Work      `json:"work"`
	Education []Education `json:"education"`
}

type Work struct {
	Name      string `json:"name"`
	Company   string `json:"company"` // pre-1.0 schema
	Position  string `json:"position"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Summary   string `json:"summary"`
}

type Education struct {
	Institution string `json:"institution"`
	StudyType   string `json:"studyType"`
	Area        string `json:"area"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// parseDate accepts the full, year-month and year-only forms the schema
// allows. Anything else reads as unknown.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Experience converts work entries, dropping those without a company or
// position.
func (r *Resume) Experience(profileID string) []model.Experience {
	out := make([]model.Experience, 0, len(r.Work))
	for _, w := range r.Work {
		company := strings.TrimSpace(w.Name)
		if company == "" {
			company = strings.TrimSpace(w.Company)
		}
		title := strings.TrimSpace(w.Position)
		if company == "" || title == "" {
			continue
		}
		out = append(out, model.Experience{
			ID:          uuid.NewString(),
			ProfileID:   profileID,
			Company:     company,
			Title:       title,
			Location:    strings.TrimSpace(w.Location),
			StartDate:   parseDate(w.StartDate),
			EndDate:     parseDate(w.EndDate),
			Description: strings.TrimSpace(w.Summary),
		})
	}
	return out
}

// EducationEntries converts education entries, dropping those without an
// institution.
func (r *Resume) EducationEntries(profileID string) []model.Education {
	out := make([]model.Education, 0, len(r.Education))
	for _, e := range r.Education {
		school := strings.TrimSpace(e.Institution)
		if school == "" {
			continue
		}
		out = append(out, model.Education{
			ID:        uuid.NewString(),
			ProfileID: profileID,
			School:    school,
			Degree:    strings.TrimSpace(e.StudyType),
			Field:     strings.TrimSpace(e.Area),
			StartDate: parseDate(e.StartDate),
			EndDate:   parseDate(e.EndDate),
		})
	}
	return out
}

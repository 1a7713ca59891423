package model

import "time"

// ContentKind names the owner-managed collections that share the generic
// create/update/delete/reposition surface.
type ContentKind string

const (
	KindGallery       ContentKind = "gallery"
	KindWritings      ContentKind = "writings"
	KindProjects      ContentKind = "projects"
	KindEducation     ContentKind = "education"
	KindExperience    ContentKind = "experience"
	KindOrganizations ContentKind = "organizations"
	KindStory         ContentKind = "story"
)

// Positioned reports whether items of the kind carry a user-controlled position.
func (k ContentKind) Positioned() bool {
	return k != KindWritings
}

func (k ContentKind) Valid() bool {
	switch k {
	case KindGallery, KindWritings, KindProjects, KindEducation, KindExperience, KindOrganizations, KindStory:
		return true
	}
	return false
}

type GalleryItem struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	MediaID   string    `json:"media_id" validate:"required,uuid"`
	Caption   string    `json:"caption" validate:"max=280"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// GalleryView is a gallery item with its media folded in; Media is nil when
// the referenced row no longer exists.
type GalleryView struct {
	GalleryItem
	Media *Media `json:"media"`
}

// Page is a long-form writing.
type Page struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Title     string    `json:"title" validate:"required,max=200"`
	Body      string    `json:"body" validate:"max=100000"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PageView struct {
	Page
	Author Author `json:"author"`
}

type Project struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profile_id"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	URL         string    `json:"url" validate:"omitempty,url"`
	MediaIDs    []string  `json:"media_ids,omitempty" validate:"dive,uuid"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectView is a project with its attachments. Attachments is empty, never
// nil, when the project has none.
type ProjectView struct {
	Project
	Author      Author  `json:"author"`
	Attachments []Media `json:"attachments"`
}

type Education struct {
	ID          string     `json:"id"`
	ProfileID   string     `json:"profile_id"`
	School      string     `json:"school" validate:"required,max=200"`
	Degree      string     `json:"degree" validate:"max=200"`
	Field       string     `json:"field" validate:"max=200"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Description string     `json:"description" validate:"max=5000"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Experience struct {
	ID          string     `json:"id"`
	ProfileID   string     `json:"profile_id"`
	Company     string     `json:"company" validate:"required,max=200"`
	Title       string     `json:"title" validate:"required,max=200"`
	Location    string     `json:"location" validate:"max=200"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Description string     `json:"description" validate:"max=5000"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Organization struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Name      string    `json:"name" validate:"required,max=200"`
	Role      string    `json:"role" validate:"max=200"`
	URL       string    `json:"url" validate:"omitempty,url"`
	LogoURL   string    `json:"logo_url" validate:"omitempty,url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// StoryElement is one entry of a profile's personal story timeline.
type StoryElement struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Title     string    `json:"title" validate:"required,max=200"`
	Body      string    `json:"body" validate:"max=5000"`
	MediaID   *string   `json:"media_id" validate:"omitempty,uuid"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

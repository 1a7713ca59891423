package model

import "time"

type Platform string

const (
	PlatformX         Platform = "x"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformGitHub    Platform = "github"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformWebsite   Platform = "website"
	PlatformDribbble  Platform = "dribbble"
	PlatformBehance   Platform = "behance"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformX, PlatformLinkedIn, PlatformGitHub, PlatformInstagram,
		PlatformYouTube, PlatformWebsite, PlatformDribbble, PlatformBehance:
		return true
	}
	return false
}

// SocialLink holds at most one URL per platform per profile.
type SocialLink struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Platform  Platform  `json:"platform"`
	URL       string    `json:"url"`
	UpdatedAt time.Time `json:"updated_at"`
}

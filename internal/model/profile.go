package model

import "time"

type Profile struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"-"`
	Username             string    `json:"username"`
	DisplayName          string    `json:"display_name"`
	Bio                  string    `json:"bio"`
	Location             string    `json:"location"`
	Mission              string    `json:"mission"`
	Philosophy           string    `json:"philosophy"`
	ProfileImage         string    `json:"profile_image"`
	OnboardingCompleted  bool      `json:"onboarding_completed"`
	WalkthroughCompleted bool      `json:"walkthrough_completed"`
	IsLive               bool      `json:"is_live"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ProfilePatch carries owner-editable profile fields. Nil fields are left
// untouched.
type ProfilePatch struct {
	DisplayName  *string `json:"display_name" validate:"omitempty,max=80"`
	Bio          *string `json:"bio" validate:"omitempty,max=500"`
	Location     *string `json:"location" validate:"omitempty,max=120"`
	Mission      *string `json:"mission" validate:"omitempty,max=1000"`
	Philosophy   *string `json:"philosophy" validate:"omitempty,max=1000"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,url"`
}

// Apply copies the set fields of the patch onto p.
func (pp ProfilePatch) Apply(p *Profile) {
	if pp.DisplayName != nil {
		p.DisplayName = *pp.DisplayName
	}
	if pp.Bio != nil {
		p.Bio = *pp.Bio
	}
	if pp.Location != nil {
		p.Location = *pp.Location
	}
	if pp.Mission != nil {
		p.Mission = *pp.Mission
	}
	if pp.Philosophy != nil {
		p.Philosophy = *pp.Philosophy
	}
	if pp.ProfileImage != nil {
		p.ProfileImage = *pp.ProfileImage
	}
}

// Author is the display summary of a profile joined onto content rows.
type Author struct {
	ProfileID    string `json:"profile_id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	ProfileImage string `json:"profile_image"`
}

// SearchResult is one hit of a profile full-text search.
type SearchResult struct {
	Author
	Bio  string  `json:"bio"`
	Rank float64 `json:"rank"`
}

// ClaimRequest is the input of username claiming.
type ClaimRequest struct {
	Username    string `json:"username" validate:"required"`
	DisplayName string `json:"display_name" validate:"required,max=80"`
}

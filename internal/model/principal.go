package model

// Principal is the request-scoped identity passed explicitly into every
// operation. The zero value is an anonymous viewer.
type Principal struct {
	UserID    string
	ProfileID string
}

// Anonymous reports whether no authenticated user is attached.
func (p Principal) Anonymous() bool { return p.UserID == "" }

// Owns reports whether the principal owns the given profile.
func (p Principal) Owns(profileID string) bool {
	return p.ProfileID != "" && p.ProfileID == profileID
}

// ViewerProfileID returns the profile id used for viewer-relative flags, or
// nil for anonymous viewers so SQL comparisons evaluate to false.
func (p Principal) ViewerProfileID() any {
	if p.ProfileID == "" {
		return nil
	}
	return p.ProfileID
}

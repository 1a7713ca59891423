package model

import "time"

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media is an uploaded image or video owned by the uploading profile.
// Content rows reference it by id.
type Media struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Kind      MediaKind `json:"kind"`
	URL       string    `json:"url"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

// PresignedUpload is returned for direct-to-storage uploads. The media row
// exists as soon as it is issued; UploadURL accepts a single PUT.
type PresignedUpload struct {
	Media     Media     `json:"media"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

package model

import "time"

type Post struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Body      string    `json:"body"`
	MediaID   *string   `json:"media_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PostLink is the preview of a URL attached to a post.
type PostLink struct {
	PostID      string `json:"-"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	SiteName    string `json:"site_name"`
}

// NewPost is the input of post creation.
type NewPost struct {
	Body    string  `json:"body" validate:"required_without_all=MediaID LinkURL,max=3000"`
	MediaID *string `json:"media_id" validate:"omitempty,uuid"`
	LinkURL *string `json:"link_url" validate:"omitempty,url"`
}

// PostView is a post enriched for a particular viewer. Media and Link are nil
// when absent. Viewer flags are false for anonymous viewers.
type PostView struct {
	Post
	Author           Author    `json:"author"`
	Media            *Media    `json:"media"`
	Link             *PostLink `json:"link"`
	LikeCount        int       `json:"like_count"`
	CommentCount     int       `json:"comment_count"`
	ViewerLiked      bool      `json:"viewer_liked"`
	ViewerCommented  bool      `json:"viewer_commented"`
	ViewerBookmarked bool      `json:"viewer_bookmarked"`
}

// Score is the popularity used to rank a profile's top posts.
func (v PostView) Score() int { return v.LikeCount + v.CommentCount }

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	ProfileID string    `json:"profile_id"`
	Body      string    `json:"body"`
	MediaID   *string   `json:"media_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentView struct {
	Comment
	Author Author `json:"author"`
	Media  *Media `json:"media"`
}

// Pagination bounds a listing query.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps the pagination into the accepted range.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// NewComment is the input of comment creation.
type NewComment struct {
	Body    string  `json:"body" validate:"required,max=1000"`
	MediaID *string `json:"media_id" validate:"omitempty,uuid"`
}

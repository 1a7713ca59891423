// Package schema defines the relational tables. Repositories query them with
// plain SQL; these definitions only drive migrations.
package schema

import "time"

type Profile struct {
	ID                   string    `gorm:"type:uuid;primaryKey"`
	UserID               string    `gorm:"type:text;not null;uniqueIndex"`
	Username             string    `gorm:"type:text;not null;uniqueIndex"`
	DisplayName          string    `gorm:"type:text;not null;default:''"`
	Bio                  string    `gorm:"type:text;not null;default:''"`
	Location             string    `gorm:"type:text;not null;default:''"`
	Mission              string    `gorm:"type:text;not null;default:''"`
	Philosophy           string    `gorm:"type:text;not null;default:''"`
	ProfileImage         string    `gorm:"type:text;not null;default:''"`
	OnboardingCompleted  bool      `gorm:"not null;default:false"`
	WalkthroughCompleted bool      `gorm:"not null;default:false"`
	IsLive               bool      `gorm:"not null;default:true;index"`
	CreatedAt            time.Time `gorm:"not null;default:now()"`
	UpdatedAt            time.Time `gorm:"not null;default:now()"`

	Sections      []Section      `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Media         []Media        `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Gallery       []GalleryItem  `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Posts         []Post         `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Pages         []Page         `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Projects      []Project      `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Education     []Education    `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Experience    []Experience   `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	SocialLinks   []SocialLink   `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Organizations []Organization `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Story         []StoryElement `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	ImportJobs    []ImportJob    `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
}

func (Profile) TableName() string { return "profiles" }

// Section rows are unique per (profile_id, slug).
type Section struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	ProfileID string `gorm:"type:uuid;not null;uniqueIndex:idx_sections_profile_slug,priority:1"`
	Slug      string `gorm:"type:text;not null;uniqueIndex:idx_sections_profile_slug,priority:2"`
	Enabled   bool   `gorm:"not null;default:true"`
	SortOrder int    `gorm:"not null;default:0"`
}

func (Section) TableName() string { return "sections" }

type Media struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ProfileID string    `gorm:"type:uuid;not null;index"`
	Kind      string    `gorm:"type:text;not null"`
	URL       string    `gorm:"type:text;not null"`
	Width     int       `gorm:"not null;default:0"`
	Height    int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Media) TableName() string { return "media" }

type GalleryItem struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ProfileID string    `gorm:"type:uuid;not null;index"`
	MediaID   string    `gorm:"type:uuid;not null;index"`
	Media     Media     `gorm:"foreignKey:MediaID;constraint:OnDelete:CASCADE"`
	Caption   string    `gorm:"type:text;not null;default:''"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (GalleryItem) TableName() string { return "gallery_items" }

type Post struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ProfileID string    `gorm:"type:uuid;not null;index:idx_posts_profile_created,priority:1"`
	Body      string    `gorm:"type:text;not null;default:''"`
	MediaID   *string   `gorm:"type:uuid"`
	Media     *Media    `gorm:"foreignKey:MediaID;constraint:OnDelete:SET NULL"`
	CreatedAt time.Time `gorm:"not null;default:now();index:idx_posts_profile_created,priority:2,sort:desc"`

	Link      *PostLink  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Likes     []Like     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Bookmarks []Bookmark `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Comments  []Comment  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (Post) TableName() string { return "posts" }

type PostLink struct {
	PostID      string `gorm:"type:uuid;primaryKey"`
	URL         string `gorm:"type:text;not null"`
	Title       string `gorm:"type:text;not null;default:''"`
	Description string `gorm:"type:text;not null;default:''"`
	ImageURL    string `gorm:"type:text;not null;default:''"`
	SiteName    string `gorm:"type:text;not null;default:''"`
}

func (PostLink) TableName() string { return "post_links" }

// Like and Bookmark rows are the state: presence means on.
type Like struct {
	ProfileID string    `gorm:"type:uuid;primaryKey"`
	PostID    string    `gorm:"type:uuid;primaryKey;index"`
	Profile   Profile   `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Like) TableName() string { return "likes" }

type Bookmark struct {
	ProfileID string    `gorm:"type:uuid;primaryKey"`
	PostID    string    `gorm:"type:uuid;primaryKey;index"`
	Profile   Profile   `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Bookmark) TableName() string { return "bookmarks" }

type Comment struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	PostID    string    `gorm:"type:uuid;not null;index"`
	ProfileID string    `gorm:"type:uuid;not null;index"`
	Profile   Profile   `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Body      string    `gorm:"type:text;not null"`
	MediaID   *string   `gorm:"type:uuid"`
	Media     *Media    `gorm:"foreignKey:MediaID;constraint:OnDelete:SET NULL"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Comment) TableName() string { return "comments" }

type Page struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ProfileID string    `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:text;not null"`
	Body      string    `gorm:"type:text;not null;default:''"`
	Published bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Page) TableName() string { return "pages" }

type Project struct {
	ID          string         `gorm:"type:uuid;primaryKey"`
	ProfileID   string         `gorm:"type:uuid;not null;index"`
	Title       string         `gorm:"type:text;not null"`
	Description string         `gorm:"type:text;not null;default:''"`
	URL         string         `gorm:"type:text;not null;default:''"`
	Position    int            `gorm:"not null;default:0"`
	CreatedAt   time.Time      `gorm:"not null;default:now()"`
	Attachments []ProjectMedia `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (Project) TableName() string { return "projects" }

type ProjectMedia struct {
	ProjectID string `gorm:"type:uuid;primaryKey"`
	MediaID   string `gorm:"type:uuid;primaryKey"`
	Media     Media  `gorm:"foreignKey:MediaID;constraint:OnDelete:CASCADE"`
	Position  int    `gorm:"not null;default:0"`
}

func (ProjectMedia) TableName() string { return "project_media" }

type Education struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	ProfileID   string     `gorm:"type:uuid;not null;index"`
	School      string     `gorm:"type:text;not null"`
	Degree      string     `gorm:"type:text;not null;default:''"`
	Field       string     `gorm:"type:text;not null;default:''"`
	StartDate   *time.Time `gorm:"type:date"`
	EndDate     *time.Time `gorm:"type:date"`
	Description string     `gorm:"type:text;not null;default:''"`
	Position    int        `gorm:"not null;default:0"`
	CreatedAt   time.Time  `gorm:"not null;default:now()"`
}

func (Education) TableName() string { return "education" }

type Experience struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	ProfileID   string     `gorm:"type:uuid;not null;index"`
	Company     string     `gorm:"type:text;not null"`
	Title       string     `gorm:"type:text;not null"`
	Location    string     `gorm:"type:text;not null;default:''"`
	StartDate   *time.Time `gorm:"type:date"`
	EndDate     *time.Time `gorm:"type:date"`
	Description string     `gorm:"type:text;not null;default:''"`
	Position    int        `gorm:"not null;default:0"`
	CreatedAt   time.Time  `gorm:"not null;default:now()"`
}

func (Experience) TableName() string { return "experience" }

// SocialLink rows are unique per (profile_id, platform).
type SocialLink struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ProfileID string    `gorm:"type:uuid;not null;uniqueIndex:idx_social_profile_platform,priority:1"`
	Platform  string    `gorm:"type:text;not null;uniqueIndex:idx_social_profile_platform,priority:2"`
	URL       string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (SocialLink) TableName() string { return "social_links" }

type Organization struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ProfileID string    `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:text;not null"`
	Role      string    `gorm:"type:text;not null;default:''"`
	URL       string    `gorm:"type:text;not null;default:''"`
	LogoURL   string    `gorm:"type:text;not null;default:''"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Organization) TableName() string { return "organizations" }

type StoryElement struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ProfileID string    `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:text;not null"`
	Body      string    `gorm:"type:text;not null;default:''"`
	MediaID   *string   `gorm:"type:uuid"`
	Media     *Media    `gorm:"foreignKey:MediaID;constraint:OnDelete:SET NULL"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (StoryElement) TableName() string { return "story_elements" }

type OutboxEvent struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"`
	AggregateType string     `gorm:"type:text;not null"`
	AggregateID   string     `gorm:"type:text;not null"`
	EventType     string     `gorm:"type:text;not null"`
	Payload       []byte     `gorm:"type:bytea;not null"`
	RetryCount    int        `gorm:"not null;default:0"`
	Error         string     `gorm:"type:text;not null;default:''"`
	CreatedAt     time.Time  `gorm:"not null;default:now()"`
	ProcessedAt   *time.Time `gorm:"index"`
}

func (OutboxEvent) TableName() string { return "outbox_events" }

type OutboxDLQ struct {
	ID            int64     `gorm:"primaryKey"`
	AggregateType string    `gorm:"type:text;not null"`
	AggregateID   string    `gorm:"type:text;not null"`
	EventType     string    `gorm:"type:text;not null"`
	Payload       []byte    `gorm:"type:bytea;not null"`
	CreatedAt     time.Time `gorm:"not null"`
	FailedAt      time.Time `gorm:"not null;default:now()"`
	Error         string    `gorm:"type:text;not null;default:''"`
	RetryCount    int       `gorm:"not null;default:0"`
}

func (OutboxDLQ) TableName() string { return "outbox_dlq" }

type ImportJob struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	ProfileID  string    `gorm:"type:uuid;not null;index"`
	SourceURL  string    `gorm:"type:text;not null"`
	Status     string    `gorm:"type:text;not null;default:'pending'"`
	Attempts   int       `gorm:"not null;default:0"`
	Error      string    `gorm:"type:text;not null;default:''"`
	Imported   int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`
	FinishedAt *time.Time
}

func (ImportJob) TableName() string { return "import_jobs" }

package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Visibility values for Post.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// CategoryCustom marks a post whose effective category lives in CustomCategory.
const CategoryCustom = "Custom"

// NoImage is the sentinel stored when a post was created without an upload.
const NoImage = "no image"

type User struct {
	ID           int    `gorm:"primary_key;autoIncrement" json:"id"`
	FullName     string `gorm:"not null" json:"full_name"`
	Email        string `gorm:"unique;not null;index" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"` // json:"-" prevents password from being exposed in API
	Bio          string `gorm:"type:text" json:"bio"`
	Role         string `gorm:"not null;default:'user'" json:"role"`
}

type Post struct {
	ID             int       `gorm:"primary_key;autoIncrement" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	Content        string    `gorm:"type:text" json:"content"`
	Category       string    `gorm:"not null;index" json:"category"`
	CustomCategory string    `json:"custom_category"` // non-empty only when Category == "Custom"
	Tags           string    `json:"tags"`            // comma-joined, order-preserving
	Visibility     string    `gorm:"not null;default:'public';index" json:"visibility"`
	AuthorEmail    string    `gorm:"not null;index" json:"author_email"`
	Author         string    `gorm:"not null" json:"author"` // display name snapshot at creation
	ImagePath      string    `json:"image_path"`
	Views          int64     `gorm:"not null;default:0" json:"views"`
	Likes          int64     `gorm:"not null;default:0" json:"likes"`
	CreatedAt      time.Time `json:"created_at"`
}

// EffectiveCategory resolves the Custom/named pair to the category used for
// grouping and related-post lookup.
func (p *Post) EffectiveCategory() string {
	if p.Category == CategoryCustom {
		return p.CustomCategory
	}
	return p.Category
}

type Comment struct {
	ID             int       `gorm:"primary_key;autoIncrement" json:"id"`
	PostID         int       `gorm:"not null;index" json:"post_id"`
	AuthorEmail    string    `gorm:"not null" json:"author_email"`
	AuthorName     string    `gorm:"not null" json:"author_name"`     // snapshot, never re-synced
	RecipientEmail string    `gorm:"not null" json:"recipient_email"` // post author at write time
	Body           string    `gorm:"type:text;not null" json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// PostLike is one membership entry of a post's liked-by set. The unique index
// keeps a user from appearing twice for the same post.
type PostLike struct {
	ID        int       `gorm:"primary_key;autoIncrement" json:"id"`
	PostID    int       `gorm:"not null;uniqueIndex:idx_post_user" json:"post_id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

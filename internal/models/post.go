package models

import (
	"time"

	"github.com/google/uuid"
)

// Post field limits. The slug limit leaves headroom for collision suffixes:
// the base slug is cut to PostSlugBaseLen before "-1", "-2", … are appended.
const (
	PostTitleMaxLen = 255
	PostSlugMaxLen  = 300
	PostSlugBaseLen = 200
)

// Post is a blog entry authored by a user. The slug is assigned once at
// creation, is unique across all posts, and never changes afterwards even
// when the title is edited.
type Post struct {
	ID         uuid.UUID  `json:"id"`
	AuthorID   uuid.UUID  `json:"author_id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Content    string     `json:"content"`
	ImageKey   *string    `json:"-"` // Opaque object-store reference
	Published  bool       `json:"published"`
	ViewCount  int        `json:"view_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Virtual fields populated by store queries or the API layer.
	AuthorName   string  `json:"author"`
	CategoryName *string `json:"category,omitempty"`
	CategorySlug *string `json:"category_slug,omitempty"`
	LikesCount   int     `json:"likes_count"`
	IsLiked      bool    `json:"is_liked"`
	ImageURL     string  `json:"image_url,omitempty"`
}

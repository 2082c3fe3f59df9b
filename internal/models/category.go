package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryNameMaxLen and CategorySlugMaxLen bound the category fields.
// Slugs are truncated to this length before collision suffixes are applied.
const (
	CategoryNameMaxLen = 100
	CategorySlugMaxLen = 120
)

// Category groups posts under a shared topic. Both name and slug are
// globally unique; the slug is derived from the name when not supplied.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// PostCount is a virtual field populated by list queries.
	PostCount int `json:"post_count"`
}

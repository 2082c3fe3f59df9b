package models

import (
	"time"

	"github.com/google/uuid"
)

// CommentBodyMaxLen bounds the comment body length.
const CommentBodyMaxLen = 10_000

// Comment is a reader response attached to a post. AuthorID is nil for
// anonymous comments; the comment outlives its author but never its post.
type Comment struct {
	ID        uuid.UUID  `json:"id"`
	PostID    uuid.UUID  `json:"post_id"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	Body      string     `json:"body"`
	Approved  bool       `json:"approved"`
	CreatedAt time.Time  `json:"created_at"`

	// AuthorName is a virtual field; empty for anonymous comments.
	AuthorName string `json:"author,omitempty"`
}

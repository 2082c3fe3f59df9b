// Package events publishes interaction events for downstream consumers
// (feeds, notifications). Publishing is best effort: services log failures
// and never surface them to the caller.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types carried in each message's payload. Messages are keyed by
// post ID so every event for one post lands on one partition, in order.
const (
	TypePostLiked      = "post.liked"
	TypeCommentCreated = "comment.created"
)

// PostLiked is emitted on every like toggle.
type PostLiked struct {
	PostID     uuid.UUID `json:"post_id"`
	UserID     uuid.UUID `json:"user_id"`
	Liked      bool      `json:"liked"`
	LikesCount int       `json:"likes_count"`
	At         time.Time `json:"at"`
}

// CommentCreated is emitted when a comment is stored. AuthorID is nil for
// anonymous comments.
type CommentCreated struct {
	CommentID uuid.UUID  `json:"comment_id"`
	PostID    uuid.UUID  `json:"post_id"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	At        time.Time  `json:"at"`
}

// Publisher delivers events to an external broker. The key selects the
// partition; callers pass the post ID.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, event any) error
	Close() error
}

// Noop discards all events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, string, any) error { return nil }
func (Noop) Close() error                                       { return nil }

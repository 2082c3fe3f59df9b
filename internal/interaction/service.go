// Package interaction implements the like-toggle operations layered on
// the content service's post collection.
package interaction

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"blogapi/internal/apperr"
	"blogapi/internal/events"
	"blogapi/internal/identity"
	"blogapi/internal/models"
)

// PostFinder resolves a post slug to the post record.
type PostFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
}

// LikeStore is the like-set persistence consumed by the service. Toggle
// must flip membership and report the post-mutation count atomically.
type LikeStore interface {
	Toggle(ctx context.Context, postID, userID uuid.UUID) (liked bool, count int, err error)
	IsLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error)
}

// LikeResult is the outcome of a toggle: the caller's new membership
// state and the like count after the caller's own committed mutation.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// Service implements like toggling and membership checks.
type Service struct {
	posts  PostFinder
	likes  LikeStore
	events events.Publisher
}

// NewService creates an interaction service over the given stores.
func NewService(posts PostFinder, likes LikeStore, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Service{posts: posts, likes: likes, events: pub}
}

// ToggleLike flips the caller's membership in the post's like set. Two
// consecutive calls from the same caller always flip state, never no-op.
// Requires an authenticated caller.
func (s *Service) ToggleLike(ctx context.Context, caller identity.Caller, postSlug string) (*LikeResult, error) {
	if !caller.Authenticated {
		return nil, apperr.New(apperr.Unauthenticated, "authentication required to like posts")
	}

	p, err := s.posts.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.New(apperr.NotFound, "post not found")
	}

	liked, count, err := s.likes.Toggle(ctx, p.ID, caller.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.events.Publish(ctx, events.TypePostLiked, p.ID.String(), events.PostLiked{
		PostID:     p.ID,
		UserID:     caller.UserID,
		Liked:      liked,
		LikesCount: count,
		At:         time.Now(),
	}); err != nil {
		slog.Warn("like event publish failed", "post_id", p.ID, "error", err)
	}

	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

// IsLiked reports whether the caller has liked the post. Always false
// for unauthenticated callers.
func (s *Service) IsLiked(ctx context.Context, caller identity.Caller, postID uuid.UUID) (bool, error) {
	if !caller.Authenticated {
		return false, nil
	}
	return s.likes.IsLiked(ctx, postID, caller.UserID)
}

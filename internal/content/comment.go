package content

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"blogapi/internal/apperr"
	"blogapi/internal/events"
	"blogapi/internal/identity"
	"blogapi/internal/models"
)

// CreateComment attaches a comment to a post. Anonymous callers are
// allowed and produce a nil author reference. Comments are approved by
// default; there is no moderation queue.
func (s *Service) CreateComment(ctx context.Context, caller identity.Caller, postSlug, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.New(apperr.Validation, "comment body is required")
	}
	if utf8.RuneCountInString(body) > models.CommentBodyMaxLen {
		return nil, apperr.New(apperr.Validation, "comment body is too long")
	}

	p, err := s.posts.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.New(apperr.NotFound, "post not found")
	}

	comment := &models.Comment{
		PostID:   p.ID,
		Body:     body,
		Approved: true,
	}
	if caller.Authenticated {
		id := caller.UserID
		comment.AuthorID = &id
		comment.AuthorName = caller.Username
	}

	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, err
	}
	created.AuthorName = comment.AuthorName

	if err := s.events.Publish(ctx, events.TypeCommentCreated, created.PostID.String(), events.CommentCreated{
		CommentID: created.ID,
		PostID:    created.PostID,
		AuthorID:  created.AuthorID,
		At:        time.Now(),
	}); err != nil {
		slog.Warn("comment event publish failed", "comment_id", created.ID, "error", err)
	}

	return created, nil
}

// ListComments returns a page of approved comments for a post, newest
// first, plus the total approved count.
func (s *Service) ListComments(ctx context.Context, postSlug string, limit, offset int) ([]models.Comment, int, error) {
	p, err := s.posts.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, 0, err
	}
	if p == nil {
		return nil, 0, apperr.New(apperr.NotFound, "post not found")
	}

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.comments.ListApproved(ctx, p.ID, limit, offset)
}

// DeleteComment removes a comment. Only the comment's author or an
// administrator may delete; anonymous comments are admin-only.
func (s *Service) DeleteComment(ctx context.Context, caller identity.Caller, id uuid.UUID) error {
	if !caller.Authenticated {
		return apperr.New(apperr.Unauthenticated, "authentication required")
	}

	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.New(apperr.NotFound, "comment not found")
	}

	owner := c.AuthorID != nil && *c.AuthorID == caller.UserID
	if !owner && !(caller.Admin && caller.Verified) {
		return apperr.New(apperr.Forbidden, "you do not own this comment")
	}
	return s.comments.Delete(ctx, id)
}

package content

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"blogapi/internal/apperr"
	"blogapi/internal/identity"
	"blogapi/internal/models"
	"blogapi/internal/slug"
)

// PostInput carries the client-supplied fields for post creation. The
// author is never part of the input: it is always the calling identity.
type PostInput struct {
	Title      string
	Content    string
	CategoryID *uuid.UUID
	ImageKey   *string
	Published  bool
}

func (in *PostInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperr.New(apperr.Validation, "title is required")
	}
	if utf8.RuneCountInString(in.Title) > models.PostTitleMaxLen {
		return apperr.New(apperr.Validation, "title is too long")
	}
	if strings.TrimSpace(in.Content) == "" {
		return apperr.New(apperr.Validation, "content is required")
	}
	return nil
}

// PostPatch carries partial updates for a post. Nil fields are left
// unchanged. ClearCategory detaches the post from its category. There is
// deliberately no author or slug field: both are immutable.
type PostPatch struct {
	Title         *string
	Content       *string
	Published     *bool
	CategoryID    *uuid.UUID
	ClearCategory bool
}

// CreatePost creates a post authored by the caller. The slug is derived
// from the title and allocated uniquely; a commit-time collision from a
// concurrent creation re-allocates and retries up to a fixed bound before
// surfacing Conflict.
func (s *Service) CreatePost(ctx context.Context, caller identity.Caller, in PostInput) (*models.Post, error) {
	if !caller.Authenticated {
		return nil, apperr.New(apperr.Unauthenticated, "authentication required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		c, err := s.categories.FindByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperr.New(apperr.Validation, "category does not exist")
		}
	}

	base := slug.Make(in.Title, models.PostSlugBaseLen)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		allocated, err := slug.Allocate(ctx, base, s.posts.SlugExists)
		if err != nil {
			return nil, err
		}

		created, err := s.posts.Create(ctx, &models.Post{
			AuthorID:   caller.UserID,
			Title:      in.Title,
			Slug:       allocated,
			CategoryID: in.CategoryID,
			Content:    in.Content,
			ImageKey:   in.ImageKey,
			Published:  in.Published,
		})
		if apperr.IsKind(err, apperr.DuplicateSlug) {
			continue
		}
		if err != nil {
			return nil, err
		}
		created.AuthorName = caller.Username
		return created, nil
	}
	return nil, apperr.New(apperr.Conflict, "could not allocate a unique slug, try again")
}

// GetPost looks up a post by slug and records the view.
func (s *Service) GetPost(ctx context.Context, postSlug string) (*models.Post, error) {
	p, err := s.posts.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.New(apperr.NotFound, "post not found")
	}

	if err := s.posts.IncrementViews(ctx, p.ID); err != nil {
		return nil, err
	}
	p.ViewCount++
	return p, nil
}

// ListPosts returns a page of posts matching the filter plus the total
// match count. An empty result is a valid page, never an error.
func (s *Service) ListPosts(ctx context.Context, f models.PostFilter) ([]models.Post, int, error) {
	if f.Ordering == "" {
		f.Ordering = models.DefaultPostOrdering
	}
	if !validOrdering(f.Ordering) {
		return nil, 0, apperr.New(apperr.Validation, "unknown ordering key")
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.posts.List(ctx, f)
}

// UpdatePost applies a patch to a post. Only the author or an
// administrator may update; everyone else gets Forbidden. The patch
// cannot touch the author or slug by construction.
func (s *Service) UpdatePost(ctx context.Context, caller identity.Caller, postSlug string, patch PostPatch) (*models.Post, error) {
	p, err := s.mutablePost(ctx, caller, postSlug)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperr.New(apperr.Validation, "title is required")
		}
		if utf8.RuneCountInString(title) > models.PostTitleMaxLen {
			return nil, apperr.New(apperr.Validation, "title is too long")
		}
		p.Title = title
	}
	if patch.Content != nil {
		if strings.TrimSpace(*patch.Content) == "" {
			return nil, apperr.New(apperr.Validation, "content is required")
		}
		p.Content = *patch.Content
	}
	if patch.Published != nil {
		p.Published = *patch.Published
	}
	if patch.ClearCategory {
		p.CategoryID = nil
		p.CategoryName = nil
		p.CategorySlug = nil
	} else if patch.CategoryID != nil {
		c, err := s.categories.FindByID(ctx, *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperr.New(apperr.Validation, "category does not exist")
		}
		p.CategoryID = patch.CategoryID
		p.CategoryName = &c.Name
		p.CategorySlug = &c.Slug
	}

	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetPostImage attaches an uploaded image reference to a post. The
// gateway owns the blob transfer; the service stores only the opaque key.
func (s *Service) SetPostImage(ctx context.Context, caller identity.Caller, postSlug, key string) (*models.Post, error) {
	p, err := s.mutablePost(ctx, caller, postSlug)
	if err != nil {
		return nil, err
	}

	p.ImageKey = &key
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePost removes a post. Only the author or an administrator may
// delete. Comments and like memberships disappear with the post.
func (s *Service) DeletePost(ctx context.Context, caller identity.Caller, postSlug string) error {
	p, err := s.mutablePost(ctx, caller, postSlug)
	if err != nil {
		return err
	}
	return s.posts.Delete(ctx, p.ID)
}

// mutablePost loads a post and checks that the caller may modify it.
func (s *Service) mutablePost(ctx context.Context, caller identity.Caller, postSlug string) (*models.Post, error) {
	if !caller.Authenticated {
		return nil, apperr.New(apperr.Unauthenticated, "authentication required")
	}

	p, err := s.posts.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.New(apperr.NotFound, "post not found")
	}
	if p.AuthorID != caller.UserID && !(caller.Admin && caller.Verified) {
		return nil, apperr.New(apperr.Forbidden, "you do not own this post")
	}
	return p, nil
}

func validOrdering(ordering string) bool {
	key := strings.TrimPrefix(ordering, "-")
	switch key {
	case models.OrderCreatedAt, models.OrderUpdatedAt, models.OrderLikesCount:
		return true
	}
	return false
}

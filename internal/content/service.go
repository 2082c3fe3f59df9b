// Package content implements the content service: category, post, and
// comment operations with ownership checks and unique-slug allocation.
// The service is stateless and persistence-agnostic; it holds no mutable
// state across calls and speaks no HTTP.
package content

import (
	"context"

	"github.com/google/uuid"

	"blogapi/internal/events"
	"blogapi/internal/models"
)

// maxSlugAttempts bounds the allocate-and-insert retry loop. Two
// concurrent creations with the same base text can both pass the
// existence check; the store's unique constraint rejects the loser, which
// re-allocates against the now-committed slug set and tries again.
const maxSlugAttempts = 5

// CategoryStore is the category persistence consumed by the service.
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	NameExists(ctx context.Context, name string) (bool, error)
}

// PostStore is the post persistence consumed by the service. Create must
// reject a taken slug with a DuplicateSlug error even under concurrent
// insertion; that constraint backs the allocation retry loop.
type PostStore interface {
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f models.PostFilter) ([]models.Post, int, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// CommentStore is the comment persistence consumed by the service.
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListApproved(ctx context.Context, postID uuid.UUID, limit, offset int) ([]models.Comment, int, error)
}

// Service orchestrates create/read/update/delete for categories, posts,
// and comments.
type Service struct {
	categories CategoryStore
	posts      PostStore
	comments   CommentStore
	events     events.Publisher
}

// NewService creates a content service over the given stores.
func NewService(categories CategoryStore, posts PostStore, comments CommentStore, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Service{
		categories: categories,
		posts:      posts,
		comments:   comments,
		events:     pub,
	}
}
